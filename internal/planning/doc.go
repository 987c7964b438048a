// Package planning provides the client-side contract to the external
// planning capability: segmenting a document into reading stages and
// explaining single words for a given learner profile.
//
// Two interchangeable implementations exist behind the Planner
// interface: an HTTP client talking to the planner service, and a
// deterministic offline fallback used when no capability credential is
// configured. The implementation is selected once at process startup
// and injected into the worker; there is no process-wide implicit state.
package planning
