// Package worker implements the reading-plan job processor. It turns a
// queued job into a persisted set of reading stages: resolve the
// profile and document, call the planning capability, and replace the
// document's stage set in one transaction.
//
// Every job is acknowledged exactly once, whatever its outcome. Jobs
// that can never succeed (malformed bodies, dangling references) are
// dropped; transient failures are logged and dropped too rather than
// requeued, because the uploader can simply re-trigger planning.
package worker
