// Package service contains the application-specific use cases. It
// orchestrates interactions between domain objects and the repositories
// defined in internal/store to fulfill application features: learner
// profiles, document upload and planning jobs, and study activity
// (Cornell notes, unknown words, word explanations).
//
// Services apply transactional boundaries when operations span multiple
// repositories and keep delivery mechanisms (HTTP handlers, queue
// consumers) free of business rules.
package service
