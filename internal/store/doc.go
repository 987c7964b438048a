// Package store defines the persistence interfaces for learner
// profiles, documents, reading stages, Cornell notes and unknown words,
// together with the sentinel errors and transaction helper their
// implementations share. The interfaces keep business rules independent
// of the concrete database technology.
package store
