// Package postgres provides PostgreSQL-specific implementations for the
// data storage interfaces (repositories) defined in the internal/store
// package. It handles query execution and mapping between domain
// entities and database records, including the transactional
// replacement of a document's reading stages.
package postgres
