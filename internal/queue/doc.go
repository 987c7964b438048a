// Package queue provides the durable message transport between the API
// server and the reading-plan worker. The server publishes one job per
// uploaded document and the worker consumes jobs one at a time from a
// shared durable queue, so multiple worker replicas compete for work
// without duplication.
package queue
