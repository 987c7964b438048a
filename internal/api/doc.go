// Package api handles incoming HTTP requests for the reading service:
// routing, request validation, and response formatting. Handlers
// translate HTTP concerns into calls on the application services and
// never touch the stores directly.
package api
