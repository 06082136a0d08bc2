// Package api exposes the lesson service over HTTP: lesson generation,
// the per-teacher lesson history with export, and the community excerpt
// feed. Handlers decode and validate requests, call the service layer and
// map its errors to status codes and client-safe messages.
package api
