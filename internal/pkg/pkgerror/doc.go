// Package pkgerror defines the structured error type shared by every layer.
//
// An Error carries a user-facing message, a high-level type and a stable code.
// Use cases return them, and the router maps the code to an HTTP status at
// the edge, so handlers never pick status codes themselves.
package pkgerror
