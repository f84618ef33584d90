// Package ctxkey defines type-safe keys for context.Value.
package ctxkey

// Key avoids collisions with other packages' context values.
type Key string

const (
	// RequestID is the server-generated or client-supplied request id,
	// set by the RequestID middleware.
	RequestID Key = "ctx_request_id"
)
