package models

// ErrorDetail provides a structured way to represent an error as it travels
// from the handlers toward the transport, where it is converted into the
// wire-level JSONRPCError. Handlers return it instead of raising; the
// transport is the single place that serializes errors.
type ErrorDetail struct {
	// Code is a JSON-RPC error code.
	Code int `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
}
