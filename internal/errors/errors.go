package errors

import (
	"fmt"

	"gemini-collab-server/internal/models"
)

// JSON-RPC Error Codes (as per JSON-RPC 2.0 Specification)
const (
	CodeParseError     = -32700 // Invalid JSON was received by the server.
	CodeInvalidRequest = -32600 // The JSON sent is not a valid Request object.
	CodeMethodNotFound = -32601 // The method does not exist / is not available.
	CodeInvalidParams  = -32602 // Invalid method parameter(s).
	CodeInternalError  = -32603 // Internal JSON-RPC error.
)

// This server emits exactly two codes: -32601 for an unsupported method and
// -32603 for everything that fails inside a supported one (unknown tool,
// bad arguments, upstream failure). Parse errors never reach the wire; the
// transport drops malformed lines without replying.

// NewErrorDetail creates a new ErrorDetail.
func NewErrorDetail(code int, message string) *models.ErrorDetail {
	return &models.ErrorDetail{
		Code:    code,
		Message: message,
	}
}

// NewMethodNotFoundError creates an ErrorDetail for an unsupported method.
// JSON-RPC: -32601
func NewMethodNotFoundError(method string) *models.ErrorDetail {
	return NewErrorDetail(CodeMethodNotFound, fmt.Sprintf("Method not found: %s", method))
}

// NewUnknownToolError creates an ErrorDetail for a tools/call naming a tool
// the registry does not expose.
// JSON-RPC: -32603
func NewUnknownToolError(name string) *models.ErrorDetail {
	return NewErrorDetail(CodeInternalError, fmt.Sprintf("Unknown tool: %s", name))
}

// NewInvalidArgumentsError creates an ErrorDetail for tool arguments that
// fail the tool's input schema.
// JSON-RPC: -32603
func NewInvalidArgumentsError(tool, details string) *models.ErrorDetail {
	return NewErrorDetail(CodeInternalError, fmt.Sprintf("Invalid arguments for %s: %s", tool, details))
}

// NewUpstreamError creates an ErrorDetail for a failed model call. The
// detail is the upstream failure text, never a stack trace.
// JSON-RPC: -32603
func NewUpstreamError(details string) *models.ErrorDetail {
	return NewErrorDetail(CodeInternalError, fmt.Sprintf("Error calling Gemini: %s", details))
}

// NewInternalError creates an ErrorDetail for unexpected server errors.
// JSON-RPC: -32603
func NewInternalError(details string) *models.ErrorDetail {
	return NewErrorDetail(CodeInternalError, details)
}

// ToJSONRPCError converts an ErrorDetail to the wire-level JSONRPCError.
// This is the single point where internal errors become protocol errors.
func ToJSONRPCError(errDetail *models.ErrorDetail) *models.JSONRPCError {
	if errDetail == nil {
		return nil
	}
	return &models.JSONRPCError{
		Code:    errDetail.Code,
		Message: errDetail.Message,
	}
}
