package models

import "encoding/json"

// JSONRPCVersion is the only protocol version this server speaks.
const JSONRPCVersion = "2.0"

// JSONRPCRequest represents a JSON-RPC request object.
type JSONRPCRequest struct {
	// JSONRPC specifies the version of the JSON-RPC protocol, must be "2.0".
	JSONRPC string `json:"jsonrpc"`
	// ID is a unique identifier established by the client.
	// It can be a string, a number or null. The server never interprets it;
	// it is echoed back verbatim in the response. A missing ID decodes to
	// nil and is echoed as null.
	ID interface{} `json:"id"`
	// Method is a string containing the name of the method to be invoked.
	Method string `json:"method"`
	// Params holds the parameter values for the invocation. It may be
	// omitted, in which case handlers treat it as an empty object.
	// json.RawMessage defers parsing until the method is known.
	Params json.RawMessage `json:"params"`
}

// JSONRPCError represents a JSON-RPC error object.
type JSONRPCError struct {
	// Code is a number that indicates the error type that occurred.
	// Predefined JSON-RPC error codes are used, or application-specific ones.
	Code int `json:"code"`
	// Message is a string providing a short description of the error.
	Message string `json:"message"`
}

// JSONRPCResponse represents a JSON-RPC response object.
type JSONRPCResponse struct {
	// JSONRPC specifies the version of the JSON-RPC protocol, must be "2.0".
	JSONRPC string `json:"jsonrpc"`
	// ID is the identifier of the request to which this response is a reply.
	// It must be the same as the ID of the request.
	ID interface{} `json:"id"`
	// Result contains the result of the method invocation if there was no error.
	// This field must not exist if there was an error invoking the method.
	Result interface{} `json:"result,omitempty"`
	// Error contains an error object if an error occurred during the method
	// invocation. This field must not exist if there was no error.
	Error *JSONRPCError `json:"error,omitempty"`
}
