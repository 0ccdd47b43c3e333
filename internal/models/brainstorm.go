package models

// BrainstormRequest represents the arguments of a gemini_brainstorm tool call.
type BrainstormRequest struct {
	// Topic is the subject to brainstorm about. Required.
	Topic string `json:"topic"`
	// Context optionally supplies background or constraints.
	Context string `json:"context,omitempty"`
}
