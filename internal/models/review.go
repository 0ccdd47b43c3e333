package models

// CodeReviewRequest represents the arguments of a gemini_code_review tool call.
type CodeReviewRequest struct {
	// Code is the code to review. Required.
	Code string `json:"code"`
	// Focus narrows the review, e.g. "security", "performance".
	// Empty means the general review focus.
	Focus string `json:"focus,omitempty"`
}
