package models

import "encoding/json"

// ToolContent is one content block inside a tool call result. This server
// only ever produces text blocks.
type ToolContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ToolCallResult represents the result of a successful tools/call.
type ToolCallResult struct {
	Content []ToolContent `json:"content"`
}

// TextResult builds a ToolCallResult holding a single text block.
func TextResult(text string) *ToolCallResult {
	return &ToolCallResult{Content: []ToolContent{{Type: "text", Text: text}}}
}

// ToolCallParams carries the params of a tools/call request. Arguments stay
// raw until the named tool's schema has been checked.
type ToolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}
