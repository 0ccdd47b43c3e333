package models

// AskGeminiRequest represents the arguments of an ask_gemini tool call.
type AskGeminiRequest struct {
	// Prompt is the question or task to send. Required.
	Prompt string `json:"prompt"`
	// Temperature controls response creativity, 0.0 to 1.0.
	// A nil value means the caller did not set it and the default of 0.5
	// applies; 0.0 is a deliberate choice and is honored as given.
	Temperature *float64 `json:"temperature,omitempty"`
	// Model optionally names the model to use for this call. Empty means
	// the server's selected model.
	Model string `json:"model,omitempty"`
	// IncludeSystemPrompt controls whether the loaded system prompt is
	// prepended. Nil means the default of true.
	IncludeSystemPrompt *bool `json:"include_system_prompt,omitempty"`
}
