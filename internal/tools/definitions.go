package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"gemini-collab-server/internal/gemini"
	"gemini-collab-server/internal/models"
)

// Generation settings. ask_gemini lets the caller pick a temperature; the
// review and brainstorm tools pin theirs to match their intent.
const (
	DefaultAskTemperature = 0.5
	ReviewTemperature     = 0.2
	BrainstormTemperature = 0.7

	DefaultReviewFocus = "general"
)

const reviewInstructions = "Provide specific, actionable feedback on:\n" +
	"1. Potential issues or bugs\n" +
	"2. Security concerns\n" +
	"3. Performance optimizations\n" +
	"4. Best practices\n" +
	"5. Code clarity and maintainability"

func askGeminiDefinition(selectedModel string) models.ToolDefinition {
	return models.ToolDefinition{
		Name:        AskGemini.String(),
		Description: "Ask Gemini a question and get the response directly in Claude's context",
		InputSchema: models.Schema{
			"type": "object",
			"properties": map[string]interface{}{
				"prompt": map[string]interface{}{
					"type":        "string",
					"description": "The question or prompt for Gemini",
				},
				"temperature": map[string]interface{}{
					"type":        "number",
					"description": "Temperature for response (0.0-1.0)",
					"default":     DefaultAskTemperature,
					"minimum":     0.0,
					"maximum":     1.0,
				},
				"model": map[string]interface{}{
					"type":        "string",
					"description": fmt.Sprintf("Model to use. Available: %s. Default: %s", strings.Join(gemini.ModelNames(), ", "), selectedModel),
					"default":     selectedModel,
				},
				"include_system_prompt": map[string]interface{}{
					"type":        "boolean",
					"description": "Include system prompt from GEMINI.md. Default: true",
					"default":     true,
				},
			},
			"required": []interface{}{"prompt"},
		},
	}
}

func codeReviewDefinition() models.ToolDefinition {
	return models.ToolDefinition{
		Name:        CodeReview.String(),
		Description: "Have Gemini review code and return feedback directly to Claude",
		InputSchema: models.Schema{
			"type": "object",
			"properties": map[string]interface{}{
				"code": map[string]interface{}{
					"type":        "string",
					"description": "The code to review",
				},
				"focus": map[string]interface{}{
					"type":        "string",
					"description": "Specific focus area (security, performance, etc.)",
					"default":     DefaultReviewFocus,
				},
			},
			"required": []interface{}{"code"},
		},
	}
}

func brainstormDefinition() models.ToolDefinition {
	return models.ToolDefinition{
		Name:        Brainstorm.String(),
		Description: "Brainstorm solutions with Gemini, response visible to Claude",
		InputSchema: models.Schema{
			"type": "object",
			"properties": map[string]interface{}{
				"topic": map[string]interface{}{
					"type":        "string",
					"description": "The topic to brainstorm about",
				},
				"context": map[string]interface{}{
					"type":        "string",
					"description": "Additional context",
					"default":     "",
				},
			},
			"required": []interface{}{"topic"},
		},
	}
}

func serverInfoDefinition() models.ToolDefinition {
	return models.ToolDefinition{
		Name:        ServerInfo.String(),
		Description: "Get server status and error information",
		InputSchema: models.Schema{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
	}
}

func buildAskSpec(args json.RawMessage) (CallSpec, error) {
	var req models.AskGeminiRequest
	if err := unmarshalArguments(args, &req); err != nil {
		return CallSpec{}, err
	}
	spec := CallSpec{
		Prompt:          req.Prompt,
		Temperature:     DefaultAskTemperature,
		Model:           req.Model,
		UseSystemPrompt: true,
	}
	if req.Temperature != nil {
		spec.Temperature = *req.Temperature
	}
	if req.IncludeSystemPrompt != nil {
		spec.UseSystemPrompt = *req.IncludeSystemPrompt
	}
	return spec, nil
}

func buildReviewSpec(args json.RawMessage) (CallSpec, error) {
	var req models.CodeReviewRequest
	if err := unmarshalArguments(args, &req); err != nil {
		return CallSpec{}, err
	}
	focus := req.Focus
	if focus == "" {
		focus = DefaultReviewFocus
	}
	prompt := fmt.Sprintf("Please review this code with a focus on %s:\n\n```\n%s\n```\n\n%s",
		focus, req.Code, reviewInstructions)
	return CallSpec{
		Prompt:          prompt,
		Temperature:     ReviewTemperature,
		UseSystemPrompt: true,
	}, nil
}

func buildBrainstormSpec(args json.RawMessage) (CallSpec, error) {
	var req models.BrainstormRequest
	if err := unmarshalArguments(args, &req); err != nil {
		return CallSpec{}, err
	}
	prompt := fmt.Sprintf("Let's brainstorm about: %s", req.Topic)
	if req.Context != "" {
		prompt += fmt.Sprintf("\n\nContext: %s", req.Context)
	}
	prompt += "\n\nProvide creative ideas, alternatives, and considerations."
	return CallSpec{
		Prompt:          prompt,
		Temperature:     BrainstormTemperature,
		UseSystemPrompt: true,
	}, nil
}
