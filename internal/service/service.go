package service

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"strings"
	"time"

	"goa.design/clue/log"

	"gemini-collab-server/internal/errors"
	"gemini-collab-server/internal/gemini"
	"gemini-collab-server/internal/history"
	"gemini-collab-server/internal/models"
	"gemini-collab-server/internal/sysprompt"
	"gemini-collab-server/internal/tools"
)

// responseMarker prefixes every successful tool result text so the calling
// agent can tell relayed Gemini output apart from its own context.
const responseMarker = "🤖 GEMINI RESPONSE:\n\n"

// Availability is the model availability state, computed once at startup
// and passed in explicitly. It never changes while the server runs.
type Availability struct {
	// Available says whether the model client came up.
	Available bool
	// Detail is the startup failure text when not available.
	Detail string
}

// Completer is the slice of the model client the service needs.
type Completer interface {
	// Complete sends one prompt and returns the response text.
	Complete(ctx context.Context, req gemini.CompletionRequest) (string, error)
	// Model returns the selected model name.
	Model() string
}

// CollabService executes tool calls end to end.
type CollabService interface {
	Execute(ctx context.Context, name string, args json.RawMessage) (*models.ToolCallResult, *models.ErrorDetail)
	Definitions() []models.ToolDefinition
}

// DefaultCollabService implements CollabService on top of the tool registry
// and the model client.
type DefaultCollabService struct {
	registry  *tools.Registry
	completer Completer
	avail     Availability
	prompt    sysprompt.Prompt
	recorder  *history.Recorder
}

// NewDefaultCollabService creates a new DefaultCollabService. The completer
// may be nil only when avail says the model client is down; the registry
// then exposes no tool that would need it.
func NewDefaultCollabService(
	registry *tools.Registry,
	completer Completer,
	avail Availability,
	prompt sysprompt.Prompt,
	recorder *history.Recorder,
) (*DefaultCollabService, error) {
	if registry == nil {
		return nil, fmt.Errorf("tool registry is required")
	}
	if avail.Available && completer == nil {
		return nil, fmt.Errorf("model client is required when available")
	}
	return &DefaultCollabService{
		registry:  registry,
		completer: completer,
		avail:     avail,
		prompt:    prompt,
		recorder:  recorder,
	}, nil
}

// Definitions returns the wire definitions of the listed tools.
func (s *DefaultCollabService) Definitions() []models.ToolDefinition {
	return s.registry.Definitions()
}

// Execute runs one tool call: resolve the tool, validate the arguments,
// build and send the prompt, and shape the result text. Failures come back
// as *models.ErrorDetail; the transport turns them into wire errors.
func (s *DefaultCollabService) Execute(ctx context.Context, name string, args json.RawMessage) (*models.ToolCallResult, *models.ErrorDetail) {
	desc, ok := s.registry.Lookup(name)
	if !ok {
		return nil, errors.NewUnknownToolError(name)
	}

	if err := desc.Validate(args); err != nil {
		return nil, errors.NewInvalidArgumentsError(name, err.Error())
	}

	if desc.ID() == tools.ServerInfo {
		text := s.serverInfoText()
		s.record(ctx, history.Entry{Tool: name, Status: history.StatusOK})
		return models.TextResult(responseMarker + text), nil
	}

	spec, err := desc.BuildCallSpec(args)
	if err != nil {
		return nil, errors.NewInvalidArgumentsError(name, err.Error())
	}

	prompt := spec.Prompt
	if spec.UseSystemPrompt {
		prompt = s.prompt.Apply(prompt)
	}

	effectiveModel := spec.Model
	if effectiveModel == "" {
		effectiveModel = s.completer.Model()
	}

	start := time.Now()
	text, err := s.completer.Complete(ctx, gemini.CompletionRequest{
		Prompt:      prompt,
		Temperature: spec.Temperature,
		Model:       spec.Model,
	})
	duration := time.Since(start).Milliseconds()

	if err != nil {
		var unknown *gemini.UnknownModelError
		if stdErrors.As(err, &unknown) {
			// A bad model name is remediation, not failure: the caller gets
			// a successful result listing what it can pick from.
			s.record(ctx, history.Entry{Tool: name, Model: unknown.Model, Temperature: spec.Temperature, DurationMS: duration, Status: history.StatusOK})
			return models.TextResult(responseMarker + unknownModelText(unknown.Model)), nil
		}
		log.Error(ctx, err, log.KV{K: "tool", V: name}, log.KV{K: "model", V: effectiveModel})
		s.record(ctx, history.Entry{Tool: name, Model: effectiveModel, Temperature: spec.Temperature, DurationMS: duration, Status: history.StatusError, Detail: err.Error()})
		return nil, errors.NewUpstreamError(err.Error())
	}

	body := text
	if effectiveModel != gemini.DefaultModel {
		body = fmt.Sprintf("✨ Using %s\n\n%s", effectiveModel, body)
	}

	s.record(ctx, history.Entry{Tool: name, Model: effectiveModel, Temperature: spec.Temperature, DurationMS: duration, Status: history.StatusOK})
	return models.TextResult(responseMarker + body), nil
}

// serverInfoText synthesizes the status string for the server_info tool.
func (s *DefaultCollabService) serverInfoText() string {
	if !s.avail.Available {
		return fmt.Sprintf("Server v%s - Gemini error: %s", models.ServerVersion, s.avail.Detail)
	}
	info := fmt.Sprintf("Server v%s - Gemini connected and ready!", models.ServerVersion)
	if model := s.completer.Model(); model != gemini.DefaultModel {
		info += fmt.Sprintf("\n✨ Using model: %s", model)
	}
	if s.prompt.Loaded() {
		info += fmt.Sprintf("\n📝 System prompt loaded from %s", s.prompt.Filename())
	}
	return info
}

// unknownModelText lists the catalog for a caller that asked for a model
// outside it.
func unknownModelText(model string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "❌ Unknown model '%s'\n\nTry one of these:\n", model)
	lines := make([]string, 0, len(gemini.Catalog()))
	for _, m := range gemini.Catalog() {
		lines = append(lines, fmt.Sprintf("• %s - %s", m.Name, m.Description))
	}
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}

// record appends one exchange-log entry. Recording failures are logged and
// swallowed; the exchange itself already succeeded or failed on its own.
func (s *DefaultCollabService) record(ctx context.Context, e history.Entry) {
	if !s.recorder.Enabled() {
		return
	}
	if err := s.recorder.Record(ctx, e); err != nil {
		log.Warnf(ctx, "failed to record exchange: %v", err)
	}
}
