// Package tools defines the tool registry: which tools the server exposes,
// their input schemas, and how validated arguments become a model call.
// The registry is built once at startup from the availability state and
// never changes afterwards.
package tools

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"gemini-collab-server/internal/gemini"
	"gemini-collab-server/internal/models"
)

// ID identifies a tool. Dispatch happens on this type, not on raw strings.
type ID string

// The tools this server knows about.
const (
	AskGemini  ID = "ask_gemini"
	CodeReview ID = "gemini_code_review"
	Brainstorm ID = "gemini_brainstorm"
	ServerInfo ID = "server_info"
)

// String returns the wire name of the tool.
func (id ID) String() string {
	return string(id)
}

// CallSpec is the model call a tool produces from its validated arguments.
type CallSpec struct {
	// Prompt is the fully built prompt text, before the system prompt.
	Prompt string
	// Temperature is the sampling temperature for this call.
	Temperature float64
	// Model optionally routes the call to a specific model. Empty means the
	// server's selected model.
	Model string
	// UseSystemPrompt says whether the loaded system prompt is prepended.
	UseSystemPrompt bool
}

// Descriptor couples a tool's wire definition with its compiled input
// schema and its argument handling.
type Descriptor struct {
	id     ID
	def    models.ToolDefinition
	schema *jsonschema.Schema
	build  func(args json.RawMessage) (CallSpec, error)
}

// ID returns the tool's identity.
func (d *Descriptor) ID() ID {
	return d.id
}

// Definition returns the wire definition served by tools/list.
func (d *Descriptor) Definition() models.ToolDefinition {
	return d.def
}

// CallsModel reports whether the tool performs a model call. server_info
// only synthesizes a status string.
func (d *Descriptor) CallsModel() bool {
	return d.build != nil
}

// Validate checks the raw arguments against the tool's input schema.
// Missing arguments validate as the empty object.
func (d *Descriptor) Validate(args json.RawMessage) error {
	instance, err := decodeArguments(args)
	if err != nil {
		return err
	}
	return d.schema.Validate(instance)
}

// BuildCallSpec turns validated arguments into the call to make.
func (d *Descriptor) BuildCallSpec(args json.RawMessage) (CallSpec, error) {
	if d.build == nil {
		return CallSpec{}, fmt.Errorf("tool %s does not call the model", d.id)
	}
	return d.build(args)
}

// Registry is the immutable tool table. Which tools it lists and which it
// accepts calls for depends on whether the model client came up at startup.
type Registry struct {
	order []ID
	byID  map[ID]*Descriptor
}

// New builds the registry. When the model client is available the three
// collaboration tools are listed and server_info stays callable unlisted;
// when degraded only server_info exists, so calling a collaboration tool
// yields the same failure as any other unknown tool.
func New(available bool, selectedModel string) (*Registry, error) {
	if selectedModel == "" {
		selectedModel = gemini.DefaultModel
	}

	all := []struct {
		def   models.ToolDefinition
		build func(args json.RawMessage) (CallSpec, error)
	}{
		{askGeminiDefinition(selectedModel), buildAskSpec},
		{codeReviewDefinition(), buildReviewSpec},
		{brainstormDefinition(), buildBrainstormSpec},
		{serverInfoDefinition(), nil},
	}

	r := &Registry{byID: make(map[ID]*Descriptor)}
	for _, t := range all {
		id := ID(t.def.Name)
		if !available && id != ServerInfo {
			continue
		}
		schema, err := compileSchema(t.def.Name, t.def.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("failed to compile %s input schema: %w", t.def.Name, err)
		}
		r.byID[id] = &Descriptor{id: id, def: t.def, schema: schema, build: t.build}
	}

	if available {
		r.order = []ID{AskGemini, CodeReview, Brainstorm}
	} else {
		r.order = []ID{ServerInfo}
	}
	return r, nil
}

// Definitions returns the wire definitions of the listed tools, in display
// order.
func (r *Registry) Definitions() []models.ToolDefinition {
	defs := make([]models.ToolDefinition, 0, len(r.order))
	for _, id := range r.order {
		defs = append(defs, r.byID[id].def)
	}
	return defs
}

// Lookup resolves a wire name to a callable tool.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	d, ok := r.byID[ID(name)]
	return d, ok
}

// compileSchema compiles a wire schema for validation. The schema is
// round-tripped through encoding/json so the compiler sees plain decoded
// JSON values.
func compileSchema(name string, schema models.Schema) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	resource := name + ".json"
	if err := c.AddResource(resource, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	return c.Compile(resource)
}

// decodeArguments decodes raw tool arguments for validation. Absent or null
// arguments decode to the empty object.
func decodeArguments(args json.RawMessage) (any, error) {
	if len(args) == 0 || string(args) == "null" {
		return map[string]interface{}{}, nil
	}
	var instance any
	if err := json.Unmarshal(args, &instance); err != nil {
		return nil, fmt.Errorf("arguments are not valid JSON: %w", err)
	}
	return instance, nil
}

// unmarshalArguments decodes raw arguments into a tool's request struct.
func unmarshalArguments(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("failed to decode arguments: %w", err)
	}
	return nil
}
