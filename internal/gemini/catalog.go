package gemini

import "fmt"

// DefaultModel is used when neither the environment nor the caller picks one.
const DefaultModel = "gemini-2.0-flash"

// Model is a catalog entry.
type Model struct {
	Name        string
	Description string
}

// catalog lists the models this server will route to, in the order they are
// shown to users.
var catalog = []Model{
	{"gemini-2.5-flash", "Latest, best price-performance ratio"},
	{"gemini-2.0-flash", "Newest multimodal with next-gen features"},
	{"gemini-2.0-flash-lite", "Cost-efficient with low latency"},
	{"gemini-1.5-pro-latest", "Powerful with long context (up to 1M tokens)"},
	{"gemini-1.5-flash", "Fast and versatile multimodal"},
	{"gemini-1.5-flash-8b", "Small model for simple tasks"},
	{"gemini-1.0-pro-latest", "Legacy model with 32k context"},
}

// Catalog returns the known models in display order.
func Catalog() []Model {
	out := make([]Model, len(catalog))
	copy(out, catalog)
	return out
}

// ModelNames returns the known model names in display order.
func ModelNames() []string {
	names := make([]string, len(catalog))
	for i, m := range catalog {
		names[i] = m.Name
	}
	return names
}

// KnownModel reports whether name is in the catalog.
func KnownModel(name string) bool {
	for _, m := range catalog {
		if m.Name == name {
			return true
		}
	}
	return false
}

// UnknownModelError is returned by Complete when the request names a model
// outside the catalog. Callers turn it into a user-facing listing of the
// known models rather than a protocol error.
type UnknownModelError struct {
	Model string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("unknown model %q", e.Model)
}
