package tools_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gemini-collab-server/internal/gemini"
	"gemini-collab-server/internal/tools"
)

func newRegistry(t *testing.T, available bool) *tools.Registry {
	t.Helper()
	r, err := tools.New(available, gemini.DefaultModel)
	require.NoError(t, err)
	return r
}

func TestRegistryAvailable(t *testing.T) {
	r := newRegistry(t, true)

	defs := r.Definitions()
	require.Len(t, defs, 3, "available registry lists exactly the collaboration tools")
	assert.Equal(t, "ask_gemini", defs[0].Name)
	assert.Equal(t, "gemini_code_review", defs[1].Name)
	assert.Equal(t, "gemini_brainstorm", defs[2].Name)

	for _, def := range defs {
		assert.NotEmpty(t, def.Description)
		assert.Equal(t, "object", def.InputSchema["type"])
	}

	_, ok := r.Lookup("ask_gemini")
	assert.True(t, ok)
	info, ok := r.Lookup("server_info")
	assert.True(t, ok, "server_info stays callable while healthy even though it is not listed")
	assert.False(t, info.CallsModel())
}

func TestRegistryDegraded(t *testing.T) {
	r := newRegistry(t, false)

	defs := r.Definitions()
	require.Len(t, defs, 1, "degraded registry lists exactly server_info")
	assert.Equal(t, "server_info", defs[0].Name)

	for _, name := range []string{"ask_gemini", "gemini_code_review", "gemini_brainstorm"} {
		_, ok := r.Lookup(name)
		assert.False(t, ok, "%s must not be callable while degraded", name)
	}
	_, ok := r.Lookup("server_info")
	assert.True(t, ok)
}

func TestRegistryLookupUnknown(t *testing.T) {
	r := newRegistry(t, true)
	_, ok := r.Lookup("launch_rockets")
	assert.False(t, ok)
}

func TestAskGeminiDefinitionEmbedsCatalog(t *testing.T) {
	r, err := tools.New(true, "gemini-2.5-flash")
	require.NoError(t, err)

	ask, ok := r.Lookup("ask_gemini")
	require.True(t, ok)
	props := ask.Definition().InputSchema["properties"].(map[string]interface{})
	model := props["model"].(map[string]interface{})
	assert.Equal(t, "gemini-2.5-flash", model["default"])
	assert.Contains(t, model["description"], "gemini-2.5-flash")
	assert.Contains(t, model["description"], "gemini-1.0-pro-latest")
}

func TestValidate(t *testing.T) {
	r := newRegistry(t, true)
	ask, _ := r.Lookup("ask_gemini")
	review, _ := r.Lookup("gemini_code_review")
	info, _ := r.Lookup("server_info")

	tests := []struct {
		name    string
		desc    *tools.Descriptor
		args    string
		wantErr string
	}{
		{"minimal ask", ask, `{"prompt":"hi"}`, ""},
		{"full ask", ask, `{"prompt":"hi","temperature":0.9,"model":"gemini-1.5-flash","include_system_prompt":false}`, ""},
		{"ask missing prompt", ask, `{"temperature":0.3}`, "prompt"},
		{"ask empty arguments", ask, ``, "prompt"},
		{"ask temperature above range", ask, `{"prompt":"hi","temperature":1.5}`, "temperature"},
		{"ask temperature below range", ask, `{"prompt":"hi","temperature":-0.1}`, "temperature"},
		{"ask temperature wrong type", ask, `{"prompt":"hi","temperature":"hot"}`, "temperature"},
		{"ask non-object arguments", ask, `"just a string"`, "object"},
		{"review missing code", review, `{"focus":"security"}`, "code"},
		{"review ok", review, `{"code":"func main() {}"}`, ""},
		{"server_info no arguments", info, ``, ""},
		{"server_info null arguments", info, `null`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.desc.Validate(json.RawMessage(tt.args))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBuildAskSpec(t *testing.T) {
	r := newRegistry(t, true)
	ask, _ := r.Lookup("ask_gemini")

	t.Run("defaults", func(t *testing.T) {
		spec, err := ask.BuildCallSpec(json.RawMessage(`{"prompt":"What is a goroutine?"}`))
		require.NoError(t, err)
		assert.Equal(t, "What is a goroutine?", spec.Prompt)
		assert.Equal(t, tools.DefaultAskTemperature, spec.Temperature)
		assert.Empty(t, spec.Model)
		assert.True(t, spec.UseSystemPrompt)
	})

	t.Run("explicit zero temperature honored", func(t *testing.T) {
		spec, err := ask.BuildCallSpec(json.RawMessage(`{"prompt":"p","temperature":0}`))
		require.NoError(t, err)
		assert.Equal(t, 0.0, spec.Temperature)
	})

	t.Run("overrides", func(t *testing.T) {
		spec, err := ask.BuildCallSpec(json.RawMessage(`{"prompt":"p","temperature":0.9,"model":"gemini-1.5-flash","include_system_prompt":false}`))
		require.NoError(t, err)
		assert.Equal(t, 0.9, spec.Temperature)
		assert.Equal(t, "gemini-1.5-flash", spec.Model)
		assert.False(t, spec.UseSystemPrompt)
	})
}

func TestBuildReviewSpec(t *testing.T) {
	r := newRegistry(t, true)
	review, _ := r.Lookup("gemini_code_review")

	spec, err := review.BuildCallSpec(json.RawMessage(`{"code":"func main() {}","focus":"security"}`))
	require.NoError(t, err)

	want := "Please review this code with a focus on security:\n\n```\nfunc main() {}\n```\n\n" +
		"Provide specific, actionable feedback on:\n" +
		"1. Potential issues or bugs\n" +
		"2. Security concerns\n" +
		"3. Performance optimizations\n" +
		"4. Best practices\n" +
		"5. Code clarity and maintainability"
	assert.Equal(t, want, spec.Prompt)
	assert.Equal(t, tools.ReviewTemperature, spec.Temperature)
	assert.Empty(t, spec.Model)
	assert.True(t, spec.UseSystemPrompt)

	t.Run("default focus", func(t *testing.T) {
		spec, err := review.BuildCallSpec(json.RawMessage(`{"code":"x"}`))
		require.NoError(t, err)
		assert.Contains(t, spec.Prompt, "with a focus on general:")
	})
}

func TestBuildBrainstormSpec(t *testing.T) {
	r := newRegistry(t, true)
	brainstorm, _ := r.Lookup("gemini_brainstorm")

	t.Run("topic only", func(t *testing.T) {
		spec, err := brainstorm.BuildCallSpec(json.RawMessage(`{"topic":"cache invalidation"}`))
		require.NoError(t, err)
		assert.Equal(t, "Let's brainstorm about: cache invalidation\n\nProvide creative ideas, alternatives, and considerations.", spec.Prompt)
		assert.Equal(t, tools.BrainstormTemperature, spec.Temperature)
		assert.True(t, spec.UseSystemPrompt)
	})

	t.Run("with context", func(t *testing.T) {
		spec, err := brainstorm.BuildCallSpec(json.RawMessage(`{"topic":"cache invalidation","context":"LRU, 1M keys"}`))
		require.NoError(t, err)
		assert.Equal(t, "Let's brainstorm about: cache invalidation\n\nContext: LRU, 1M keys\n\nProvide creative ideas, alternatives, and considerations.", spec.Prompt)
	})
}

func TestServerInfoBuildsNoCall(t *testing.T) {
	r := newRegistry(t, false)
	info, _ := r.Lookup("server_info")

	assert.False(t, info.CallsModel())
	_, err := info.BuildCallSpec(nil)
	assert.Error(t, err)
}
