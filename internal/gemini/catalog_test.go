package gemini_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gemini-collab-server/internal/gemini"
)

func TestCatalog(t *testing.T) {
	models := gemini.Catalog()
	assert.Len(t, models, 7)
	assert.Equal(t, "gemini-2.5-flash", models[0].Name, "display order is fixed")
	assert.True(t, gemini.KnownModel(gemini.DefaultModel), "default model must be in the catalog")

	names := gemini.ModelNames()
	assert.Len(t, names, len(models))
	for i, m := range models {
		assert.Equal(t, m.Name, names[i])
		assert.NotEmpty(t, m.Description)
	}
}

func TestKnownModel(t *testing.T) {
	assert.True(t, gemini.KnownModel("gemini-1.5-flash-8b"))
	assert.False(t, gemini.KnownModel("gemini-9000-ultra"))
	assert.False(t, gemini.KnownModel(""))
}

func TestUnknownModelError(t *testing.T) {
	err := &gemini.UnknownModelError{Model: "nope"}
	assert.Contains(t, err.Error(), `"nope"`)
}
