package slides_tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veranek/workspace-mcp/internal/dispatch"
	"github.com/veranek/workspace-mcp/internal/server"
)

func testTools(t *testing.T) map[string]dispatch.Registration {
	t.Helper()
	sc := server.NewContext(context.Background(), nil)
	t.Cleanup(sc.Shutdown)

	byName := make(map[string]dispatch.Registration)
	for _, reg := range Tools(sc) {
		byName[reg.Name] = reg
	}
	return byName
}

func TestToolInventory(t *testing.T) {
	tools := testTools(t)

	expected := []string{
		"slides_create",
		"slides_read",
		"slides_add_slide",
		"slides_update",
		"slides_delete",
	}
	require.Len(t, tools, len(expected))
	for _, name := range expected {
		reg, ok := tools[name]
		require.True(t, ok, "missing tool %s", name)
		assert.Equal(t, "slides", reg.Service)
		assert.NotNil(t, reg.Schema)
		assert.NotNil(t, reg.Handler)
	}

	assert.True(t, tools["slides_read"].Annotations.ReadOnly)
	assert.False(t, tools["slides_add_slide"].Annotations.ReadOnly)
	assert.True(t, tools["slides_delete"].Annotations.Destructive)
}

func TestAddSlideSchemaIndex(t *testing.T) {
	tools := testTools(t)
	sch := tools["slides_add_slide"].Schema

	vals, err := sch.Validate(map[string]any{"presentation_id": "pres123"})
	require.NoError(t, err)
	assert.False(t, vals.Has("insertion_index"))

	vals, err = sch.Validate(map[string]any{
		"presentation_id": "pres123",
		"insertion_index": float64(2),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, vals.Int("insertion_index"))

	_, err = sch.Validate(map[string]any{
		"presentation_id": "pres123",
		"insertion_index": float64(-1),
	})
	assert.Error(t, err)
}
