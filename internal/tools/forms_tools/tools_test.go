package forms_tools

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
		"forms_create",
		"forms_read",
		"forms_update",
		"forms_delete",
		"forms_get_responses",
	}
	require.Len(t, tools, len(expected))
	for _, name := range expected {
		reg, ok := tools[name]
		require.True(t, ok, "missing tool %s", name)
		assert.Equal(t, "forms", reg.Service)
		assert.NotNil(t, reg.Schema)
		assert.NotNil(t, reg.Handler)
	}

	assert.True(t, tools["forms_read"].Annotations.ReadOnly)
	assert.True(t, tools["forms_get_responses"].Annotations.ReadOnly)
	assert.True(t, tools["forms_delete"].Annotations.Destructive)
	assert.False(t, tools["forms_update"].Annotations.ReadOnly)
}

func TestGetResponsesSchemaPagination(t *testing.T) {
	tools := testTools(t)

	vals, err := tools["forms_get_responses"].Schema.Validate(map[string]any{
		"form_id": "form123",
	})
	require.NoError(t, err)
	assert.Equal(t, 20, vals.Int("limit"))
	assert.Equal(t, 0, vals.Int("offset"))

	_, err = tools["forms_get_responses"].Schema.Validate(map[string]any{
		"form_id": "form123",
		"limit":   float64(0),
	})
	assert.Error(t, err)
}
