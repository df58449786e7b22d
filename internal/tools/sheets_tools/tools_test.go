package sheets_tools

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
		"sheets_create",
		"sheets_read",
		"sheets_update",
		"sheets_batch_update",
		"sheets_delete",
	}
	require.Len(t, tools, len(expected))
	for _, name := range expected {
		reg, ok := tools[name]
		require.True(t, ok, "missing tool %s", name)
		assert.Equal(t, "sheets", reg.Service)
		assert.NotNil(t, reg.Schema)
		assert.NotNil(t, reg.Handler)
	}

	assert.True(t, tools["sheets_read"].Annotations.ReadOnly)
	assert.True(t, tools["sheets_read"].Annotations.Idempotent)
	assert.False(t, tools["sheets_batch_update"].Annotations.ReadOnly)
	assert.True(t, tools["sheets_delete"].Annotations.Destructive)
}

func TestUpdateSchemaAcceptsRows(t *testing.T) {
	tools := testTools(t)

	vals, err := tools["sheets_update"].Schema.Validate(map[string]any{
		"spreadsheet_id": "sheet123",
		"range":          "Sheet1!A1:B2",
		"values": []any{
			[]any{"a", "b"},
			[]any{float64(1), float64(2)},
		},
	})
	require.NoError(t, err)
	rows := vals.RowList("values")
	require.Len(t, rows, 2)
	assert.Equal(t, []any{"a", "b"}, rows[0])

	_, err = tools["sheets_update"].Schema.Validate(map[string]any{
		"spreadsheet_id": "sheet123",
		"range":          "Sheet1!A1",
		"values":         []any{"not-a-row"},
	})
	assert.Error(t, err)
}

func TestBatchUpdateSchemaRequiresObjects(t *testing.T) {
	tools := testTools(t)

	vals, err := tools["sheets_batch_update"].Schema.Validate(map[string]any{
		"spreadsheet_id": "sheet123",
		"requests": []any{
			map[string]any{"addSheet": map[string]any{}},
		},
	})
	require.NoError(t, err)
	assert.Len(t, vals.ObjectList("requests"), 1)

	_, err = tools["sheets_batch_update"].Schema.Validate(map[string]any{
		"spreadsheet_id": "sheet123",
		"requests":       []any{"addSheet"},
	})
	assert.Error(t, err)
}
