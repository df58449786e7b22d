package drive_tools

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
		"drive_search_files",
		"drive_read_file",
		"drive_create_file",
		"drive_update_file",
		"drive_delete_file",
		"drive_upload_file",
		"drive_download_file",
		"drive_list_shared_drives",
	}
	require.Len(t, tools, len(expected))
	for _, name := range expected {
		reg, ok := tools[name]
		require.True(t, ok, "missing tool %s", name)
		assert.Equal(t, "drive", reg.Service)
		assert.NotEmpty(t, reg.Description)
		assert.NotNil(t, reg.Schema)
		assert.NotNil(t, reg.Handler)
	}
}

func TestAnnotations(t *testing.T) {
	tools := testTools(t)

	assert.True(t, tools["drive_search_files"].Annotations.ReadOnly)
	assert.True(t, tools["drive_search_files"].Annotations.Idempotent)
	assert.True(t, tools["drive_read_file"].Annotations.ReadOnly)
	assert.True(t, tools["drive_list_shared_drives"].Annotations.ReadOnly)

	assert.False(t, tools["drive_create_file"].Annotations.ReadOnly)
	assert.False(t, tools["drive_update_file"].Annotations.ReadOnly)
	assert.True(t, tools["drive_delete_file"].Annotations.Destructive)
	assert.True(t, tools["drive_delete_file"].Annotations.Idempotent)

	// Download writes to the local filesystem but never mutates Drive state.
	assert.True(t, tools["drive_download_file"].Annotations.ReadOnly)
	assert.False(t, tools["drive_download_file"].Annotations.Idempotent)
}

func TestSearchSchemaValidation(t *testing.T) {
	tools := testTools(t)
	sch := tools["drive_search_files"].Schema

	vals, err := sch.Validate(map[string]any{"query": "report"})
	require.NoError(t, err)
	assert.Equal(t, "report", vals.String("query"))
	assert.Equal(t, 20, vals.Int("limit"))
	assert.Equal(t, 0, vals.Int("offset"))
	assert.Equal(t, "default", vals.String("account"))

	_, err = sch.Validate(map[string]any{"folder_id": "has spaces!"})
	assert.Error(t, err)
}

func TestReadSchemaRequiresFileID(t *testing.T) {
	tools := testTools(t)

	_, err := tools["drive_read_file"].Schema.Validate(map[string]any{})
	assert.Error(t, err)

	vals, err := tools["drive_read_file"].Schema.Validate(map[string]any{"file_id": "abc123"})
	require.NoError(t, err)
	assert.Equal(t, "abc123", vals.String("file_id"))
	assert.Equal(t, "markdown", vals.String("response_format"))
}
