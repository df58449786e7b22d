package gmail_tools

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
		"gmail_search_messages",
		"gmail_read_message",
		"gmail_send_message",
		"gmail_reply_message",
		"gmail_delete_message",
		"gmail_list_labels",
		"gmail_modify_labels",
	}
	require.Len(t, tools, len(expected))
	for _, name := range expected {
		reg, ok := tools[name]
		require.True(t, ok, "missing tool %s", name)
		assert.Equal(t, "gmail", reg.Service)
		assert.NotNil(t, reg.Schema)
		assert.NotNil(t, reg.Handler)
	}

	assert.True(t, tools["gmail_search_messages"].Annotations.ReadOnly)
	assert.True(t, tools["gmail_read_message"].Annotations.ReadOnly)
	assert.True(t, tools["gmail_list_labels"].Annotations.ReadOnly)
	assert.False(t, tools["gmail_send_message"].Annotations.ReadOnly)
	assert.False(t, tools["gmail_send_message"].Annotations.Idempotent)
	assert.True(t, tools["gmail_delete_message"].Annotations.Destructive)
	assert.True(t, tools["gmail_modify_labels"].Annotations.Idempotent)
}

func TestSendSchemaValidation(t *testing.T) {
	tools := testTools(t)
	sch := tools["gmail_send_message"].Schema

	_, err := sch.Validate(map[string]any{
		"to":      "not-an-address",
		"subject": "hi",
		"body":    "hello",
	})
	assert.Error(t, err)

	vals, err := sch.Validate(map[string]any{
		"to":      "alice@example.com",
		"subject": "hi",
		"body":    "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", vals.String("to"))
	assert.Equal(t, "default", vals.String("account"))
}

func TestHeaderLookup(t *testing.T) {
	headers := map[string]string{"From": "alice@example.com", "subject": "hi"}

	assert.Equal(t, "alice@example.com", header(headers, "From"))
	assert.Equal(t, "hi", header(headers, "Subject"))
	assert.Equal(t, "", header(headers, "Date"))
}

func TestModifyLabelsSchemaLists(t *testing.T) {
	tools := testTools(t)

	vals, err := tools["gmail_modify_labels"].Schema.Validate(map[string]any{
		"message_id": "msg123",
		"add_labels": []any{"STARRED", "IMPORTANT"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"STARRED", "IMPORTANT"}, vals.StringList("add_labels"))
	assert.Nil(t, vals.StringList("remove_labels"))
}
