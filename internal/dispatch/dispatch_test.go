package dispatch

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veranek/workspace-mcp/internal/apierr"
	"github.com/veranek/workspace-mcp/internal/cache"
	"github.com/veranek/workspace-mcp/internal/logging"
	"github.com/veranek/workspace-mcp/internal/ratelimit"
	"github.com/veranek/workspace-mcp/internal/schema"
)

func echoSchema(t *testing.T) *schema.Schema {
	t.Helper()
	return schema.New(schema.Field{
		Name:        "query",
		Description: "Search query",
		Type:        schema.TypeString,
		Required:    true,
		MinLen:      1,
		MaxLen:      100,
	})
}

func registryWith(t *testing.T, regs ...Registration) *Registry {
	t.Helper()
	r, err := NewRegistry(regs...)
	require.NoError(t, err)
	return r
}

func TestDispatchUnknownTool(t *testing.T) {
	reg := registryWith(t, Registration{
		Name:    "drive_search_files",
		Service: "drive",
		Schema:  echoSchema(t),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			return "ok", nil
		},
	})
	d := New(reg, Options{})

	res := d.Dispatch(context.Background(), "nonexistent_tool", nil)
	assert.True(t, res.IsError)
	assert.Equal(t, apierr.KindUnknownTool, res.Kind)
	assert.Contains(t, res.Text, "nonexistent_tool")
	assert.Contains(t, res.Text, "drive_search_files", "error should list available tools")
}

func TestDispatchValidationShortCircuits(t *testing.T) {
	called := false
	reg := registryWith(t, Registration{
		Name:    "drive_search_files",
		Service: "drive",
		Schema:  echoSchema(t),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			called = true
			return "ok", nil
		},
	})
	d := New(reg, Options{})

	res := d.Dispatch(context.Background(), "drive_search_files", map[string]any{})
	assert.True(t, res.IsError)
	assert.Equal(t, apierr.KindValidation, res.Kind)
	assert.Contains(t, res.Text, "query")
	assert.False(t, called, "handler must not run on invalid arguments")
}

func TestDispatchReadOnlyGatesWriteTools(t *testing.T) {
	reg := registryWith(t,
		Registration{
			Name:        "drive_delete_file",
			Service:     "drive",
			Annotations: Annotations{Destructive: true, Idempotent: true},
			Schema:      echoSchema(t),
			Handler: func(ctx context.Context, args schema.Values) (string, error) {
				return "deleted", nil
			},
		},
		Registration{
			Name:        "drive_search_files",
			Service:     "drive",
			Annotations: Annotations{ReadOnly: true, Idempotent: true},
			Schema:      echoSchema(t),
			Handler: func(ctx context.Context, args schema.Values) (string, error) {
				return "results", nil
			},
		},
	)
	d := New(reg, Options{ReadOnly: true})

	res := d.Dispatch(context.Background(), "drive_delete_file", map[string]any{"query": "x"})
	assert.True(t, res.IsError)
	assert.Equal(t, apierr.KindPermissionDenied, res.Kind)

	res = d.Dispatch(context.Background(), "drive_search_files", map[string]any{"query": "x"})
	assert.False(t, res.IsError)
	assert.Equal(t, "results", res.Text)
}

func TestDispatchCachesReadOnlyIdempotent(t *testing.T) {
	calls := 0
	reg := registryWith(t, Registration{
		Name:        "drive_search_files",
		Service:     "drive",
		Annotations: Annotations{ReadOnly: true, Idempotent: true},
		Schema:      echoSchema(t),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			calls++
			return "results", nil
		},
	})
	d := New(reg, Options{Cache: cache.New(time.Minute, 10)})

	args := map[string]any{"query": "report"}
	res := d.Dispatch(context.Background(), "drive_search_files", args)
	require.False(t, res.IsError)
	res = d.Dispatch(context.Background(), "drive_search_files", args)
	require.False(t, res.IsError)
	assert.Equal(t, 1, calls, "second identical call should be served from cache")

	// Different arguments miss the cache.
	d.Dispatch(context.Background(), "drive_search_files", map[string]any{"query": "other"})
	assert.Equal(t, 2, calls)
}

func TestDispatchNeverCachesWrites(t *testing.T) {
	calls := 0
	reg := registryWith(t, Registration{
		Name:        "docs_update_document",
		Service:     "docs",
		Annotations: Annotations{Idempotent: false},
		Schema:      echoSchema(t),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			calls++
			return "updated", nil
		},
	})
	d := New(reg, Options{Cache: cache.New(time.Minute, 10)})

	args := map[string]any{"query": "content"}
	d.Dispatch(context.Background(), "docs_update_document", args)
	d.Dispatch(context.Background(), "docs_update_document", args)
	assert.Equal(t, 2, calls)
}

func TestDispatchRetriesTransientOnly(t *testing.T) {
	calls := 0
	reg := registryWith(t, Registration{
		Name:    "drive_read_file",
		Service: "drive",
		Schema:  echoSchema(t),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			calls++
			if calls == 1 {
				return "", apierr.New(apierr.KindTransient, "drive.read", "backend unavailable")
			}
			return "contents", nil
		},
	})
	d := New(reg, Options{RetryAttempts: 3})

	res := d.Dispatch(context.Background(), "drive_read_file", map[string]any{"query": "id"})
	assert.False(t, res.IsError)
	assert.Equal(t, "contents", res.Text)
	assert.Equal(t, 2, calls)
}

func TestDispatchDoesNotRetryPermanentErrors(t *testing.T) {
	calls := 0
	reg := registryWith(t, Registration{
		Name:    "docs_read_document",
		Service: "docs",
		Schema:  echoSchema(t),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			calls++
			return "", apierr.New(apierr.KindNotFound, "docs.read", "document not found")
		},
	})
	d := New(reg, Options{RetryAttempts: 3})

	res := d.Dispatch(context.Background(), "docs_read_document", map[string]any{"query": "id"})
	assert.True(t, res.IsError)
	assert.Equal(t, apierr.KindNotFound, res.Kind)
	assert.Equal(t, 1, calls, "non-transient errors must not be retried")
}

func TestDispatchRateLimited(t *testing.T) {
	reg := registryWith(t, Registration{
		Name:        "gmail_search_messages",
		Service:     "gmail",
		Annotations: Annotations{ReadOnly: true, Idempotent: true},
		Schema:      echoSchema(t),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			return "messages", nil
		},
	})
	gate := ratelimit.New(1, time.Hour, 1, 20*time.Millisecond)
	d := New(reg, Options{Gate: gate})

	res := d.Dispatch(context.Background(), "gmail_search_messages", map[string]any{"query": "a"})
	require.False(t, res.IsError)

	res = d.Dispatch(context.Background(), "gmail_search_messages", map[string]any{"query": "b"})
	assert.True(t, res.IsError)
	assert.Equal(t, apierr.KindRateLimited, res.Kind)
}

func TestDispatchTruncatesLongResponses(t *testing.T) {
	reg := registryWith(t, Registration{
		Name:    "docs_read_document",
		Service: "docs",
		Schema:  echoSchema(t),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			return strings.Repeat("x", 5000), nil
		},
	})
	d := New(reg, Options{CharacterLimit: 1000})

	res := d.Dispatch(context.Background(), "docs_read_document", map[string]any{"query": "id"})
	assert.False(t, res.IsError)
	assert.LessOrEqual(t, len(res.Text), 1000)
	assert.Contains(t, res.Text, "Response truncated")
}

func TestDispatchTruncatesErrorResponses(t *testing.T) {
	reg := registryWith(t, Registration{
		Name:    "docs_read_document",
		Service: "docs",
		Schema:  echoSchema(t),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			return "", apierr.New(apierr.KindInvalidArgument, "docs.read", strings.Repeat("x", 5000))
		},
	})
	d := New(reg, Options{CharacterLimit: 1000})

	res := d.Dispatch(context.Background(), "docs_read_document", map[string]any{"query": "id"})
	assert.True(t, res.IsError)
	assert.Equal(t, apierr.KindInvalidArgument, res.Kind)
	assert.LessOrEqual(t, len(res.Text), 1000, "error text honors the character budget")
	assert.Contains(t, res.Text, "Response truncated")
}

func TestDispatchLogsHashedAccount(t *testing.T) {
	fields := append([]schema.Field{{
		Name:     "query",
		Type:     schema.TypeString,
		Required: true,
		MinLen:   1,
	}}, schema.Account())

	reg := registryWith(t, Registration{
		Name:    "gmail_search_messages",
		Service: "gmail",
		Schema:  schema.New(fields...),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			return "messages", nil
		},
	})
	var buf bytes.Buffer
	d := New(reg, Options{Logger: logging.New(&buf, true)})

	res := d.Dispatch(context.Background(), "gmail_search_messages", map[string]any{
		"query":   "is:unread",
		"account": "alice@example.com",
	})
	require.False(t, res.IsError)

	out := buf.String()
	assert.Contains(t, out, "user_hash=user:", "account appears only as a hash")
	assert.NotContains(t, out, "alice@example.com", "raw address must not be logged")
}

func TestDispatchRecoversPanics(t *testing.T) {
	reg := registryWith(t, Registration{
		Name:    "sheets_read_range",
		Service: "sheets",
		Schema:  echoSchema(t),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			panic("boom")
		},
	})
	d := New(reg, Options{})

	res := d.Dispatch(context.Background(), "sheets_read_range", map[string]any{"query": "A1:B2"})
	assert.True(t, res.IsError)
	assert.Equal(t, apierr.KindUnknown, res.Kind)
	assert.Contains(t, res.Text, "internal error")
}

type recordedCall struct {
	tool     string
	service  string
	status   string
	duration time.Duration
}

type fakeRecorder struct {
	toolCalls []recordedCall
	apiOps    []recordedCall
}

func (r *fakeRecorder) RecordToolCall(ctx context.Context, tool, service, status string, duration time.Duration) {
	r.toolCalls = append(r.toolCalls, recordedCall{tool: tool, service: service, status: status, duration: duration})
}

func (r *fakeRecorder) RecordGoogleAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	r.apiOps = append(r.apiOps, recordedCall{tool: operation, service: service, status: status, duration: duration})
}

func TestDispatchRecordsMetrics(t *testing.T) {
	reg := registryWith(t, Registration{
		Name:    "drive_search_files",
		Service: "drive",
		Schema:  echoSchema(t),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			return "results", nil
		},
	})
	rec := &fakeRecorder{}
	d := New(reg, Options{Recorder: rec})

	res := d.Dispatch(context.Background(), "drive_search_files", map[string]any{"query": "x"})
	require.False(t, res.IsError)

	require.Len(t, rec.toolCalls, 1)
	assert.Equal(t, "drive_search_files", rec.toolCalls[0].tool)
	assert.Equal(t, "drive", rec.toolCalls[0].service)
	assert.Equal(t, logging.StatusSuccess, rec.toolCalls[0].status)

	require.Len(t, rec.apiOps, 1)
	assert.Equal(t, "drive_search_files", rec.apiOps[0].tool)
	assert.Equal(t, "drive", rec.apiOps[0].service)
	assert.Equal(t, logging.StatusSuccess, rec.apiOps[0].status)
}

func TestDispatchRecordsEveryAttempt(t *testing.T) {
	calls := 0
	reg := registryWith(t, Registration{
		Name:    "gmail_read_message",
		Service: "gmail",
		Schema:  echoSchema(t),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			calls++
			if calls == 1 {
				return "", apierr.New(apierr.KindTransient, "gmail.read", "backend unavailable")
			}
			return "message", nil
		},
	})
	rec := &fakeRecorder{}
	d := New(reg, Options{Recorder: rec, RetryAttempts: 3})

	res := d.Dispatch(context.Background(), "gmail_read_message", map[string]any{"query": "id"})
	require.False(t, res.IsError)

	// One tool call, one operation record per attempt.
	require.Len(t, rec.toolCalls, 1)
	require.Len(t, rec.apiOps, 2)
	assert.Equal(t, logging.StatusError, rec.apiOps[0].status)
	assert.Equal(t, logging.StatusSuccess, rec.apiOps[1].status)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	reg := Registration{
		Name:    "drive_search_files",
		Service: "drive",
		Schema:  echoSchema(t),
		Handler: func(ctx context.Context, args schema.Values) (string, error) { return "", nil },
	}
	_, err := NewRegistry(reg, reg)
	assert.Error(t, err)
}
