package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veranek/workspace-mcp/internal/apierr"
	"github.com/veranek/workspace-mcp/internal/schema"
	"github.com/veranek/workspace-mcp/internal/tools/respond"
)

// Exercises the full pipeline for a listing tool over a fixed result set:
// 12 matching files, limit 5, offset 0.
func TestSearchPaginationScenario(t *testing.T) {
	fixture := make([]string, 12)
	for i := range fixture {
		fixture[i] = fmt.Sprintf("report-%d.pdf", i)
	}

	fields := []schema.Field{{
		Name:     "query",
		Type:     schema.TypeString,
		Required: true,
		MinLen:   1,
	}}
	fields = append(fields, schema.ListFields()...)

	reg := registryWith(t, Registration{
		Name:    "drive_search_files",
		Service: "drive",
		Annotations: Annotations{
			ReadOnly:   true,
			Idempotent: true,
		},
		Schema: schema.New(fields...),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			page, meta := respond.PageSlice(fixture, args.Int("limit"), args.Int("offset"))
			return respond.RenderList(args.String("response_format"),
				fmt.Sprintf("Found %d files", meta.Total),
				map[string]any{"files": page}, meta)
		},
	})
	d := New(reg, Options{})

	res := d.Dispatch(context.Background(), "drive_search_files", map[string]any{
		"query":           "*.pdf",
		"limit":           float64(5),
		"response_format": "json",
	})
	require.False(t, res.IsError, res.Text)

	var payload struct {
		Files      []string `json:"files"`
		Pagination struct {
			Total      int  `json:"total"`
			Count      int  `json:"count"`
			Offset     int  `json:"offset"`
			HasMore    bool `json:"has_more"`
			NextOffset int  `json:"next_offset"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Text), &payload))

	assert.Len(t, payload.Files, 5)
	assert.Equal(t, 12, payload.Pagination.Total)
	assert.Equal(t, 5, payload.Pagination.Count)
	assert.Equal(t, 0, payload.Pagination.Offset)
	assert.True(t, payload.Pagination.HasMore)
	assert.Equal(t, 5, payload.Pagination.NextOffset)
}

// Exercises the full pipeline for a delete against a missing document: the
// backend's 404 surfaces as a not_found tool error with a remediation hint,
// without retries.
func TestDeleteMissingDocumentScenario(t *testing.T) {
	calls := 0
	reg := registryWith(t, Registration{
		Name:    "docs_delete_document",
		Service: "docs",
		Annotations: Annotations{
			Destructive: true,
			Idempotent:  true,
		},
		Schema: schema.New(
			schema.ResourceID("document_id", "Google Docs document ID"),
		),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			calls++
			return "", apierr.New(apierr.KindNotFound, "drive.files.delete",
				fmt.Sprintf("document %s does not exist", args.String("document_id")))
		},
	})
	d := New(reg, Options{RetryAttempts: 3})

	res := d.Dispatch(context.Background(), "docs_delete_document", map[string]any{
		"document_id": "missing-doc",
	})
	require.True(t, res.IsError)
	assert.Equal(t, apierr.KindNotFound, res.Kind)
	assert.Contains(t, res.Text, "missing-doc")
	assert.Contains(t, res.Text, "Verify the resource ID")
	assert.Equal(t, 1, calls, "a not_found delete must not be retried")
}
