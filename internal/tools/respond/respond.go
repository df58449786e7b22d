// Package respond renders tool results in the caller's requested output
// format and applies pagination to list results.
package respond

import (
	"fmt"
	"strings"

	"github.com/veranek/workspace-mcp/internal/format"
	"github.com/veranek/workspace-mcp/internal/schema"
)

// Render returns the markdown text or the JSON encoding of payload,
// depending on the requested format.
func Render(responseFormat, markdown string, payload any) (string, error) {
	if responseFormat == schema.FormatJSON {
		return format.JSON(payload)
	}
	return markdown, nil
}

// RenderList renders a paginated listing. The payload map gets a
// "pagination" entry; the markdown text gets a pagination footer.
func RenderList(responseFormat, markdown string, payload map[string]any, page format.Page) (string, error) {
	if responseFormat == schema.FormatJSON {
		payload["pagination"] = page.Meta()
		return format.JSON(payload)
	}
	return markdown + "\n" + PaginationFooter(page), nil
}

// PaginationFooter renders the pagination block for markdown output.
func PaginationFooter(page format.Page) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\nShowing %d of %d results (offset %d).", page.Count, page.Total, page.Offset)
	if page.HasMore() {
		fmt.Fprintf(&b, " More available: use offset=%d for the next page.", page.NextOffset())
	}
	return b.String()
}

// PageSlice selects the [offset, offset+limit) window of items and
// reports the pagination state of that window.
func PageSlice[T any](items []T, limit, offset int) ([]T, format.Page) {
	total := len(items)
	if limit <= 0 {
		limit = schema.DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}

	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return items[start:end], format.Page{
		Total:  total,
		Count:  end - start,
		Offset: offset,
	}
}
