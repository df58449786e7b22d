// Package format renders tool results for the model-facing transport.
// It owns pagination math, character-limit truncation and the shared
// response envelope used by every tool.
package format

import (
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"
)

// DefaultCharacterLimit caps a single tool response. Larger payloads are
// truncated with a notice steering the caller toward pagination.
const DefaultCharacterLimit = 25000

// Page describes the slice of a result set returned by a list-style tool.
type Page struct {
	Total  int
	Count  int
	Offset int
}

// HasMore reports whether entries remain beyond this page.
func (p Page) HasMore() bool {
	return p.Offset+p.Count < p.Total
}

// NextOffset returns the offset of the following page, or -1 when the
// result set is exhausted.
func (p Page) NextOffset() int {
	if !p.HasMore() {
		return -1
	}
	return p.Offset + p.Count
}

// Meta renders the pagination block embedded in list responses.
func (p Page) Meta() map[string]any {
	m := map[string]any{
		"total":    p.Total,
		"count":    p.Count,
		"offset":   p.Offset,
		"has_more": p.HasMore(),
	}
	if p.HasMore() {
		m["next_offset"] = p.NextOffset()
	}
	return m
}

// Truncate enforces the character limit on a rendered response. The
// limit counts characters, not bytes, and the cut always lands on a
// rune boundary so the result stays valid UTF-8. The returned string is
// at most limit characters including the appended notice, and the
// second result reports whether truncation occurred.
func Truncate(s string, limit int) (string, bool) {
	if limit <= 0 {
		limit = DefaultCharacterLimit
	}
	// A string of limit bytes or fewer cannot exceed limit characters.
	if len(s) <= limit || utf8.RuneCountInString(s) <= limit {
		return s, false
	}
	notice := "\n\n[Response truncated. Narrow the request with limit/offset or more specific filters to see the rest.]"
	keep := limit - len(notice)
	if keep < 0 {
		keep = 0
	}
	cut := len(s)
	runes := 0
	for i := range s {
		if runes == keep {
			cut = i
			break
		}
		runes++
	}
	return s[:cut] + notice, true
}

// Timestamp renders an RFC 3339 time for inclusion in markdown output,
// or a dash when the value is unset.
func Timestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

// JSON marshals v with indentation for json-format responses.
func JSON(v any) (string, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding response: %w", err)
	}
	return string(raw), nil
}
