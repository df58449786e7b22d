package drive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	drive "google.golang.org/api/drive/v3"
)

func TestConvertToFileInfo(t *testing.T) {
	f := &drive.File{
		Id:           "file-1",
		Name:         "report.pdf",
		MimeType:     "application/pdf",
		Size:         2048,
		ModifiedTime: "2024-03-15T10:30:00Z",
		WebViewLink:  "https://drive.google.com/file/d/file-1/view",
		Parents:      []string{"folder-1"},
	}

	info := convertToFileInfo(f)
	require.NotNil(t, info)
	assert.Equal(t, "file-1", info.ID)
	assert.Equal(t, "report.pdf", info.Name)
	assert.Equal(t, "application/pdf", info.MimeType)
	assert.Equal(t, int64(2048), info.Size)
	assert.Equal(t, time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), info.ModifiedTime)
	assert.Equal(t, []string{"folder-1"}, info.Parents)
}

func TestConvertToFileInfoHandlesMissingFields(t *testing.T) {
	info := convertToFileInfo(&drive.File{Id: "file-2", Name: "notes"})
	require.NotNil(t, info)
	assert.True(t, info.ModifiedTime.IsZero())
	assert.Empty(t, info.Parents)

	assert.Nil(t, convertToFileInfo(nil))
}

func TestBuildSearchQuery(t *testing.T) {
	assert.Equal(t, "trashed = false", buildSearchQuery(SearchOptions{}))

	q := buildSearchQuery(SearchOptions{
		Query:    "report",
		FolderID: "folder-1",
		FileType: "application/pdf",
	})
	assert.Equal(t, "trashed = false and name contains 'report' and "+
		"'folder-1' in parents and mimeType='application/pdf'", q)

	// Trashed files stay excluded regardless of the filters in play.
	assert.Contains(t, buildSearchQuery(SearchOptions{Query: "x"}), "trashed = false")
}

func TestEscapeQuery(t *testing.T) {
	assert.Equal(t, `plain`, escapeQuery(`plain`))
	assert.Equal(t, `it\'s`, escapeQuery(`it's`))
	assert.Equal(t, `a\\b`, escapeQuery(`a\b`))
}
