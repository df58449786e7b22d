package drive

import (
	"time"

	drive "google.golang.org/api/drive/v3"
)

// FileInfo represents metadata about a file or folder in Google Drive
type FileInfo struct {
	// ID is the unique identifier for the file
	ID string `json:"id"`

	// Name is the name of the file
	Name string `json:"name"`

	// MimeType is the MIME type of the file
	MimeType string `json:"mime_type"`

	// Size is the size of the file in bytes (not populated for folders)
	Size int64 `json:"size,omitempty"`

	// ModifiedTime is when the file was last modified
	ModifiedTime time.Time `json:"modified_time"`

	// WebViewLink is a link for opening the file in a Google editor or viewer
	WebViewLink string `json:"web_view_link,omitempty"`

	// Parents are the IDs of the parent folders
	Parents []string `json:"parents,omitempty"`
}

// FileContent combines file metadata with its textual content.
type FileContent struct {
	FileInfo
	Content string `json:"content"`
}

// DownloadInfo describes a completed download to the local filesystem.
type DownloadInfo struct {
	FileID    string `json:"file_id"`
	Name      string `json:"name"`
	LocalPath string `json:"local_path"`
	Size      int    `json:"size"`
}

// SharedDrive represents a shared drive.
type SharedDrive struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SearchOptions control a file search.
type SearchOptions struct {
	// Query matches against file names
	Query string

	// FolderID limits the search to children of the folder
	FolderID string

	// FileType filters by exact MIME type
	FileType string

	// MaxResults caps the result set (max: 1000)
	MaxResults int
}

func convertToFileInfo(f *drive.File) *FileInfo {
	if f == nil {
		return nil
	}
	info := &FileInfo{
		ID:          f.Id,
		Name:        f.Name,
		MimeType:    f.MimeType,
		Size:        f.Size,
		WebViewLink: f.WebViewLink,
		Parents:     f.Parents,
	}
	if f.ModifiedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
			info.ModifiedTime = t
		}
	}
	return info
}
