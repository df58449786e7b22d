package drive

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/veranek/workspace-mcp/internal/apierr"
	"github.com/veranek/workspace-mcp/internal/google"
)

const (
	// FolderMimeType is the MIME type for Google Drive folders
	FolderMimeType = "application/vnd.google-apps.folder"

	// googleAppsPrefix marks native Workspace files that must be exported
	// rather than downloaded
	googleAppsPrefix = "application/vnd.google-apps"

	searchFields = "files(id, name, mimeType, size, modifiedTime, webViewLink, parents)"
	fileFields   = "id, name, mimeType, size, modifiedTime, webViewLink, parents"
)

// Client wraps the Google Drive API service
type Client struct {
	service *drive.Service
	account string
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// NewClientForAccount creates a new Google Drive client with OAuth2
// authentication for a specific account.
// Returns an error if no valid token exists.
func NewClientForAccount(ctx context.Context, account string, provider google.TokenProvider) (*Client, error) {
	httpClient, err := google.HTTPClientForAccount(ctx, account, provider)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	service, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{service: service, account: account}, nil
}

// NewClientWithService wraps an existing Drive service. Used by tests and
// by the other Workspace clients that funnel file management through Drive.
func NewClientWithService(service *drive.Service, account string) *Client {
	return &Client{service: service, account: account}
}

// buildSearchQuery renders SearchOptions as a Drive query string. Trashed
// files are always excluded; the query matches file name substrings, folder
// and MIME type filters are ANDed in.
func buildSearchQuery(opts SearchOptions) string {
	parts := []string{"trashed = false"}
	if opts.Query != "" {
		parts = append(parts, fmt.Sprintf("name contains '%s'", escapeQuery(opts.Query)))
	}
	if opts.FolderID != "" {
		parts = append(parts, fmt.Sprintf("'%s' in parents", escapeQuery(opts.FolderID)))
	}
	if opts.FileType != "" {
		parts = append(parts, fmt.Sprintf("mimeType='%s'", escapeQuery(opts.FileType)))
	}
	return strings.Join(parts, " and ")
}

// SearchFiles searches for files matching the given options.
func (c *Client) SearchFiles(ctx context.Context, opts SearchOptions) ([]*FileInfo, error) {
	pageSize := opts.MaxResults
	if pageSize <= 0 || pageSize > 1000 {
		pageSize = 1000
	}

	call := c.service.Files.List().
		Context(ctx).
		PageSize(int64(pageSize)).
		Fields(searchFields).
		Q(buildSearchQuery(opts))

	fileList, err := call.Do()
	if err != nil {
		return nil, apierr.FromGoogle("drive.files.list", err)
	}

	files := make([]*FileInfo, len(fileList.Files))
	for i, f := range fileList.Files {
		files[i] = convertToFileInfo(f)
	}
	return files, nil
}

// ReadFile returns the metadata and textual content of a file. Native
// Workspace files are exported, to text/plain unless exportMimeType says
// otherwise; binary files are downloaded as-is.
func (c *Client) ReadFile(ctx context.Context, fileID, exportMimeType string) (*FileContent, error) {
	meta, err := c.service.Files.Get(fileID).
		Context(ctx).
		Fields(fileFields).
		Do()
	if err != nil {
		return nil, apierr.FromGoogle("drive.files.get", err)
	}

	var content []byte
	if exportMimeType != "" || strings.HasPrefix(meta.MimeType, googleAppsPrefix) {
		exportMime := exportMimeType
		if exportMime == "" {
			exportMime = "text/plain"
		}
		resp, err := c.service.Files.Export(fileID, exportMime).Context(ctx).Download()
		if err != nil {
			return nil, apierr.FromGoogle("drive.files.export", err)
		}
		defer resp.Body.Close()
		content, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, apierr.FromGoogle("drive.files.export", err)
		}
	} else {
		resp, err := c.service.Files.Get(fileID).Context(ctx).Download()
		if err != nil {
			return nil, apierr.FromGoogle("drive.files.get", err)
		}
		defer resp.Body.Close()
		content, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, apierr.FromGoogle("drive.files.get", err)
		}
	}

	return &FileContent{
		FileInfo: *convertToFileInfo(meta),
		Content:  string(content),
	}, nil
}

// CreateFile creates a new file with inline content.
func (c *Client) CreateFile(ctx context.Context, name, content, mimeType, folderID string) (*FileInfo, error) {
	if mimeType == "" {
		mimeType = "text/plain"
	}

	file := &drive.File{Name: name}
	if folderID != "" {
		file.Parents = []string{folderID}
	}

	created, err := c.service.Files.Create(file).
		Context(ctx).
		Media(strings.NewReader(content), googleapi.ContentType(mimeType)).
		Fields(fileFields).
		Do()
	if err != nil {
		return nil, apierr.FromGoogle("drive.files.create", err)
	}
	return convertToFileInfo(created), nil
}

// UpdateFile replaces the content and/or name of an existing file. Empty
// arguments leave the corresponding attribute unchanged.
func (c *Client) UpdateFile(ctx context.Context, fileID, content, name string) (*FileInfo, error) {
	update := &drive.File{}
	if name != "" {
		update.Name = name
	}

	call := c.service.Files.Update(fileID, update).
		Context(ctx).
		Fields(fileFields)
	if content != "" {
		call = call.Media(strings.NewReader(content))
	}

	updated, err := call.Do()
	if err != nil {
		return nil, apierr.FromGoogle("drive.files.update", err)
	}
	return convertToFileInfo(updated), nil
}

// DeleteFile permanently deletes a file.
func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	if err := c.service.Files.Delete(fileID).Context(ctx).Do(); err != nil {
		return apierr.FromGoogle("drive.files.delete", err)
	}
	return nil
}

// UploadFile uploads a local file to Drive. The name defaults to the base
// name of the local path, the MIME type to the extension's registered type.
func (c *Client) UploadFile(ctx context.Context, localPath, name, folderID string) (*FileInfo, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local file: %w", err)
	}
	defer f.Close()

	if name == "" {
		name = filepath.Base(localPath)
	}
	mimeType := mime.TypeByExtension(filepath.Ext(localPath))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	file := &drive.File{Name: name}
	if folderID != "" {
		file.Parents = []string{folderID}
	}

	uploaded, err := c.service.Files.Create(file).
		Context(ctx).
		Media(f, googleapi.ContentType(mimeType)).
		Fields(fileFields).
		Do()
	if err != nil {
		return nil, apierr.FromGoogle("drive.files.create", err)
	}
	return convertToFileInfo(uploaded), nil
}

// DownloadFile fetches a file and writes it to the local filesystem.
// Native Workspace files are exported, to application/pdf unless
// exportMimeType says otherwise.
func (c *Client) DownloadFile(ctx context.Context, fileID, localPath, exportMimeType string) (*DownloadInfo, error) {
	meta, err := c.service.Files.Get(fileID).
		Context(ctx).
		Fields(fileFields).
		Do()
	if err != nil {
		return nil, apierr.FromGoogle("drive.files.get", err)
	}

	var content []byte
	if exportMimeType != "" || strings.HasPrefix(meta.MimeType, googleAppsPrefix) {
		exportMime := exportMimeType
		if exportMime == "" {
			exportMime = "application/pdf"
		}
		resp, err := c.service.Files.Export(fileID, exportMime).Context(ctx).Download()
		if err != nil {
			return nil, apierr.FromGoogle("drive.files.export", err)
		}
		defer resp.Body.Close()
		content, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, apierr.FromGoogle("drive.files.export", err)
		}
	} else {
		resp, err := c.service.Files.Get(fileID).Context(ctx).Download()
		if err != nil {
			return nil, apierr.FromGoogle("drive.files.get", err)
		}
		defer resp.Body.Close()
		content, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, apierr.FromGoogle("drive.files.get", err)
		}
	}

	if err := os.WriteFile(localPath, content, 0600); err != nil {
		return nil, fmt.Errorf("failed to write local file: %w", err)
	}

	return &DownloadInfo{
		FileID:    fileID,
		Name:      meta.Name,
		LocalPath: localPath,
		Size:      len(content),
	}, nil
}

// ListSharedDrives lists shared drives visible to the account.
func (c *Client) ListSharedDrives(ctx context.Context, maxResults int) ([]*SharedDrive, error) {
	if maxResults <= 0 || maxResults > 100 {
		maxResults = 100
	}

	result, err := c.service.Drives.List().
		Context(ctx).
		PageSize(int64(maxResults)).
		Fields("drives(id, name)").
		Do()
	if err != nil {
		return nil, apierr.FromGoogle("drive.drives.list", err)
	}

	drives := make([]*SharedDrive, len(result.Drives))
	for i, d := range result.Drives {
		drives[i] = &SharedDrive{ID: d.Id, Name: d.Name}
	}
	return drives, nil
}

// escapeQuery escapes single quotes and backslashes for embedding in a
// Drive query string.
func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
