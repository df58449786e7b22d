// Package drive_tools defines the MCP tool registrations for Google
// Drive: search, read, create, update, delete, upload, download and
// shared-drive listing.
package drive_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/veranek/workspace-mcp/internal/dispatch"
	"github.com/veranek/workspace-mcp/internal/drive"
	"github.com/veranek/workspace-mcp/internal/format"
	"github.com/veranek/workspace-mcp/internal/schema"
	"github.com/veranek/workspace-mcp/internal/server"
	"github.com/veranek/workspace-mcp/internal/tools/respond"
)

const serviceName = "drive"

// Tools returns the Drive tool registrations bound to the server context.
func Tools(sc *server.Context) []dispatch.Registration {
	return []dispatch.Registration{
		searchFiles(sc),
		readFile(sc),
		createFile(sc),
		updateFile(sc),
		deleteFile(sc),
		uploadFile(sc),
		downloadFile(sc),
		listSharedDrives(sc),
	}
}

func searchFiles(sc *server.Context) dispatch.Registration {
	fields := []schema.Field{
		{
			Name:        "query",
			Description: "Search query (file name contains)",
			Type:        schema.TypeString,
			MaxLen:      500,
		},
		schema.OptionalResourceID("folder_id", "Limit search to a specific folder ID"),
		{
			Name:        "file_type",
			Description: "Filter by MIME type (e.g., 'application/pdf')",
			Type:        schema.TypeString,
			MaxLen:      200,
		},
		schema.Account(),
	}
	fields = append(fields, schema.ListFields()...)

	return dispatch.Registration{
		Name:        "drive_search_files",
		Description: "Search for files and folders in Google Drive",
		Service:     serviceName,
		Annotations: dispatch.Annotations{
			Title:      "Search Drive files",
			ReadOnly:   true,
			Idempotent: true,
			OpenWorld:  true,
		},
		Schema: schema.New(fields...),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			client, err := sc.DriveClient(args.String("account"))
			if err != nil {
				return "", err
			}

			limit := args.Int("limit")
			offset := args.Int("offset")

			fetch := offset + limit
			if fetch > schema.MaxLimit {
				fetch = schema.MaxLimit
			}
			files, err := client.SearchFiles(ctx, drive.SearchOptions{
				Query:      args.String("query"),
				FolderID:   args.String("folder_id"),
				FileType:   args.String("file_type"),
				MaxResults: fetch,
			})
			if err != nil {
				return "", err
			}

			page, meta := respond.PageSlice(files, limit, offset)

			var b strings.Builder
			fmt.Fprintf(&b, "Found %d files:\n", meta.Total)
			for _, f := range page {
				fmt.Fprintf(&b, "- %s (ID: %s, Type: %s)\n", f.Name, f.ID, f.MimeType)
			}
			return respond.RenderList(args.String("response_format"), b.String(),
				map[string]any{"files": page}, meta)
		},
	}
}

func readFile(sc *server.Context) dispatch.Registration {
	return dispatch.Registration{
		Name:        "drive_read_file",
		Description: "Read file content from Google Drive",
		Service:     serviceName,
		Annotations: dispatch.Annotations{
			Title:      "Read Drive file",
			ReadOnly:   true,
			Idempotent: true,
			OpenWorld:  true,
		},
		Schema: schema.New(
			schema.ResourceID("file_id", "Google Drive file ID"),
			schema.Field{
				Name:        "mime_type",
				Description: "Export MIME type for Google Workspace files (e.g., 'text/plain', 'application/pdf')",
				Type:        schema.TypeString,
				MaxLen:      200,
			},
			schema.Account(),
			schema.FormatField(),
		),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			client, err := sc.DriveClient(args.String("account"))
			if err != nil {
				return "", err
			}

			file, err := client.ReadFile(ctx, args.String("file_id"), args.String("mime_type"))
			if err != nil {
				return "", err
			}

			markdown := fmt.Sprintf("File: %s\nType: %s\nModified: %s\n\nContent:\n%s",
				file.Name, file.MimeType, format.Timestamp(file.ModifiedTime), file.Content)
			return respond.Render(args.String("response_format"), markdown, file)
		},
	}
}

func createFile(sc *server.Context) dispatch.Registration {
	return dispatch.Registration{
		Name:        "drive_create_file",
		Description: "Create a new file in Google Drive",
		Service:     serviceName,
		Annotations: dispatch.Annotations{
			Title:     "Create Drive file",
			OpenWorld: true,
		},
		Schema: schema.New(
			schema.Field{
				Name:        "name",
				Description: "File name",
				Type:        schema.TypeString,
				Required:    true,
				MinLen:      1,
				MaxLen:      500,
			},
			schema.Field{
				Name:        "content",
				Description: "File content",
				Type:        schema.TypeString,
				Default:     "",
			},
			schema.Field{
				Name:        "mime_type",
				Description: "MIME type (default: 'text/plain')",
				Type:        schema.TypeString,
				MaxLen:      200,
				Default:     "text/plain",
			},
			schema.OptionalResourceID("folder_id", "Parent folder ID"),
			schema.Account(),
			schema.FormatField(),
		),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			client, err := sc.DriveClient(args.String("account"))
			if err != nil {
				return "", err
			}

			file, err := client.CreateFile(ctx,
				args.String("name"),
				args.String("content"),
				args.String("mime_type"),
				args.String("folder_id"))
			if err != nil {
				return "", err
			}

			markdown := fmt.Sprintf("Created file: %s\nID: %s\nLink: %s",
				file.Name, file.ID, orNA(file.WebViewLink))
			return respond.Render(args.String("response_format"), markdown, file)
		},
	}
}

func updateFile(sc *server.Context) dispatch.Registration {
	return dispatch.Registration{
		Name:        "drive_update_file",
		Description: "Update an existing file in Google Drive",
		Service:     serviceName,
		Annotations: dispatch.Annotations{
			Title:     "Update Drive file",
			OpenWorld: true,
		},
		Schema: schema.New(
			schema.ResourceID("file_id", "Google Drive file ID"),
			schema.Field{
				Name:        "content",
				Description: "New file content",
				Type:        schema.TypeString,
			},
			schema.Field{
				Name:        "name",
				Description: "New file name",
				Type:        schema.TypeString,
				MaxLen:      500,
			},
			schema.Account(),
			schema.FormatField(),
		),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			client, err := sc.DriveClient(args.String("account"))
			if err != nil {
				return "", err
			}

			file, err := client.UpdateFile(ctx,
				args.String("file_id"),
				args.String("content"),
				args.String("name"))
			if err != nil {
				return "", err
			}

			markdown := fmt.Sprintf("Updated file: %s\nID: %s\nModified: %s",
				file.Name, file.ID, format.Timestamp(file.ModifiedTime))
			return respond.Render(args.String("response_format"), markdown, file)
		},
	}
}

func deleteFile(sc *server.Context) dispatch.Registration {
	return dispatch.Registration{
		Name:        "drive_delete_file",
		Description: "Delete a file from Google Drive",
		Service:     serviceName,
		Annotations: dispatch.Annotations{
			Title:       "Delete Drive file",
			Destructive: true,
			Idempotent:  true,
			OpenWorld:   true,
		},
		Schema: schema.New(
			schema.ResourceID("file_id", "Google Drive file ID to delete"),
			schema.Account(),
		),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			client, err := sc.DriveClient(args.String("account"))
			if err != nil {
				return "", err
			}

			fileID := args.String("file_id")
			if err := client.DeleteFile(ctx, fileID); err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully deleted file: %s", fileID), nil
		},
	}
}

func uploadFile(sc *server.Context) dispatch.Registration {
	return dispatch.Registration{
		Name:        "drive_upload_file",
		Description: "Upload a local file to Google Drive",
		Service:     serviceName,
		Annotations: dispatch.Annotations{
			Title:     "Upload file to Drive",
			OpenWorld: true,
		},
		Schema: schema.New(
			schema.Field{
				Name:        "local_path",
				Description: "Local file path to upload",
				Type:        schema.TypeString,
				Required:    true,
				MinLen:      1,
				MaxLen:      4096,
			},
			schema.Field{
				Name:        "name",
				Description: "Name for the uploaded file (defaults to the local file name)",
				Type:        schema.TypeString,
				MaxLen:      500,
			},
			schema.OptionalResourceID("folder_id", "Parent folder ID"),
			schema.Account(),
			schema.FormatField(),
		),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			client, err := sc.DriveClient(args.String("account"))
			if err != nil {
				return "", err
			}

			file, err := client.UploadFile(ctx,
				args.String("local_path"),
				args.String("name"),
				args.String("folder_id"))
			if err != nil {
				return "", err
			}

			markdown := fmt.Sprintf("Uploaded file: %s\nID: %s\nLink: %s",
				file.Name, file.ID, orNA(file.WebViewLink))
			return respond.Render(args.String("response_format"), markdown, file)
		},
	}
}

func downloadFile(sc *server.Context) dispatch.Registration {
	return dispatch.Registration{
		Name:        "drive_download_file",
		Description: "Download a file from Google Drive to the local system",
		Service:     serviceName,
		Annotations: dispatch.Annotations{
			Title:     "Download Drive file",
			ReadOnly:  true,
			OpenWorld: true,
		},
		Schema: schema.New(
			schema.ResourceID("file_id", "Google Drive file ID"),
			schema.Field{
				Name:        "local_path",
				Description: "Local path to save the file",
				Type:        schema.TypeString,
				Required:    true,
				MinLen:      1,
				MaxLen:      4096,
			},
			schema.Field{
				Name:        "mime_type",
				Description: "Export MIME type for Google Workspace files",
				Type:        schema.TypeString,
				MaxLen:      200,
			},
			schema.Account(),
			schema.FormatField(),
		),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			client, err := sc.DriveClient(args.String("account"))
			if err != nil {
				return "", err
			}

			info, err := client.DownloadFile(ctx,
				args.String("file_id"),
				args.String("local_path"),
				args.String("mime_type"))
			if err != nil {
				return "", err
			}

			markdown := fmt.Sprintf("Downloaded file to: %s\nSize: %d bytes",
				info.LocalPath, info.Size)
			return respond.Render(args.String("response_format"), markdown, info)
		},
	}
}

func listSharedDrives(sc *server.Context) dispatch.Registration {
	fields := []schema.Field{schema.Account()}
	fields = append(fields, schema.ListFields()...)

	return dispatch.Registration{
		Name:        "drive_list_shared_drives",
		Description: "List all shared drives (Team Drives) accessible to the user",
		Service:     serviceName,
		Annotations: dispatch.Annotations{
			Title:      "List shared drives",
			ReadOnly:   true,
			Idempotent: true,
			OpenWorld:  true,
		},
		Schema: schema.New(fields...),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			client, err := sc.DriveClient(args.String("account"))
			if err != nil {
				return "", err
			}

			limit := args.Int("limit")
			offset := args.Int("offset")

			fetch := offset + limit
			if fetch > 100 {
				fetch = 100
			}
			drives, err := client.ListSharedDrives(ctx, fetch)
			if err != nil {
				return "", err
			}

			page, meta := respond.PageSlice(drives, limit, offset)

			var b strings.Builder
			fmt.Fprintf(&b, "Found %d shared drives:\n", meta.Total)
			for _, d := range page {
				fmt.Fprintf(&b, "- %s (ID: %s)\n", d.Name, d.ID)
			}
			return respond.RenderList(args.String("response_format"), b.String(),
				map[string]any{"shared_drives": page}, meta)
		},
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
