// Package docs_tools defines the MCP tool registrations for Google Docs.
package docs_tools

import (
	"context"
	"fmt"

	"github.com/veranek/workspace-mcp/internal/dispatch"
	"github.com/veranek/workspace-mcp/internal/schema"
	"github.com/veranek/workspace-mcp/internal/server"
	"github.com/veranek/workspace-mcp/internal/tools/respond"
)

const serviceName = "docs"

// Tools returns the Docs tool registrations bound to the server context.
func Tools(sc *server.Context) []dispatch.Registration {
	return []dispatch.Registration{
		createDocument(sc),
		readDocument(sc),
		updateDocument(sc),
		deleteDocument(sc),
	}
}

func createDocument(sc *server.Context) dispatch.Registration {
	return dispatch.Registration{
		Name:        "docs_create",
		Description: "Create a new Google Doc",
		Service:     serviceName,
		Annotations: dispatch.Annotations{
			Title:     "Create document",
			OpenWorld: true,
		},
		Schema: schema.New(
			schema.Field{
				Name:        "title",
				Description: "Document title",
				Type:        schema.TypeString,
				Required:    true,
				MinLen:      1,
				MaxLen:      500,
			},
			schema.Field{
				Name:        "content",
				Description: "Initial document content",
				Type:        schema.TypeString,
			},
			schema.Account(),
			schema.FormatField(),
		),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			client, err := sc.DocsClient(args.String("account"))
			if err != nil {
				return "", err
			}

			doc, err := client.CreateDocument(ctx, args.String("title"))
			if err != nil {
				return "", err
			}
			if content := args.String("content"); content != "" {
				if err := client.InsertText(ctx, doc.DocumentID, content, 1); err != nil {
					return "", err
				}
			}

			markdown := fmt.Sprintf("Created document: %s\nID: %s\nLink: https://docs.google.com/document/d/%s/edit",
				doc.Title, doc.DocumentID, doc.DocumentID)
			return respond.Render(args.String("response_format"), markdown, doc)
		},
	}
}

func readDocument(sc *server.Context) dispatch.Registration {
	return dispatch.Registration{
		Name:        "docs_read",
		Description: "Read the text content of a Google Doc",
		Service:     serviceName,
		Annotations: dispatch.Annotations{
			Title:      "Read document",
			ReadOnly:   true,
			Idempotent: true,
			OpenWorld:  true,
		},
		Schema: schema.New(
			schema.ResourceID("document_id", "Google Docs document ID"),
			schema.Account(),
			schema.FormatField(),
		),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			client, err := sc.DocsClient(args.String("account"))
			if err != nil {
				return "", err
			}

			doc, err := client.ReadDocument(ctx, args.String("document_id"))
			if err != nil {
				return "", err
			}

			markdown := fmt.Sprintf("Document: %s\n\n%s", doc.Title, doc.Content)
			return respond.Render(args.String("response_format"), markdown, doc)
		},
	}
}

func updateDocument(sc *server.Context) dispatch.Registration {
	return dispatch.Registration{
		Name:        "docs_update",
		Description: "Insert text into a Google Doc at a given index",
		Service:     serviceName,
		Annotations: dispatch.Annotations{
			Title:     "Update document",
			OpenWorld: true,
		},
		Schema: schema.New(
			schema.ResourceID("document_id", "Google Docs document ID"),
			schema.Field{
				Name:        "text",
				Description: "Text to insert",
				Type:        schema.TypeString,
				Required:    true,
				MinLen:      1,
			},
			schema.Field{
				Name:        "index",
				Description: "Character index to insert at (default: 1, the start of the body)",
				Type:        schema.TypeInt,
				Min:         schema.F(1),
				Default:     1,
			},
			schema.Account(),
		),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			client, err := sc.DocsClient(args.String("account"))
			if err != nil {
				return "", err
			}

			documentID := args.String("document_id")
			if err := client.InsertText(ctx, documentID, args.String("text"), int64(args.Int("index"))); err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully updated document: %s", documentID), nil
		},
	}
}

func deleteDocument(sc *server.Context) dispatch.Registration {
	return dispatch.Registration{
		Name:        "docs_delete",
		Description: "Delete a Google Doc",
		Service:     serviceName,
		Annotations: dispatch.Annotations{
			Title:       "Delete document",
			Destructive: true,
			Idempotent:  true,
			OpenWorld:   true,
		},
		Schema: schema.New(
			schema.ResourceID("document_id", "Google Docs document ID to delete"),
			schema.Account(),
		),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			// Documents are Drive files; deletion goes through Drive.
			client, err := sc.DriveClient(args.String("account"))
			if err != nil {
				return "", err
			}

			documentID := args.String("document_id")
			if err := client.DeleteFile(ctx, documentID); err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully deleted document: %s", documentID), nil
		},
	}
}
