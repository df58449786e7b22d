// Package docs provides a typed wrapper around the Google Docs v1 API.
package docs

import (
	"context"
	"fmt"
	"strings"

	docs "google.golang.org/api/docs/v1"
	"google.golang.org/api/option"

	"github.com/veranek/workspace-mcp/internal/apierr"
	"github.com/veranek/workspace-mcp/internal/google"
)

// Client wraps the Google Docs API service
type Client struct {
	service *docs.Service
	account string
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// NewClientForAccount creates a new Google Docs client with OAuth2
// authentication for a specific account.
func NewClientForAccount(ctx context.Context, account string, provider google.TokenProvider) (*Client, error) {
	httpClient, err := google.HTTPClientForAccount(ctx, account, provider)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	service, err := docs.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Docs service: %w", err)
	}

	return &Client{service: service, account: account}, nil
}

// NewClientWithService wraps an existing Docs service.
func NewClientWithService(service *docs.Service, account string) *Client {
	return &Client{service: service, account: account}
}

// Document holds the extracted view of a Docs document.
type Document struct {
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
	Content    string `json:"content,omitempty"`
}

// CreateDocument creates a new empty document with the given title.
func (c *Client) CreateDocument(ctx context.Context, title string) (*Document, error) {
	doc, err := c.service.Documents.Create(&docs.Document{Title: title}).
		Context(ctx).
		Do()
	if err != nil {
		return nil, apierr.FromGoogle("docs.documents.create", err)
	}
	return &Document{DocumentID: doc.DocumentId, Title: doc.Title}, nil
}

// ReadDocument fetches a document and extracts its plain text content
// from the paragraph elements of the body.
func (c *Client) ReadDocument(ctx context.Context, documentID string) (*Document, error) {
	doc, err := c.service.Documents.Get(documentID).Context(ctx).Do()
	if err != nil {
		return nil, apierr.FromGoogle("docs.documents.get", err)
	}

	return &Document{
		DocumentID: doc.DocumentId,
		Title:      doc.Title,
		Content:    extractText(doc),
	}, nil
}

// InsertText inserts text at the given body index (1 is the start of the
// document body).
func (c *Client) InsertText(ctx context.Context, documentID, text string, index int64) error {
	if index < 1 {
		index = 1
	}
	req := &docs.BatchUpdateDocumentRequest{
		Requests: []*docs.Request{{
			InsertText: &docs.InsertTextRequest{
				Location: &docs.Location{Index: index},
				Text:     text,
			},
		}},
	}

	_, err := c.service.Documents.BatchUpdate(documentID, req).Context(ctx).Do()
	if err != nil {
		return apierr.FromGoogle("docs.documents.batchUpdate", err)
	}
	return nil
}

func extractText(doc *docs.Document) string {
	if doc.Body == nil {
		return ""
	}
	var b strings.Builder
	for _, elem := range doc.Body.Content {
		if elem.Paragraph == nil {
			continue
		}
		for _, pe := range elem.Paragraph.Elements {
			if pe.TextRun != nil {
				b.WriteString(pe.TextRun.Content)
			}
		}
	}
	return b.String()
}
