// Package slides provides a typed wrapper around the Google Slides v1 API.
package slides

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/api/option"
	slides "google.golang.org/api/slides/v1"

	"github.com/veranek/workspace-mcp/internal/apierr"
	"github.com/veranek/workspace-mcp/internal/google"
)

// Client wraps the Google Slides API service
type Client struct {
	service *slides.Service
	account string
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// NewClientForAccount creates a new Google Slides client with OAuth2
// authentication for a specific account.
func NewClientForAccount(ctx context.Context, account string, provider google.TokenProvider) (*Client, error) {
	httpClient, err := google.HTTPClientForAccount(ctx, account, provider)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	service, err := slides.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Slides service: %w", err)
	}

	return &Client{service: service, account: account}, nil
}

// NewClientWithService wraps an existing Slides service.
func NewClientWithService(service *slides.Service, account string) *Client {
	return &Client{service: service, account: account}
}

// Presentation holds the extracted structure of a presentation.
type Presentation struct {
	PresentationID string      `json:"presentation_id"`
	Title          string      `json:"title"`
	Slides         []SlideInfo `json:"slides,omitempty"`
	SlideCount     int         `json:"slide_count"`
}

// SlideInfo summarizes one slide.
type SlideInfo struct {
	SlideID      string `json:"slide_id"`
	PageElements int    `json:"page_elements"`
}

// CreatePresentation creates a new presentation with the given title.
func (c *Client) CreatePresentation(ctx context.Context, title string) (*Presentation, error) {
	created, err := c.service.Presentations.Create(&slides.Presentation{Title: title}).
		Context(ctx).
		Do()
	if err != nil {
		return nil, apierr.FromGoogle("slides.presentations.create", err)
	}
	return &Presentation{
		PresentationID: created.PresentationId,
		Title:          created.Title,
		SlideCount:     len(created.Slides),
	}, nil
}

// ReadPresentation fetches the structure of a presentation: its title and
// a per-slide summary.
func (c *Client) ReadPresentation(ctx context.Context, presentationID string) (*Presentation, error) {
	p, err := c.service.Presentations.Get(presentationID).Context(ctx).Do()
	if err != nil {
		return nil, apierr.FromGoogle("slides.presentations.get", err)
	}

	info := make([]SlideInfo, len(p.Slides))
	for i, s := range p.Slides {
		info[i] = SlideInfo{SlideID: s.ObjectId, PageElements: len(s.PageElements)}
	}

	return &Presentation{
		PresentationID: p.PresentationId,
		Title:          p.Title,
		Slides:         info,
		SlideCount:     len(info),
	}, nil
}

// AddSlide appends a new slide, or inserts it at insertionIndex when the
// index is non-negative.
func (c *Client) AddSlide(ctx context.Context, presentationID string, insertionIndex int) (string, error) {
	createSlide := &slides.CreateSlideRequest{}
	if insertionIndex >= 0 {
		createSlide.InsertionIndex = int64(insertionIndex)
		createSlide.ForceSendFields = []string{"InsertionIndex"}
	}

	result, err := c.service.Presentations.BatchUpdate(presentationID, &slides.BatchUpdatePresentationRequest{
		Requests: []*slides.Request{{CreateSlide: createSlide}},
	}).Context(ctx).Do()
	if err != nil {
		return "", apierr.FromGoogle("slides.presentations.batchUpdate", err)
	}

	for _, reply := range result.Replies {
		if reply.CreateSlide != nil {
			return reply.CreateSlide.ObjectId, nil
		}
	}
	return "", nil
}

// BatchUpdate applies raw batchUpdate requests, given as JSON-shaped maps
// matching the Slides API request schema.
func (c *Client) BatchUpdate(ctx context.Context, presentationID string, requests []map[string]any) (int, error) {
	reqs, err := decodeRequests(requests)
	if err != nil {
		return 0, apierr.New(apierr.KindInvalidArgument, "slides.presentations.batchUpdate", err.Error())
	}

	result, err := c.service.Presentations.BatchUpdate(presentationID, &slides.BatchUpdatePresentationRequest{
		Requests: reqs,
	}).Context(ctx).Do()
	if err != nil {
		return 0, apierr.FromGoogle("slides.presentations.batchUpdate", err)
	}
	return len(result.Replies), nil
}

func decodeRequests(requests []map[string]any) ([]*slides.Request, error) {
	out := make([]*slides.Request, 0, len(requests))
	for i, m := range requests {
		raw, err := json.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("request %d is not serializable: %w", i, err)
		}
		var req slides.Request
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, fmt.Errorf("request %d does not match the batchUpdate schema: %w", i, err)
		}
		out = append(out, &req)
	}
	return out, nil
}
