// Package forms provides a typed wrapper around the Google Forms v1 API.
package forms

import (
	"context"
	"encoding/json"
	"fmt"

	forms "google.golang.org/api/forms/v1"
	"google.golang.org/api/option"

	"github.com/veranek/workspace-mcp/internal/apierr"
	"github.com/veranek/workspace-mcp/internal/google"
)

// Client wraps the Google Forms API service
type Client struct {
	service *forms.Service
	account string
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// NewClientForAccount creates a new Google Forms client with OAuth2
// authentication for a specific account.
func NewClientForAccount(ctx context.Context, account string, provider google.TokenProvider) (*Client, error) {
	httpClient, err := google.HTTPClientForAccount(ctx, account, provider)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	service, err := forms.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Forms service: %w", err)
	}

	return &Client{service: service, account: account}, nil
}

// NewClientWithService wraps an existing Forms service.
func NewClientWithService(service *forms.Service, account string) *Client {
	return &Client{service: service, account: account}
}

// Form holds the extracted structure of a form.
type Form struct {
	FormID    string     `json:"form_id"`
	Title     string     `json:"title"`
	Items     []ItemInfo `json:"items,omitempty"`
	ItemCount int        `json:"item_count"`
}

// ItemInfo summarizes one form item.
type ItemInfo struct {
	ItemID       string `json:"item_id"`
	Title        string `json:"title"`
	QuestionType string `json:"question_type"`
}

// Response is one submitted form response.
type Response struct {
	ResponseID string         `json:"response_id"`
	SubmitTime string         `json:"submit_time,omitempty"`
	Answers    map[string]any `json:"answers,omitempty"`
}

// CreateForm creates a new form. documentTitle defaults to the form title.
func (c *Client) CreateForm(ctx context.Context, title, documentTitle string) (*Form, error) {
	if documentTitle == "" {
		documentTitle = title
	}

	created, err := c.service.Forms.Create(&forms.Form{
		Info: &forms.Info{
			Title:         title,
			DocumentTitle: documentTitle,
		},
	}).Context(ctx).Do()
	if err != nil {
		return nil, apierr.FromGoogle("forms.forms.create", err)
	}

	result := &Form{FormID: created.FormId}
	if created.Info != nil {
		result.Title = created.Info.Title
	}
	return result, nil
}

// ReadForm fetches the structure of a form: its title and a per-item
// summary including the question type.
func (c *Client) ReadForm(ctx context.Context, formID string) (*Form, error) {
	form, err := c.service.Forms.Get(formID).Context(ctx).Do()
	if err != nil {
		return nil, apierr.FromGoogle("forms.forms.get", err)
	}

	items := make([]ItemInfo, len(form.Items))
	for i, item := range form.Items {
		items[i] = ItemInfo{
			ItemID:       item.ItemId,
			Title:        item.Title,
			QuestionType: questionType(item),
		}
	}

	result := &Form{
		FormID:    form.FormId,
		Items:     items,
		ItemCount: len(items),
	}
	if form.Info != nil {
		result.Title = form.Info.Title
	}
	return result, nil
}

// UpdateForm applies raw batchUpdate requests, given as JSON-shaped maps
// matching the Forms API request schema.
func (c *Client) UpdateForm(ctx context.Context, formID string, requests []map[string]any) (int, error) {
	reqs, err := decodeRequests(requests)
	if err != nil {
		return 0, apierr.New(apierr.KindInvalidArgument, "forms.forms.batchUpdate", err.Error())
	}

	result, err := c.service.Forms.BatchUpdate(formID, &forms.BatchUpdateFormRequest{
		Requests: reqs,
	}).Context(ctx).Do()
	if err != nil {
		return 0, apierr.FromGoogle("forms.forms.batchUpdate", err)
	}
	return len(result.Replies), nil
}

// GetResponses lists all submitted responses of a form.
func (c *Client) GetResponses(ctx context.Context, formID string) ([]Response, error) {
	result, err := c.service.Forms.Responses.List(formID).Context(ctx).Do()
	if err != nil {
		return nil, apierr.FromGoogle("forms.forms.responses.list", err)
	}

	responses := make([]Response, len(result.Responses))
	for i, r := range result.Responses {
		responses[i] = Response{
			ResponseID: r.ResponseId,
			SubmitTime: r.LastSubmittedTime,
			Answers:    convertAnswers(r.Answers),
		}
	}
	return responses, nil
}

// questionType names the concrete question kind of an item, or "other"
// for non-question items.
func questionType(item *forms.Item) string {
	if item.QuestionItem == nil || item.QuestionItem.Question == nil {
		return "other"
	}
	q := item.QuestionItem.Question
	switch {
	case q.ChoiceQuestion != nil:
		return "choiceQuestion"
	case q.TextQuestion != nil:
		return "textQuestion"
	case q.ScaleQuestion != nil:
		return "scaleQuestion"
	case q.DateQuestion != nil:
		return "dateQuestion"
	case q.TimeQuestion != nil:
		return "timeQuestion"
	case q.FileUploadQuestion != nil:
		return "fileUploadQuestion"
	case q.RowQuestion != nil:
		return "rowQuestion"
	default:
		return "other"
	}
}

func convertAnswers(answers map[string]forms.Answer) map[string]any {
	if len(answers) == 0 {
		return nil
	}
	out := make(map[string]any, len(answers))
	for id, a := range answers {
		if a.TextAnswers != nil {
			var values []string
			for _, ta := range a.TextAnswers.Answers {
				values = append(values, ta.Value)
			}
			out[id] = values
			continue
		}
		out[id] = a.QuestionId
	}
	return out
}

func decodeRequests(requests []map[string]any) ([]*forms.Request, error) {
	out := make([]*forms.Request, 0, len(requests))
	for i, m := range requests {
		raw, err := json.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("request %d is not serializable: %w", i, err)
		}
		var req forms.Request
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, fmt.Errorf("request %d does not match the batchUpdate schema: %w", i, err)
		}
		out = append(out, &req)
	}
	return out, nil
}
