// Package sheets provides a typed wrapper around the Google Sheets v4 API.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/veranek/workspace-mcp/internal/apierr"
	"github.com/veranek/workspace-mcp/internal/google"
)

// Client wraps the Google Sheets API service
type Client struct {
	service *sheets.Service
	account string
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// NewClientForAccount creates a new Google Sheets client with OAuth2
// authentication for a specific account.
func NewClientForAccount(ctx context.Context, account string, provider google.TokenProvider) (*Client, error) {
	httpClient, err := google.HTTPClientForAccount(ctx, account, provider)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	service, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets service: %w", err)
	}

	return &Client{service: service, account: account}, nil
}

// NewClientWithService wraps an existing Sheets service.
func NewClientWithService(service *sheets.Service, account string) *Client {
	return &Client{service: service, account: account}
}

// Spreadsheet holds the identifying metadata of a spreadsheet.
type Spreadsheet struct {
	SpreadsheetID string `json:"spreadsheet_id"`
	Title         string `json:"title"`
	URL           string `json:"url,omitempty"`
}

// RangeData is the content of a spreadsheet range in row-major order.
type RangeData struct {
	SpreadsheetID string  `json:"spreadsheet_id"`
	Range         string  `json:"range"`
	Values        [][]any `json:"values"`
}

// UpdateResult summarizes a values update.
type UpdateResult struct {
	SpreadsheetID string `json:"spreadsheet_id"`
	UpdatedRange  string `json:"updated_range"`
	UpdatedCells  int64  `json:"updated_cells"`
	UpdatedRows   int64  `json:"updated_rows"`
}

// CreateSpreadsheet creates a new spreadsheet with the given title.
func (c *Client) CreateSpreadsheet(ctx context.Context, title string) (*Spreadsheet, error) {
	created, err := c.service.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: title},
	}).Context(ctx).Do()
	if err != nil {
		return nil, apierr.FromGoogle("sheets.spreadsheets.create", err)
	}

	result := &Spreadsheet{
		SpreadsheetID: created.SpreadsheetId,
		URL:           created.SpreadsheetUrl,
	}
	if created.Properties != nil {
		result.Title = created.Properties.Title
	}
	return result, nil
}

// ReadRange reads the values of a range in A1 notation.
func (c *Client) ReadRange(ctx context.Context, spreadsheetID, rangeName string) (*RangeData, error) {
	result, err := c.service.Spreadsheets.Values.Get(spreadsheetID, rangeName).
		Context(ctx).
		Do()
	if err != nil {
		return nil, apierr.FromGoogle("sheets.spreadsheets.values.get", err)
	}

	values := result.Values
	if values == nil {
		values = [][]any{}
	}
	return &RangeData{
		SpreadsheetID: spreadsheetID,
		Range:         result.Range,
		Values:        values,
	}, nil
}

// UpdateRange writes values to a range using RAW input, so cell contents
// are stored exactly as given without formula or number parsing.
func (c *Client) UpdateRange(ctx context.Context, spreadsheetID, rangeName string, values [][]any) (*UpdateResult, error) {
	body := &sheets.ValueRange{Values: values}

	result, err := c.service.Spreadsheets.Values.Update(spreadsheetID, rangeName, body).
		Context(ctx).
		ValueInputOption("RAW").
		Do()
	if err != nil {
		return nil, apierr.FromGoogle("sheets.spreadsheets.values.update", err)
	}

	return &UpdateResult{
		SpreadsheetID: spreadsheetID,
		UpdatedRange:  result.UpdatedRange,
		UpdatedCells:  result.UpdatedCells,
		UpdatedRows:   result.UpdatedRows,
	}, nil
}

// BatchUpdate applies raw batchUpdate requests, given as JSON-shaped maps
// matching the Sheets API request schema.
func (c *Client) BatchUpdate(ctx context.Context, spreadsheetID string, requests []map[string]any) (int, error) {
	reqs, err := decodeRequests(requests)
	if err != nil {
		return 0, apierr.New(apierr.KindInvalidArgument, "sheets.spreadsheets.batchUpdate", err.Error())
	}

	result, err := c.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: reqs,
	}).Context(ctx).Do()
	if err != nil {
		return 0, apierr.FromGoogle("sheets.spreadsheets.batchUpdate", err)
	}
	return len(result.Replies), nil
}

// decodeRequests converts JSON-shaped request maps into API request
// structs, rejecting maps that do not match the request schema.
func decodeRequests(requests []map[string]any) ([]*sheets.Request, error) {
	out := make([]*sheets.Request, 0, len(requests))
	for i, m := range requests {
		raw, err := json.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("request %d is not serializable: %w", i, err)
		}
		var req sheets.Request
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, fmt.Errorf("request %d does not match the batchUpdate schema: %w", i, err)
		}
		out = append(out, &req)
	}
	return out, nil
}
