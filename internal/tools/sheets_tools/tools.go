// Package sheets_tools defines the MCP tool registrations for Google Sheets.
package sheets_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/veranek/workspace-mcp/internal/dispatch"
	"github.com/veranek/workspace-mcp/internal/schema"
	"github.com/veranek/workspace-mcp/internal/server"
	"github.com/veranek/workspace-mcp/internal/tools/respond"
)

const serviceName = "sheets"

// rangeField covers A1 notation such as 'Sheet1!A1:D10'.
func rangeField(description string) schema.Field {
	return schema.Field{
		Name:        "range",
		Description: description,
		Type:        schema.TypeString,
		Required:    true,
		MinLen:      1,
		MaxLen:      500,
	}
}

// Tools returns the Sheets tool registrations bound to the server context.
func Tools(sc *server.Context) []dispatch.Registration {
	return []dispatch.Registration{
		createSpreadsheet(sc),
		readRange(sc),
		updateRange(sc),
		batchUpdate(sc),
		deleteSpreadsheet(sc),
	}
}

func createSpreadsheet(sc *server.Context) dispatch.Registration {
	return dispatch.Registration{
		Name:        "sheets_create",
		Description: "Create a new Google Spreadsheet",
		Service:     serviceName,
		Annotations: dispatch.Annotations{
			Title:     "Create spreadsheet",
			OpenWorld: true,
		},
		Schema: schema.New(
			schema.Field{
				Name:        "title",
				Description: "Spreadsheet title",
				Type:        schema.TypeString,
				Required:    true,
				MinLen:      1,
				MaxLen:      500,
			},
			schema.Account(),
			schema.FormatField(),
		),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			client, err := sc.SheetsClient(args.String("account"))
			if err != nil {
				return "", err
			}

			ss, err := client.CreateSpreadsheet(ctx, args.String("title"))
			if err != nil {
				return "", err
			}

			markdown := fmt.Sprintf("Created spreadsheet: %s\nID: %s\nLink: %s",
				ss.Title, ss.SpreadsheetID, ss.URL)
			return respond.Render(args.String("response_format"), markdown, ss)
		},
	}
}

func readRange(sc *server.Context) dispatch.Registration {
	return dispatch.Registration{
		Name:        "sheets_read",
		Description: "Read a range of cells from a Google Spreadsheet",
		Service:     serviceName,
		Annotations: dispatch.Annotations{
			Title:      "Read spreadsheet range",
			ReadOnly:   true,
			Idempotent: true,
			OpenWorld:  true,
		},
		Schema: schema.New(
			schema.ResourceID("spreadsheet_id", "Google Sheets spreadsheet ID"),
			rangeField("Range to read in A1 notation (e.g., 'Sheet1!A1:D10')"),
			schema.Account(),
			schema.FormatField(),
		),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			client, err := sc.SheetsClient(args.String("account"))
			if err != nil {
				return "", err
			}

			data, err := client.ReadRange(ctx, args.String("spreadsheet_id"), args.String("range"))
			if err != nil {
				return "", err
			}

			var b strings.Builder
			fmt.Fprintf(&b, "Range: %s (%d rows)\n\n", data.Range, len(data.Values))
			for _, row := range data.Values {
				cells := make([]string, len(row))
				for i, cell := range row {
					cells[i] = fmt.Sprint(cell)
				}
				b.WriteString(strings.Join(cells, "\t"))
				b.WriteString("\n")
			}
			return respond.Render(args.String("response_format"), b.String(), data)
		},
	}
}

func updateRange(sc *server.Context) dispatch.Registration {
	return dispatch.Registration{
		Name:        "sheets_update",
		Description: "Write values to a range of cells in a Google Spreadsheet",
		Service:     serviceName,
		Annotations: dispatch.Annotations{
			Title:     "Update spreadsheet range",
			OpenWorld: true,
		},
		Schema: schema.New(
			schema.ResourceID("spreadsheet_id", "Google Sheets spreadsheet ID"),
			rangeField("Range to write in A1 notation (e.g., 'Sheet1!A1:D10')"),
			schema.Field{
				Name:        "values",
				Description: "2D array of cell values, one inner array per row",
				Type:        schema.TypeRowList,
				Required:    true,
			},
			schema.Account(),
			schema.FormatField(),
		),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			client, err := sc.SheetsClient(args.String("account"))
			if err != nil {
				return "", err
			}

			result, err := client.UpdateRange(ctx,
				args.String("spreadsheet_id"),
				args.String("range"),
				args.RowList("values"))
			if err != nil {
				return "", err
			}

			markdown := fmt.Sprintf("Updated range: %s\nCells updated: %d\nRows updated: %d",
				result.UpdatedRange, result.UpdatedCells, result.UpdatedRows)
			return respond.Render(args.String("response_format"), markdown, result)
		},
	}
}

func batchUpdate(sc *server.Context) dispatch.Registration {
	return dispatch.Registration{
		Name:        "sheets_batch_update",
		Description: "Apply a batch of structural update requests to a Google Spreadsheet",
		Service:     serviceName,
		Annotations: dispatch.Annotations{
			Title:     "Batch update spreadsheet",
			OpenWorld: true,
		},
		Schema: schema.New(
			schema.ResourceID("spreadsheet_id", "Google Sheets spreadsheet ID"),
			schema.Field{
				Name:        "requests",
				Description: "Array of Sheets API request objects (e.g., addSheet, updateSheetProperties)",
				Type:        schema.TypeObjectList,
				Required:    true,
			},
			schema.Account(),
		),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			client, err := sc.SheetsClient(args.String("account"))
			if err != nil {
				return "", err
			}

			applied, err := client.BatchUpdate(ctx,
				args.String("spreadsheet_id"),
				args.ObjectList("requests"))
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully applied %d update requests", applied), nil
		},
	}
}

func deleteSpreadsheet(sc *server.Context) dispatch.Registration {
	return dispatch.Registration{
		Name:        "sheets_delete",
		Description: "Delete a Google Spreadsheet",
		Service:     serviceName,
		Annotations: dispatch.Annotations{
			Title:       "Delete spreadsheet",
			Destructive: true,
			Idempotent:  true,
			OpenWorld:   true,
		},
		Schema: schema.New(
			schema.ResourceID("spreadsheet_id", "Google Sheets spreadsheet ID to delete"),
			schema.Account(),
		),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			// Spreadsheets are Drive files; deletion goes through Drive.
			client, err := sc.DriveClient(args.String("account"))
			if err != nil {
				return "", err
			}

			spreadsheetID := args.String("spreadsheet_id")
			if err := client.DeleteFile(ctx, spreadsheetID); err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully deleted spreadsheet: %s", spreadsheetID), nil
		},
	}
}
