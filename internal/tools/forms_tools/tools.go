// Package forms_tools defines the MCP tool registrations for Google Forms.
package forms_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/veranek/workspace-mcp/internal/dispatch"
	"github.com/veranek/workspace-mcp/internal/schema"
	"github.com/veranek/workspace-mcp/internal/server"
	"github.com/veranek/workspace-mcp/internal/tools/respond"
)

const serviceName = "forms"

// Tools returns the Forms tool registrations bound to the server context.
func Tools(sc *server.Context) []dispatch.Registration {
	return []dispatch.Registration{
		createForm(sc),
		readForm(sc),
		updateForm(sc),
		deleteForm(sc),
		getResponses(sc),
	}
}

func createForm(sc *server.Context) dispatch.Registration {
	return dispatch.Registration{
		Name:        "forms_create",
		Description: "Create a new Google Form",
		Service:     serviceName,
		Annotations: dispatch.Annotations{
			Title:     "Create form",
			OpenWorld: true,
		},
		Schema: schema.New(
			schema.Field{
				Name:        "title",
				Description: "Form title shown to respondents",
				Type:        schema.TypeString,
				Required:    true,
				MinLen:      1,
				MaxLen:      500,
			},
			schema.Field{
				Name:        "document_title",
				Description: "Title of the form document in Drive (defaults to the form title)",
				Type:        schema.TypeString,
				MaxLen:      500,
			},
			schema.Account(),
			schema.FormatField(),
		),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			client, err := sc.FormsClient(args.String("account"))
			if err != nil {
				return "", err
			}

			form, err := client.CreateForm(ctx, args.String("title"), args.String("document_title"))
			if err != nil {
				return "", err
			}

			markdown := fmt.Sprintf("Created form: %s\nID: %s\nLink: https://docs.google.com/forms/d/%s/edit",
				form.Title, form.FormID, form.FormID)
			return respond.Render(args.String("response_format"), markdown, form)
		},
	}
}

func readForm(sc *server.Context) dispatch.Registration {
	return dispatch.Registration{
		Name:        "forms_read",
		Description: "Read the structure and questions of a Google Form",
		Service:     serviceName,
		Annotations: dispatch.Annotations{
			Title:      "Read form",
			ReadOnly:   true,
			Idempotent: true,
			OpenWorld:  true,
		},
		Schema: schema.New(
			schema.ResourceID("form_id", "Google Forms form ID"),
			schema.Account(),
			schema.FormatField(),
		),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			client, err := sc.FormsClient(args.String("account"))
			if err != nil {
				return "", err
			}

			form, err := client.ReadForm(ctx, args.String("form_id"))
			if err != nil {
				return "", err
			}

			var b strings.Builder
			fmt.Fprintf(&b, "Form: %s (%d items)\n", form.Title, form.ItemCount)
			for _, item := range form.Items {
				fmt.Fprintf(&b, "- %s [%s] (ID: %s)\n", item.Title, item.QuestionType, item.ItemID)
			}
			return respond.Render(args.String("response_format"), b.String(), form)
		},
	}
}

func updateForm(sc *server.Context) dispatch.Registration {
	return dispatch.Registration{
		Name:        "forms_update",
		Description: "Apply a batch of update requests to a Google Form",
		Service:     serviceName,
		Annotations: dispatch.Annotations{
			Title:     "Update form",
			OpenWorld: true,
		},
		Schema: schema.New(
			schema.ResourceID("form_id", "Google Forms form ID"),
			schema.Field{
				Name:        "requests",
				Description: "Array of Forms API request objects (e.g., createItem, updateFormInfo)",
				Type:        schema.TypeObjectList,
				Required:    true,
			},
			schema.Account(),
		),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			client, err := sc.FormsClient(args.String("account"))
			if err != nil {
				return "", err
			}

			applied, err := client.UpdateForm(ctx, args.String("form_id"), args.ObjectList("requests"))
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully applied %d update requests", applied), nil
		},
	}
}

func deleteForm(sc *server.Context) dispatch.Registration {
	return dispatch.Registration{
		Name:        "forms_delete",
		Description: "Delete a Google Form",
		Service:     serviceName,
		Annotations: dispatch.Annotations{
			Title:       "Delete form",
			Destructive: true,
			Idempotent:  true,
			OpenWorld:   true,
		},
		Schema: schema.New(
			schema.ResourceID("form_id", "Google Forms form ID to delete"),
			schema.Account(),
		),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			// Forms are Drive files; deletion goes through Drive.
			client, err := sc.DriveClient(args.String("account"))
			if err != nil {
				return "", err
			}

			formID := args.String("form_id")
			if err := client.DeleteFile(ctx, formID); err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully deleted form: %s", formID), nil
		},
	}
}

func getResponses(sc *server.Context) dispatch.Registration {
	fields := []schema.Field{
		schema.ResourceID("form_id", "Google Forms form ID"),
		schema.Account(),
	}
	fields = append(fields, schema.ListFields()...)

	return dispatch.Registration{
		Name:        "forms_get_responses",
		Description: "List submitted responses for a Google Form",
		Service:     serviceName,
		Annotations: dispatch.Annotations{
			Title:      "Get form responses",
			ReadOnly:   true,
			Idempotent: true,
			OpenWorld:  true,
		},
		Schema: schema.New(fields...),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			client, err := sc.FormsClient(args.String("account"))
			if err != nil {
				return "", err
			}

			responses, err := client.GetResponses(ctx, args.String("form_id"))
			if err != nil {
				return "", err
			}

			page, meta := respond.PageSlice(responses, args.Int("limit"), args.Int("offset"))

			var b strings.Builder
			fmt.Fprintf(&b, "Found %d responses:\n", meta.Total)
			for _, r := range page {
				fmt.Fprintf(&b, "- %s (submitted %s, %d answers)\n",
					r.ResponseID, r.SubmitTime, len(r.Answers))
			}
			return respond.RenderList(args.String("response_format"), b.String(),
				map[string]any{"responses": page}, meta)
		},
	}
}
