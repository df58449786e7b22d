// Package slides_tools defines the MCP tool registrations for Google Slides.
package slides_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/veranek/workspace-mcp/internal/dispatch"
	"github.com/veranek/workspace-mcp/internal/schema"
	"github.com/veranek/workspace-mcp/internal/server"
	"github.com/veranek/workspace-mcp/internal/tools/respond"
)

const serviceName = "slides"

// Tools returns the Slides tool registrations bound to the server context.
func Tools(sc *server.Context) []dispatch.Registration {
	return []dispatch.Registration{
		createPresentation(sc),
		readPresentation(sc),
		addSlide(sc),
		batchUpdate(sc),
		deletePresentation(sc),
	}
}

func createPresentation(sc *server.Context) dispatch.Registration {
	return dispatch.Registration{
		Name:        "slides_create",
		Description: "Create a new Google Slides presentation",
		Service:     serviceName,
		Annotations: dispatch.Annotations{
			Title:     "Create presentation",
			OpenWorld: true,
		},
		Schema: schema.New(
			schema.Field{
				Name:        "title",
				Description: "Presentation title",
				Type:        schema.TypeString,
				Required:    true,
				MinLen:      1,
				MaxLen:      500,
			},
			schema.Account(),
			schema.FormatField(),
		),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			client, err := sc.SlidesClient(args.String("account"))
			if err != nil {
				return "", err
			}

			pres, err := client.CreatePresentation(ctx, args.String("title"))
			if err != nil {
				return "", err
			}

			markdown := fmt.Sprintf("Created presentation: %s\nID: %s\nLink: https://docs.google.com/presentation/d/%s/edit",
				pres.Title, pres.PresentationID, pres.PresentationID)
			return respond.Render(args.String("response_format"), markdown, pres)
		},
	}
}

func readPresentation(sc *server.Context) dispatch.Registration {
	return dispatch.Registration{
		Name:        "slides_read",
		Description: "Read the structure of a Google Slides presentation",
		Service:     serviceName,
		Annotations: dispatch.Annotations{
			Title:      "Read presentation",
			ReadOnly:   true,
			Idempotent: true,
			OpenWorld:  true,
		},
		Schema: schema.New(
			schema.ResourceID("presentation_id", "Google Slides presentation ID"),
			schema.Account(),
			schema.FormatField(),
		),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			client, err := sc.SlidesClient(args.String("account"))
			if err != nil {
				return "", err
			}

			pres, err := client.ReadPresentation(ctx, args.String("presentation_id"))
			if err != nil {
				return "", err
			}

			var b strings.Builder
			fmt.Fprintf(&b, "Presentation: %s (%d slides)\n", pres.Title, pres.SlideCount)
			for i, slide := range pres.Slides {
				fmt.Fprintf(&b, "- Slide %d: %s (%d elements)\n", i+1, slide.SlideID, slide.PageElements)
			}
			return respond.Render(args.String("response_format"), b.String(), pres)
		},
	}
}

func addSlide(sc *server.Context) dispatch.Registration {
	return dispatch.Registration{
		Name:        "slides_add_slide",
		Description: "Add a new slide to a Google Slides presentation",
		Service:     serviceName,
		Annotations: dispatch.Annotations{
			Title:     "Add slide",
			OpenWorld: true,
		},
		Schema: schema.New(
			schema.ResourceID("presentation_id", "Google Slides presentation ID"),
			schema.Field{
				Name:        "insertion_index",
				Description: "Zero-based position for the new slide (appends at the end when omitted)",
				Type:        schema.TypeInt,
				Min:         schema.F(0),
			},
			schema.Account(),
		),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			client, err := sc.SlidesClient(args.String("account"))
			if err != nil {
				return "", err
			}

			index := -1
			if args.Has("insertion_index") {
				index = args.Int("insertion_index")
			}
			slideID, err := client.AddSlide(ctx, args.String("presentation_id"), index)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Added slide: %s", slideID), nil
		},
	}
}

func batchUpdate(sc *server.Context) dispatch.Registration {
	return dispatch.Registration{
		Name:        "slides_update",
		Description: "Apply a batch of update requests to a Google Slides presentation",
		Service:     serviceName,
		Annotations: dispatch.Annotations{
			Title:     "Update presentation",
			OpenWorld: true,
		},
		Schema: schema.New(
			schema.ResourceID("presentation_id", "Google Slides presentation ID"),
			schema.Field{
				Name:        "requests",
				Description: "Array of Slides API request objects (e.g., insertText, createShape)",
				Type:        schema.TypeObjectList,
				Required:    true,
			},
			schema.Account(),
		),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			client, err := sc.SlidesClient(args.String("account"))
			if err != nil {
				return "", err
			}

			applied, err := client.BatchUpdate(ctx,
				args.String("presentation_id"),
				args.ObjectList("requests"))
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully applied %d update requests", applied), nil
		},
	}
}

func deletePresentation(sc *server.Context) dispatch.Registration {
	return dispatch.Registration{
		Name:        "slides_delete",
		Description: "Delete a Google Slides presentation",
		Service:     serviceName,
		Annotations: dispatch.Annotations{
			Title:       "Delete presentation",
			Destructive: true,
			Idempotent:  true,
			OpenWorld:   true,
		},
		Schema: schema.New(
			schema.ResourceID("presentation_id", "Google Slides presentation ID to delete"),
			schema.Account(),
		),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			// Presentations are Drive files; deletion goes through Drive.
			client, err := sc.DriveClient(args.String("account"))
			if err != nil {
				return "", err
			}

			presentationID := args.String("presentation_id")
			if err := client.DeleteFile(ctx, presentationID); err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully deleted presentation: %s", presentationID), nil
		},
	}
}
