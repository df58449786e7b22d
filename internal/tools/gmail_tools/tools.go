// Package gmail_tools defines the MCP tool registrations for Gmail:
// searching, reading, sending, replying, labels and trash.
package gmail_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/veranek/workspace-mcp/internal/dispatch"
	"github.com/veranek/workspace-mcp/internal/gmail"
	"github.com/veranek/workspace-mcp/internal/schema"
	"github.com/veranek/workspace-mcp/internal/server"
	"github.com/veranek/workspace-mcp/internal/tools/respond"
)

const serviceName = "gmail"

// searchFetchCap bounds how many message summaries one search fetches.
const searchFetchCap = 500

// header does a case-insensitive lookup in a decoded header map.
func header(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// Tools returns the Gmail tool registrations bound to the server context.
func Tools(sc *server.Context) []dispatch.Registration {
	return []dispatch.Registration{
		searchMessages(sc),
		readMessage(sc),
		sendMessage(sc),
		replyMessage(sc),
		deleteMessage(sc),
		listLabels(sc),
		modifyLabels(sc),
	}
}

func searchMessages(sc *server.Context) dispatch.Registration {
	fields := []schema.Field{
		{
			Name:        "query",
			Description: "Gmail search query (e.g., 'from:alice@example.com is:unread')",
			Type:        schema.TypeString,
			MaxLen:      1000,
		},
		{
			Name:        "label_ids",
			Description: "Restrict the search to messages carrying these label IDs",
			Type:        schema.TypeStringList,
		},
		schema.Account(),
	}
	fields = append(fields, schema.ListFields()...)

	return dispatch.Registration{
		Name:        "gmail_search_messages",
		Description: "Search for messages in Gmail",
		Service:     serviceName,
		Annotations: dispatch.Annotations{
			Title:      "Search Gmail messages",
			ReadOnly:   true,
			Idempotent: true,
			OpenWorld:  true,
		},
		Schema: schema.New(fields...),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			client, err := sc.GmailClient(args.String("account"))
			if err != nil {
				return "", err
			}

			limit := args.Int("limit")
			offset := args.Int("offset")

			fetch := offset + limit
			if fetch > searchFetchCap {
				fetch = searchFetchCap
			}
			messages, err := client.SearchMessages(ctx, gmail.SearchOptions{
				Query:      args.String("query"),
				LabelIDs:   args.StringList("label_ids"),
				MaxResults: fetch,
			})
			if err != nil {
				return "", err
			}

			page, meta := respond.PageSlice(messages, limit, offset)

			var b strings.Builder
			fmt.Fprintf(&b, "Found %d messages:\n", meta.Total)
			for _, m := range page {
				fmt.Fprintf(&b, "- %s\n  From: %s\n  Date: %s\n  ID: %s\n",
					m.Subject, m.From, m.Date, m.MessageID)
			}
			return respond.RenderList(args.String("response_format"), b.String(),
				map[string]any{"messages": page}, meta)
		},
	}
}

func readMessage(sc *server.Context) dispatch.Registration {
	return dispatch.Registration{
		Name:        "gmail_read_message",
		Description: "Read the full content of a Gmail message",
		Service:     serviceName,
		Annotations: dispatch.Annotations{
			Title:      "Read Gmail message",
			ReadOnly:   true,
			Idempotent: true,
			OpenWorld:  true,
		},
		Schema: schema.New(
			schema.MessageID("Gmail message ID"),
			schema.Account(),
			schema.FormatField(),
		),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			client, err := sc.GmailClient(args.String("account"))
			if err != nil {
				return "", err
			}

			msg, err := client.ReadMessage(ctx, args.String("message_id"))
			if err != nil {
				return "", err
			}

			markdown := fmt.Sprintf("Subject: %s\nFrom: %s\nTo: %s\nDate: %s\nLabels: %s\n\n%s",
				header(msg.Headers, "Subject"),
				header(msg.Headers, "From"),
				header(msg.Headers, "To"),
				header(msg.Headers, "Date"),
				strings.Join(msg.Labels, ", "), msg.Body)
			return respond.Render(args.String("response_format"), markdown, msg)
		},
	}
}

func sendMessage(sc *server.Context) dispatch.Registration {
	return dispatch.Registration{
		Name:        "gmail_send_message",
		Description: "Send an email via Gmail",
		Service:     serviceName,
		Annotations: dispatch.Annotations{
			Title:     "Send Gmail message",
			OpenWorld: true,
		},
		Schema: schema.New(
			schema.Email("to", "Recipient email address", true),
			schema.Field{
				Name:        "subject",
				Description: "Email subject",
				Type:        schema.TypeString,
				Required:    true,
				MinLen:      1,
				MaxLen:      998,
			},
			schema.Field{
				Name:        "body",
				Description: "Plain-text email body",
				Type:        schema.TypeString,
				Required:    true,
			},
			schema.Email("cc", "CC email address", false),
			schema.Email("bcc", "BCC email address", false),
			schema.Account(),
		),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			client, err := sc.GmailClient(args.String("account"))
			if err != nil {
				return "", err
			}

			messageID, err := client.SendMessage(ctx, gmail.SendOptions{
				To:      args.String("to"),
				Subject: args.String("subject"),
				Body:    args.String("body"),
				Cc:      args.String("cc"),
				Bcc:     args.String("bcc"),
			})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Message sent. ID: %s", messageID), nil
		},
	}
}

func replyMessage(sc *server.Context) dispatch.Registration {
	return dispatch.Registration{
		Name:        "gmail_reply_message",
		Description: "Reply to an existing Gmail message in its thread",
		Service:     serviceName,
		Annotations: dispatch.Annotations{
			Title:     "Reply to Gmail message",
			OpenWorld: true,
		},
		Schema: schema.New(
			schema.MessageID("Gmail message ID to reply to"),
			schema.Field{
				Name:        "body",
				Description: "Plain-text reply body",
				Type:        schema.TypeString,
				Required:    true,
			},
			schema.Account(),
		),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			client, err := sc.GmailClient(args.String("account"))
			if err != nil {
				return "", err
			}

			replyID, err := client.ReplyMessage(ctx, args.String("message_id"), args.String("body"))
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Reply sent. ID: %s", replyID), nil
		},
	}
}

func deleteMessage(sc *server.Context) dispatch.Registration {
	return dispatch.Registration{
		Name:        "gmail_delete_message",
		Description: "Move a Gmail message to the trash",
		Service:     serviceName,
		Annotations: dispatch.Annotations{
			Title:       "Trash Gmail message",
			Destructive: true,
			Idempotent:  true,
			OpenWorld:   true,
		},
		Schema: schema.New(
			schema.MessageID("Gmail message ID to trash"),
			schema.Account(),
		),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			client, err := sc.GmailClient(args.String("account"))
			if err != nil {
				return "", err
			}

			messageID := args.String("message_id")
			if err := client.TrashMessage(ctx, messageID); err != nil {
				return "", err
			}
			return fmt.Sprintf("Moved message to trash: %s", messageID), nil
		},
	}
}

func listLabels(sc *server.Context) dispatch.Registration {
	return dispatch.Registration{
		Name:        "gmail_list_labels",
		Description: "List all Gmail labels for the account",
		Service:     serviceName,
		Annotations: dispatch.Annotations{
			Title:      "List Gmail labels",
			ReadOnly:   true,
			Idempotent: true,
			OpenWorld:  true,
		},
		Schema: schema.New(
			schema.Account(),
			schema.FormatField(),
		),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			client, err := sc.GmailClient(args.String("account"))
			if err != nil {
				return "", err
			}

			labels, err := client.ListLabels(ctx)
			if err != nil {
				return "", err
			}

			var b strings.Builder
			fmt.Fprintf(&b, "Found %d labels:\n", len(labels))
			for _, l := range labels {
				fmt.Fprintf(&b, "- %s (ID: %s, Type: %s)\n", l.Name, l.ID, l.Type)
			}
			return respond.Render(args.String("response_format"), b.String(),
				map[string]any{"labels": labels})
		},
	}
}

func modifyLabels(sc *server.Context) dispatch.Registration {
	return dispatch.Registration{
		Name:        "gmail_modify_labels",
		Description: "Add or remove labels on a Gmail message",
		Service:     serviceName,
		Annotations: dispatch.Annotations{
			Title:      "Modify Gmail labels",
			Idempotent: true,
			OpenWorld:  true,
		},
		Schema: schema.New(
			schema.MessageID("Gmail message ID"),
			schema.Field{
				Name:        "add_labels",
				Description: "Label IDs to add to the message",
				Type:        schema.TypeStringList,
			},
			schema.Field{
				Name:        "remove_labels",
				Description: "Label IDs to remove from the message",
				Type:        schema.TypeStringList,
			},
			schema.Account(),
		),
		Handler: func(ctx context.Context, args schema.Values) (string, error) {
			client, err := sc.GmailClient(args.String("account"))
			if err != nil {
				return "", err
			}

			labels, err := client.ModifyLabels(ctx,
				args.String("message_id"),
				args.StringList("add_labels"),
				args.StringList("remove_labels"))
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Labels updated. Current labels: %s", strings.Join(labels, ", ")), nil
		},
	}
}
