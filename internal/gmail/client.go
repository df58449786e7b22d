// Package gmail provides a typed wrapper around the Gmail v1 API.
package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/veranek/workspace-mcp/internal/apierr"
	"github.com/veranek/workspace-mcp/internal/google"
)

// Client wraps the Gmail API service
type Client struct {
	service *gmail.Service
	account string
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// NewClientForAccount creates a new Gmail client with OAuth2
// authentication for a specific account.
func NewClientForAccount(ctx context.Context, account string, provider google.TokenProvider) (*Client, error) {
	httpClient, err := google.HTTPClientForAccount(ctx, account, provider)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	service, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &Client{service: service, account: account}, nil
}

// NewClientWithService wraps an existing Gmail service.
func NewClientWithService(service *gmail.Service, account string) *Client {
	return &Client{service: service, account: account}
}

// SearchMessages lists messages matching the query and hydrates each hit
// with its From/To/Subject/Date headers.
func (c *Client) SearchMessages(ctx context.Context, opts SearchOptions) ([]*MessageSummary, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 || maxResults > 500 {
		maxResults = 500
	}

	call := c.service.Users.Messages.List("me").
		Context(ctx).
		Q(opts.Query).
		MaxResults(int64(maxResults))
	if len(opts.LabelIDs) > 0 {
		call = call.LabelIds(opts.LabelIDs...)
	}

	list, err := call.Do()
	if err != nil {
		return nil, apierr.FromGoogle("gmail.users.messages.list", err)
	}

	summaries := make([]*MessageSummary, 0, len(list.Messages))
	for _, m := range list.Messages {
		detail, err := c.service.Users.Messages.Get("me", m.Id).
			Context(ctx).
			Format("metadata").
			MetadataHeaders("From", "To", "Subject", "Date").
			Do()
		if err != nil {
			return nil, apierr.FromGoogle("gmail.users.messages.get", err)
		}
		summaries = append(summaries, &MessageSummary{
			MessageID: detail.Id,
			ThreadID:  detail.ThreadId,
			From:      headerValue(detail, "From"),
			To:        headerValue(detail, "To"),
			Subject:   headerValue(detail, "Subject"),
			Date:      headerValue(detail, "Date"),
			Snippet:   detail.Snippet,
		})
	}
	return summaries, nil
}

// ReadMessage fetches the full message and decodes its text/plain body.
func (c *Client) ReadMessage(ctx context.Context, messageID string) (*Message, error) {
	msg, err := c.service.Users.Messages.Get("me", messageID).
		Context(ctx).
		Format("full").
		Do()
	if err != nil {
		return nil, apierr.FromGoogle("gmail.users.messages.get", err)
	}

	headers := map[string]string{}
	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			headers[h.Name] = h.Value
		}
	}

	return &Message{
		MessageID: msg.Id,
		ThreadID:  msg.ThreadId,
		Labels:    msg.LabelIds,
		Snippet:   msg.Snippet,
		Headers:   headers,
		Body:      extractBody(msg.Payload),
	}, nil
}

// SendMessage sends a new plain-text email.
func (c *Client) SendMessage(ctx context.Context, opts SendOptions) (string, error) {
	var b strings.Builder
	b.WriteString("To: ")
	b.WriteString(opts.To)
	b.WriteString("\r\n")
	if opts.Cc != "" {
		b.WriteString("Cc: ")
		b.WriteString(opts.Cc)
		b.WriteString("\r\n")
	}
	if opts.Bcc != "" {
		b.WriteString("Bcc: ")
		b.WriteString(opts.Bcc)
		b.WriteString("\r\n")
	}
	b.WriteString("Subject: ")
	b.WriteString(encodeRFC2047(opts.Subject))
	b.WriteString("\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("\r\n")
	b.WriteString(opts.Body)

	raw := base64.URLEncoding.EncodeToString([]byte(b.String()))

	sent, err := c.service.Users.Messages.Send("me", &gmail.Message{Raw: raw}).
		Context(ctx).
		Do()
	if err != nil {
		return "", apierr.FromGoogle("gmail.users.messages.send", err)
	}
	return sent.Id, nil
}

// ReplyMessage replies to the sender of an existing message within its
// thread, preserving the References chain.
func (c *Client) ReplyMessage(ctx context.Context, messageID, body string) (string, error) {
	original, err := c.service.Users.Messages.Get("me", messageID).
		Context(ctx).
		Format("metadata").
		MetadataHeaders("From", "Subject", "Message-ID", "References").
		Do()
	if err != nil {
		return "", apierr.FromGoogle("gmail.users.messages.get", err)
	}

	from := headerValue(original, "From")
	if from == "" {
		return "", apierr.New(apierr.KindInvalidArgument, "gmail.users.messages.send",
			fmt.Sprintf("message %s has no From header to reply to", messageID))
	}

	subject := headerValue(original, "Subject")
	if !strings.HasPrefix(strings.ToLower(subject), "re:") {
		subject = "Re: " + subject
	}

	originalMessageID := headerValue(original, "Message-ID")
	references := headerValue(original, "References")
	if references != "" {
		references = references + " " + originalMessageID
	} else {
		references = originalMessageID
	}

	var b strings.Builder
	b.WriteString("To: ")
	b.WriteString(from)
	b.WriteString("\r\n")
	b.WriteString("Subject: ")
	b.WriteString(encodeRFC2047(subject))
	b.WriteString("\r\n")
	if originalMessageID != "" {
		b.WriteString("In-Reply-To: ")
		b.WriteString(originalMessageID)
		b.WriteString("\r\n")
	}
	if references != "" {
		b.WriteString("References: ")
		b.WriteString(references)
		b.WriteString("\r\n")
	}
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)

	raw := base64.URLEncoding.EncodeToString([]byte(b.String()))

	sent, err := c.service.Users.Messages.Send("me", &gmail.Message{
		Raw:      raw,
		ThreadId: original.ThreadId,
	}).Context(ctx).Do()
	if err != nil {
		return "", apierr.FromGoogle("gmail.users.messages.send", err)
	}
	return sent.Id, nil
}

// TrashMessage moves a message to the trash.
func (c *Client) TrashMessage(ctx context.Context, messageID string) error {
	_, err := c.service.Users.Messages.Trash("me", messageID).Context(ctx).Do()
	if err != nil {
		return apierr.FromGoogle("gmail.users.messages.trash", err)
	}
	return nil
}

// ListLabels lists all labels of the account.
func (c *Client) ListLabels(ctx context.Context) ([]*Label, error) {
	result, err := c.service.Users.Labels.List("me").Context(ctx).Do()
	if err != nil {
		return nil, apierr.FromGoogle("gmail.users.labels.list", err)
	}

	labels := make([]*Label, len(result.Labels))
	for i, l := range result.Labels {
		labels[i] = &Label{ID: l.Id, Name: l.Name, Type: l.Type}
	}
	return labels, nil
}

// ModifyLabels adds and removes labels on a message.
func (c *Client) ModifyLabels(ctx context.Context, messageID string, addLabels, removeLabels []string) ([]string, error) {
	result, err := c.service.Users.Messages.Modify("me", messageID, &gmail.ModifyMessageRequest{
		AddLabelIds:    addLabels,
		RemoveLabelIds: removeLabels,
	}).Context(ctx).Do()
	if err != nil {
		return nil, apierr.FromGoogle("gmail.users.messages.modify", err)
	}
	return result.LabelIds, nil
}

// headerValue returns the value of a payload header, or "".
func headerValue(m *gmail.Message, header string) string {
	if m.Payload == nil {
		return ""
	}
	for _, h := range m.Payload.Headers {
		if strings.EqualFold(h.Name, header) {
			return h.Value
		}
	}
	return ""
}

// extractBody decodes the text/plain parts of a message payload.
func extractBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}
	if len(payload.Parts) > 0 {
		var b strings.Builder
		for _, part := range payload.Parts {
			if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
				if decoded, err := decodeBase64(part.Body.Data); err == nil {
					b.Write(decoded)
				}
			}
		}
		return b.String()
	}
	if payload.Body != nil && payload.Body.Data != "" {
		if decoded, err := decodeBase64(payload.Body.Data); err == nil {
			return string(decoded)
		}
	}
	return ""
}

// decodeBase64 decodes Gmail body data, which is base64url encoded but
// occasionally arrives in standard or unpadded form.
func decodeBase64(data string) ([]byte, error) {
	if decoded, err := base64.URLEncoding.DecodeString(data); err == nil {
		return decoded, nil
	}
	if decoded, err := base64.RawURLEncoding.DecodeString(data); err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(data)
}

// encodeRFC2047 encodes a header value when it contains non-ASCII
// characters.
func encodeRFC2047(s string) string {
	for _, r := range s {
		if r > 127 {
			return mime.BEncoding.Encode("UTF-8", s)
		}
	}
	return s
}
