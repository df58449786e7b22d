package gmail

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	gmail "google.golang.org/api/gmail/v1"
)

func TestHeaderValue(t *testing.T) {
	msg := &gmail.Message{
		Payload: &gmail.MessagePart{
			Headers: []*gmail.MessagePartHeader{
				{Name: "From", Value: "alice@example.com"},
				{Name: "Subject", Value: "Quarterly report"},
			},
		},
	}

	assert.Equal(t, "alice@example.com", headerValue(msg, "From"))
	assert.Equal(t, "Quarterly report", headerValue(msg, "subject"))
	assert.Empty(t, headerValue(msg, "To"))
	assert.Empty(t, headerValue(&gmail.Message{}, "From"))
}

func TestExtractBodySinglePart(t *testing.T) {
	payload := &gmail.MessagePart{
		Body: &gmail.MessagePartBody{
			Data: base64.URLEncoding.EncodeToString([]byte("plain body")),
		},
	}
	assert.Equal(t, "plain body", extractBody(payload))
}

func TestExtractBodyMultipart(t *testing.T) {
	payload := &gmail.MessagePart{
		Parts: []*gmail.MessagePart{
			{
				MimeType: "text/html",
				Body: &gmail.MessagePartBody{
					Data: base64.URLEncoding.EncodeToString([]byte("<p>html</p>")),
				},
			},
			{
				MimeType: "text/plain",
				Body: &gmail.MessagePartBody{
					Data: base64.URLEncoding.EncodeToString([]byte("plain text part")),
				},
			},
		},
	}
	assert.Equal(t, "plain text part", extractBody(payload))
}

func TestExtractBodyEmpty(t *testing.T) {
	assert.Empty(t, extractBody(nil))
	assert.Empty(t, extractBody(&gmail.MessagePart{}))
}

func TestDecodeBase64Variants(t *testing.T) {
	payload := []byte("some message body")

	for _, encoded := range []string{
		base64.URLEncoding.EncodeToString(payload),
		base64.RawURLEncoding.EncodeToString(payload),
		base64.StdEncoding.EncodeToString(payload),
	} {
		decoded, err := decodeBase64(encoded)
		assert.NoError(t, err)
		assert.Equal(t, payload, decoded)
	}
}

func TestEncodeRFC2047(t *testing.T) {
	assert.Equal(t, "plain subject", encodeRFC2047("plain subject"))

	encoded := encodeRFC2047("Grüße aus Köln")
	assert.Contains(t, encoded, "=?UTF-8?")
	assert.NotContains(t, encoded, "ü")
}
