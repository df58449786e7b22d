package gmail

// MessageSummary is the metadata view of a message used in search results.
type MessageSummary struct {
	MessageID string `json:"message_id"`
	ThreadID  string `json:"thread_id"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Subject   string `json:"subject,omitempty"`
	Date      string `json:"date,omitempty"`
	Snippet   string `json:"snippet,omitempty"`
}

// Message is the full view of a message including its decoded body.
type Message struct {
	MessageID string            `json:"message_id"`
	ThreadID  string            `json:"thread_id"`
	Labels    []string          `json:"labels,omitempty"`
	Snippet   string            `json:"snippet,omitempty"`
	Headers   map[string]string `json:"headers,omitempty"`
	Body      string            `json:"body,omitempty"`
}

// Label is one Gmail label.
type Label struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// SendOptions describe an outgoing message.
type SendOptions struct {
	To      string
	Subject string
	Body    string
	Cc      string
	Bcc     string
}

// SearchOptions control a message search.
type SearchOptions struct {
	// Query is a Gmail search expression, e.g. "from:alice is:unread"
	Query string

	// LabelIDs restricts results to messages carrying all given labels
	LabelIDs []string

	// MaxResults caps the result set (max: 500)
	MaxResults int
}
