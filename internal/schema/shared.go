package schema

import "regexp"

// Output format names accepted by every tool's response_format field.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// Pagination and listing defaults shared by all listing tools.
const (
	DefaultLimit = 20
	MaxLimit     = 1000

	// MaxOffset keeps offsets within the int range on every platform.
	MaxOffset = 1_000_000
)

var resourceIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// emailPattern is deliberately loose; the API is the final authority on
// addresses, this only rejects obvious non-addresses before any call is made.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)

// FormatField returns the response_format field shared by every tool.
func FormatField() Field {
	return Field{
		Name:        "response_format",
		Description: "Output format: 'markdown' for human-readable or 'json' for machine-readable",
		Type:        TypeString,
		Enum:        []string{FormatMarkdown, FormatJSON},
		Default:     FormatMarkdown,
	}
}

// ListFields returns the pagination fields shared by list/search tools:
// limit (1..1000, default 20), offset (0..1000000, default 0) and
// response_format.
func ListFields() []Field {
	return []Field{
		{
			Name:        "limit",
			Description: "Maximum number of results to return (1-1000)",
			Type:        TypeInt,
			Min:         F(1),
			Max:         F(MaxLimit),
			Default:     DefaultLimit,
		},
		{
			Name:        "offset",
			Description: "Number of results to skip for pagination",
			Type:        TypeInt,
			Min:         F(0),
			Max:         F(MaxOffset),
			Default:     0,
		},
		FormatField(),
	}
}

// ResourceID returns a required Drive-style resource identifier field
// (file, document, spreadsheet, presentation or form ID).
func ResourceID(name, description string) Field {
	return Field{
		Name:        name,
		Description: description,
		Type:        TypeString,
		Required:    true,
		MinLen:      1,
		MaxLen:      200,
		Pattern:     resourceIDPattern,
	}
}

// OptionalResourceID returns an optional Drive-style resource identifier
// field with the same constraints as ResourceID.
func OptionalResourceID(name, description string) Field {
	return Field{
		Name:        name,
		Description: description,
		Type:        TypeString,
		MinLen:      1,
		MaxLen:      200,
		Pattern:     resourceIDPattern,
	}
}

// MessageID returns a required Gmail message identifier field. Gmail IDs
// are hex-ish but undocumented, so only length is constrained.
func MessageID(description string) Field {
	return Field{
		Name:        "message_id",
		Description: description,
		Type:        TypeString,
		Required:    true,
		MinLen:      1,
		MaxLen:      200,
	}
}

// Account returns the optional account selector field shared by every
// tool, naming which authorized Google account to act as.
func Account() Field {
	return Field{
		Name:        "account",
		Description: "Account name (default: 'default'). Used to manage multiple Google accounts",
		Type:        TypeString,
		MinLen:      1,
		MaxLen:      320,
		Default:     "default",
	}
}

// Email returns an email address field constrained by a loose address
// pattern and the RFC 5321 length limit.
func Email(name, description string, required bool) Field {
	return Field{
		Name:        name,
		Description: description,
		Type:        TypeString,
		Required:    required,
		MinLen:      3,
		MaxLen:      320,
		Pattern:     emailPattern,
	}
}
