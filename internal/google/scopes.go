package google

// DefaultOAuthScopes are the Google OAuth scopes required for full
// Workspace tool functionality.
//
// The scopes provide access to:
//   - Google Drive: full access (also backs Sheets, Slides and Forms
//     file management)
//   - Google Docs: read and write
//   - Google Sheets: read and write
//   - Google Slides: read and write
//   - Google Forms: manage forms and read responses
//   - Gmail: read, modify, send
var DefaultOAuthScopes = []string{
	// OpenID Connect scopes (required for user info)
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",

	// Google Drive scope
	"https://www.googleapis.com/auth/drive",

	// Google Docs scope
	"https://www.googleapis.com/auth/documents",

	// Google Sheets scope
	"https://www.googleapis.com/auth/spreadsheets",

	// Google Slides scope
	"https://www.googleapis.com/auth/presentations",

	// Google Forms scopes
	"https://www.googleapis.com/auth/forms.body",
	"https://www.googleapis.com/auth/forms.responses.readonly",

	// Gmail scopes
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/gmail.modify",
	"https://www.googleapis.com/auth/gmail.send",
}
