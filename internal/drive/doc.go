// Package drive provides a typed wrapper around the Google Drive v3 API.
//
// File management for the other Workspace services (Sheets, Slides, Forms)
// also funnels through this client, since the Drive API owns deletion and
// listing for every file type.
package drive
