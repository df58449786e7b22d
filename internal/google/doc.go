// Package google provides OAuth2 authentication and token management for
// the Google Workspace APIs.
//
// Tokens are stored per account on disk, suitable for the STDIO transport
// where the server runs as the user. The TokenProvider interface allows
// other token sources to be plugged in.
package google
