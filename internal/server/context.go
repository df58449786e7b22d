package server

import (
	"context"
	"sync"

	"github.com/veranek/workspace-mcp/internal/apierr"
	"github.com/veranek/workspace-mcp/internal/docs"
	"github.com/veranek/workspace-mcp/internal/drive"
	"github.com/veranek/workspace-mcp/internal/forms"
	"github.com/veranek/workspace-mcp/internal/gmail"
	"github.com/veranek/workspace-mcp/internal/google"
	"github.com/veranek/workspace-mcp/internal/sheets"
	"github.com/veranek/workspace-mcp/internal/slides"
)

// Context holds the per-account Google API clients shared by all tools.
// Clients are created lazily on first use and cached per account.
type Context struct {
	ctx      context.Context
	cancel   context.CancelFunc
	provider google.TokenProvider

	mu            sync.RWMutex
	driveClients  map[string]*drive.Client
	docsClients   map[string]*docs.Client
	sheetsClients map[string]*sheets.Client
	slidesClients map[string]*slides.Client
	formsClients  map[string]*forms.Client
	gmailClients  map[string]*gmail.Client
	shutdown      bool
}

// NewContext creates a new server context. The provider supplies OAuth
// tokens; a nil provider falls back to file-based token storage.
func NewContext(ctx context.Context, provider google.TokenProvider) *Context {
	shutdownCtx, cancel := context.WithCancel(ctx)
	if provider == nil {
		provider = google.NewFileTokenProvider()
	}
	return &Context{
		ctx:           shutdownCtx,
		cancel:        cancel,
		provider:      provider,
		driveClients:  make(map[string]*drive.Client),
		docsClients:   make(map[string]*docs.Client),
		sheetsClients: make(map[string]*sheets.Client),
		slidesClients: make(map[string]*slides.Client),
		formsClients:  make(map[string]*forms.Client),
		gmailClients:  make(map[string]*gmail.Client),
	}
}

// Context returns the lifetime context of the server.
func (sc *Context) Context() context.Context {
	return sc.ctx
}

// Shutdown cancels the server context and releases cached clients.
func (sc *Context) Shutdown() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.shutdown {
		return
	}
	sc.shutdown = true
	sc.cancel()
}

func noTokenError(service, account string) error {
	return apierr.New(apierr.KindPermissionDenied, service,
		"no Google OAuth token for account \""+account+"\". Run the auth command first")
}

// DriveClient returns the Drive client for an account, creating it on
// first use.
func (sc *Context) DriveClient(account string) (*drive.Client, error) {
	sc.mu.RLock()
	client, ok := sc.driveClients[account]
	sc.mu.RUnlock()
	if ok {
		return client, nil
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	if client, ok := sc.driveClients[account]; ok {
		return client, nil
	}
	if !sc.provider.HasTokenForAccount(account) {
		return nil, noTokenError("drive", account)
	}
	client, err := drive.NewClientForAccount(sc.ctx, account, sc.provider)
	if err != nil {
		return nil, err
	}
	sc.driveClients[account] = client
	return client, nil
}

// SetDriveClient sets the Drive client for an account. Used by tests.
func (sc *Context) SetDriveClient(account string, client *drive.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.driveClients[account] = client
}

// DocsClient returns the Docs client for an account, creating it on
// first use.
func (sc *Context) DocsClient(account string) (*docs.Client, error) {
	sc.mu.RLock()
	client, ok := sc.docsClients[account]
	sc.mu.RUnlock()
	if ok {
		return client, nil
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	if client, ok := sc.docsClients[account]; ok {
		return client, nil
	}
	if !sc.provider.HasTokenForAccount(account) {
		return nil, noTokenError("docs", account)
	}
	client, err := docs.NewClientForAccount(sc.ctx, account, sc.provider)
	if err != nil {
		return nil, err
	}
	sc.docsClients[account] = client
	return client, nil
}

// SetDocsClient sets the Docs client for an account. Used by tests.
func (sc *Context) SetDocsClient(account string, client *docs.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.docsClients[account] = client
}

// SheetsClient returns the Sheets client for an account, creating it on
// first use.
func (sc *Context) SheetsClient(account string) (*sheets.Client, error) {
	sc.mu.RLock()
	client, ok := sc.sheetsClients[account]
	sc.mu.RUnlock()
	if ok {
		return client, nil
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	if client, ok := sc.sheetsClients[account]; ok {
		return client, nil
	}
	if !sc.provider.HasTokenForAccount(account) {
		return nil, noTokenError("sheets", account)
	}
	client, err := sheets.NewClientForAccount(sc.ctx, account, sc.provider)
	if err != nil {
		return nil, err
	}
	sc.sheetsClients[account] = client
	return client, nil
}

// SetSheetsClient sets the Sheets client for an account. Used by tests.
func (sc *Context) SetSheetsClient(account string, client *sheets.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.sheetsClients[account] = client
}

// SlidesClient returns the Slides client for an account, creating it on
// first use.
func (sc *Context) SlidesClient(account string) (*slides.Client, error) {
	sc.mu.RLock()
	client, ok := sc.slidesClients[account]
	sc.mu.RUnlock()
	if ok {
		return client, nil
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	if client, ok := sc.slidesClients[account]; ok {
		return client, nil
	}
	if !sc.provider.HasTokenForAccount(account) {
		return nil, noTokenError("slides", account)
	}
	client, err := slides.NewClientForAccount(sc.ctx, account, sc.provider)
	if err != nil {
		return nil, err
	}
	sc.slidesClients[account] = client
	return client, nil
}

// SetSlidesClient sets the Slides client for an account. Used by tests.
func (sc *Context) SetSlidesClient(account string, client *slides.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.slidesClients[account] = client
}

// FormsClient returns the Forms client for an account, creating it on
// first use.
func (sc *Context) FormsClient(account string) (*forms.Client, error) {
	sc.mu.RLock()
	client, ok := sc.formsClients[account]
	sc.mu.RUnlock()
	if ok {
		return client, nil
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	if client, ok := sc.formsClients[account]; ok {
		return client, nil
	}
	if !sc.provider.HasTokenForAccount(account) {
		return nil, noTokenError("forms", account)
	}
	client, err := forms.NewClientForAccount(sc.ctx, account, sc.provider)
	if err != nil {
		return nil, err
	}
	sc.formsClients[account] = client
	return client, nil
}

// SetFormsClient sets the Forms client for an account. Used by tests.
func (sc *Context) SetFormsClient(account string, client *forms.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.formsClients[account] = client
}

// GmailClient returns the Gmail client for an account, creating it on
// first use.
func (sc *Context) GmailClient(account string) (*gmail.Client, error) {
	sc.mu.RLock()
	client, ok := sc.gmailClients[account]
	sc.mu.RUnlock()
	if ok {
		return client, nil
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	if client, ok := sc.gmailClients[account]; ok {
		return client, nil
	}
	if !sc.provider.HasTokenForAccount(account) {
		return nil, noTokenError("gmail", account)
	}
	client, err := gmail.NewClientForAccount(sc.ctx, account, sc.provider)
	if err != nil {
		return nil, err
	}
	sc.gmailClients[account] = client
	return client, nil
}

// SetGmailClient sets the Gmail client for an account. Used by tests.
func (sc *Context) SetGmailClient(account string, client *gmail.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.gmailClients[account] = client
}
