package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/veranek/workspace-mcp/internal/apierr"
	"github.com/veranek/workspace-mcp/internal/cache"
	"github.com/veranek/workspace-mcp/internal/format"
	"github.com/veranek/workspace-mcp/internal/logging"
	"github.com/veranek/workspace-mcp/internal/ratelimit"
	"github.com/veranek/workspace-mcp/internal/schema"
)

// Recorder receives per-invocation observations. Implemented by the
// instrumentation package; a nil Recorder disables recording.
type Recorder interface {
	RecordToolCall(ctx context.Context, tool, service, status string, duration time.Duration)
	RecordGoogleAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration)
}

// Result is the outcome of a single tool invocation. IsError results are
// returned to the model as tool errors rather than protocol failures.
type Result struct {
	Text    string
	IsError bool
	Kind    apierr.Kind
}

// Options configure a Dispatcher. Zero values fall back to the package
// defaults of each collaborator.
type Options struct {
	Cache          *cache.Cache
	Gate           *ratelimit.Gate
	Logger         *slog.Logger
	Recorder       Recorder
	CharacterLimit int
	CallTimeout    time.Duration
	RetryAttempts  int
	ReadOnly       bool
}

// Dispatcher runs every tool call through the same pipeline: lookup,
// write gating, validation, cache probe, rate limiting, the handler with
// bounded retry, then truncation.
type Dispatcher struct {
	registry  *Registry
	cache     *cache.Cache
	gate      *ratelimit.Gate
	logger    *slog.Logger
	recorder  Recorder
	charLimit int
	timeout   time.Duration
	attempts  int
	readOnly  bool
}

// New builds a Dispatcher over the given registry.
func New(registry *Registry, opts Options) *Dispatcher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	charLimit := opts.CharacterLimit
	if charLimit <= 0 {
		charLimit = format.DefaultCharacterLimit
	}
	timeout := opts.CallTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	attempts := opts.RetryAttempts
	if attempts < 1 {
		attempts = 3
	}
	return &Dispatcher{
		registry:  registry,
		cache:     opts.Cache,
		gate:      opts.Gate,
		logger:    logger,
		recorder:  opts.Recorder,
		charLimit: charLimit,
		timeout:   timeout,
		attempts:  attempts,
		readOnly:  opts.ReadOnly,
	}
}

// ReadOnly reports whether write tools are disabled.
func (d *Dispatcher) ReadOnly() bool {
	return d.readOnly
}

// Dispatch runs the named tool with raw argument values as decoded from
// the MCP request. It never returns a Go error: every failure becomes an
// IsError Result carrying a remediation hint.
func (d *Dispatcher) Dispatch(ctx context.Context, tool string, args map[string]any) (result Result) {
	start := time.Now()
	logger := logging.WithTool(d.logger, tool)

	// Deferred in this order so the panic handler has already filled in
	// result by the time the observation defer reads it.
	defer func() {
		status := logging.StatusSuccess
		if result.IsError {
			status = logging.StatusError
		}
		duration := time.Since(start)
		reg, _ := d.registry.Lookup(tool)
		if d.recorder != nil {
			d.recorder.RecordToolCall(ctx, tool, reg.Service, status, duration)
		}
		logger.Debug("tool call finished",
			logging.Status(status),
			slog.Duration(logging.KeyDuration, duration))
	}()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("tool handler panicked", slog.Any("panic", r))
			result = d.errorResult(apierr.KindUnknown, fmt.Sprintf("internal error in tool %q", tool))
		}
	}()

	reg, ok := d.registry.Lookup(tool)
	if !ok {
		return d.errorResult(apierr.KindUnknownTool,
			fmt.Sprintf("unknown tool %q. Available tools: %s", tool, strings.Join(d.registry.Names(), ", ")))
	}

	if d.readOnly && !reg.Annotations.ReadOnly {
		return d.errorResult(apierr.KindPermissionDenied,
			fmt.Sprintf("tool %q modifies data and the server is running in read-only mode", tool))
	}

	values, err := reg.Schema.Validate(args)
	if err != nil {
		return d.errorResult(apierr.KindValidation, err.Error())
	}
	if account := values.String("account"); account != "" {
		// Hashed so log lines correlate per account without exposing the
		// address itself.
		logger = logger.With(logging.UserHash(account))
	}

	cacheable := reg.Annotations.ReadOnly && reg.Annotations.Idempotent
	var key string
	if cacheable && d.cache != nil {
		key = cache.Key(tool, args)
		if cached, ok := d.cache.Get(key); ok {
			if text, ok := cached.(string); ok {
				logger.Debug("cache hit")
				return Result{Text: text}
			}
		}
	}

	text, err := d.invoke(ctx, reg, values)
	if err != nil {
		kind := apierr.KindOf(err)
		logger.Warn("tool call failed",
			logging.Service(reg.Service),
			logging.Kind(string(kind)),
			logging.Err(err))
		return d.errorResult(kind, err.Error())
	}

	text, truncated := format.Truncate(text, d.charLimit)
	if truncated {
		logger.Debug("response truncated")
	}
	if cacheable && d.cache != nil {
		d.cache.Set(key, text)
	}
	return Result{Text: text}
}

// invoke runs the handler with rate limiting, a per-attempt timeout and
// exponential backoff on transient failures.
func (d *Dispatcher) invoke(ctx context.Context, reg Registration, values schema.Values) (string, error) {
	operation := func() (string, error) {
		if d.gate != nil {
			if err := d.gate.Acquire(ctx, reg.Service); err != nil {
				return "", backoff.Permanent(err)
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()

		attemptStart := time.Now()
		text, err := reg.Handler(callCtx, values)
		if d.recorder != nil {
			status := logging.StatusSuccess
			if err != nil {
				status = logging.StatusError
			}
			d.recorder.RecordGoogleAPIOperation(ctx, reg.Service, reg.Name, status, time.Since(attemptStart))
		}
		if err != nil {
			if !apierr.Retryable(err) {
				return "", backoff.Permanent(err)
			}
			return "", err
		}
		return text, nil
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = time.Second
	expo.Multiplier = 2

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(expo),
		backoff.WithMaxTries(uint(d.attempts)))
}

// errorResult renders a failure as a tool error. Error text is subject to
// the same character budget as successful responses.
func (d *Dispatcher) errorResult(kind apierr.Kind, message string) Result {
	text := "Error: " + message
	if hint := apierr.Hint(kind); hint != "" {
		text += "\n" + hint
	}
	text, _ = format.Truncate(text, d.charLimit)
	return Result{Text: text, IsError: true, Kind: kind}
}
