// Package registry implements the remote CNPJ registry client: a single
// HTTPS GET per lookup, outcome classification, and a fixed-interval
// wait-and-retry rule for rate limiting.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rafaelsouza280292/consulta-cnpj/internal/cnpj"
	"github.com/rafaelsouza280292/consulta-cnpj/internal/log"
	"github.com/rafaelsouza280292/consulta-cnpj/internal/pubsub"
)

const (
	// DefaultBaseURL is the public cnpja registry endpoint.
	DefaultBaseURL = "https://open.cnpja.com"
	// DefaultRetryWait is the fixed pause before retrying a rate-limited
	// lookup.
	DefaultRetryWait = 60 * time.Second
	// DefaultTimeout bounds a single HTTP attempt. The retry wait is not
	// part of this budget.
	DefaultTimeout = 30 * time.Second
)

// Sleeper suspends execution for rate-limit waits. Inject a stub in tests
// to avoid real wall-clock delays.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// RealSleeper blocks on a timer, honoring context cancellation.
type RealSleeper struct{}

// Sleep waits for d or until ctx is cancelled.
func (RealSleeper) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Notice is a transient, non-fatal message emitted while a lookup is in
// flight (currently only rate-limit waits). Notices are informational:
// the lookup continues and eventually resolves on its own.
type Notice struct {
	Code    string
	Wait    time.Duration
	Attempt int
	Message string
}

// Client performs registry lookups. At most one lookup is in flight per
// user action; the client holds no per-lookup state.
type Client struct {
	httpClient *http.Client
	baseURL    string
	retryWait  time.Duration
	sleeper    Sleeper
	notices    *pubsub.Broker[Notice]
	tracer     trace.Tracer
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL points the client at a different registry endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithRetryWait overrides the fixed rate-limit wait.
func WithRetryWait(d time.Duration) Option {
	return func(c *Client) { c.retryWait = d }
}

// WithSleeper injects the wait dependency (stubbed in tests).
func WithSleeper(s Sleeper) Option {
	return func(c *Client) { c.sleeper = s }
}

// WithTracer overrides the tracer used for lookup spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// NewClient creates a registry client with production defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    DefaultBaseURL,
		retryWait:  DefaultRetryWait,
		sleeper:    RealSleeper{},
		notices:    pubsub.NewBroker[Notice](),
		tracer:     otel.Tracer("consulta-cnpj/registry"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Notices returns the broker over which rate-limit notices are published.
func (c *Client) Notices() *pubsub.Broker[Notice] {
	return c.notices
}

// Close releases the notice broker.
func (c *Client) Close() {
	c.notices.Close()
}

// Lookup fetches the registry record for a canonical 14-digit code.
//
// Rate-limited attempts (429) are retried after a fixed wait, with no
// retry cap; cancel the context to abandon a lookup. Every other outcome
// is terminal and returned as a *Failure.
func (c *Client) Lookup(ctx context.Context, code string) (*Record, error) {
	if _, err := cnpj.Validate(code); err != nil {
		// Precondition failure: no network call is made.
		return nil, &Failure{
			Kind:    KindInvalidInput,
			Message: "CNPJ inválido. Digite 14 dígitos numéricos.",
		}
	}

	requestID := uuid.NewString()
	ctx, span := c.tracer.Start(ctx, "registry.lookup",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("cnpj.code", code),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	log.Debug(log.CatRegistry, "Lookup started", "code", code, "requestID", requestID)

	for attempt := 1; ; attempt++ {
		record, rateLimited, err := c.attempt(ctx, code)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			log.ErrorErr(log.CatRegistry, "Lookup failed", err,
				"code", code, "requestID", requestID, "attempt", attempt)
			return nil, err
		}
		if !rateLimited {
			span.SetAttributes(attribute.Int("lookup.attempts", attempt))
			log.Info(log.CatRegistry, "Lookup succeeded",
				"code", code, "requestID", requestID, "attempt", attempt)
			return record, nil
		}

		span.AddEvent("rate_limited", trace.WithAttributes(
			attribute.Int("attempt", attempt),
		))
		notice := Notice{
			Code:    code,
			Wait:    c.retryWait,
			Attempt: attempt,
			Message: fmt.Sprintf("Limite de requisições atingido. Aguardando %ds para tentar novamente...", int(c.retryWait.Seconds())),
		}
		c.notices.Publish(pubsub.CreatedEvent, notice)
		log.Warn(log.CatRegistry, "Rate limited, waiting",
			"code", code, "requestID", requestID, "attempt", attempt, "wait", c.retryWait)

		if err := c.sleeper.Sleep(ctx, c.retryWait); err != nil {
			return nil, fmt.Errorf("consulta interrompida durante espera: %w", err)
		}
	}
}

// attempt issues one GET and classifies the response. The bool result
// reports whether the attempt was rate limited and should be retried.
func (c *Client) attempt(ctx context.Context, code string) (*Record, bool, error) {
	url := fmt.Sprintf("%s/office/%s", c.baseURL, code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, &Failure{
			Kind:    KindConnectionError,
			Message: fmt.Sprintf("Erro de conexão: %v", err),
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, &Failure{
			Kind:    KindConnectionError,
			Message: fmt.Sprintf("Erro de conexão: %v", err),
		}
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		var record Record
		if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
			return nil, false, &Failure{
				Kind:    KindRemoteError,
				Message: fmt.Sprintf("Erro ao consultar %s: %v", code, err),
			}
		}
		return &record, false, nil
	case http.StatusNotFound:
		return nil, false, &Failure{
			Kind:    KindNotFound,
			Message: fmt.Sprintf("CNPJ %s não encontrado ou inválido na base da API.", code),
		}
	case http.StatusTooManyRequests:
		return nil, true, nil
	default:
		return nil, false, &Failure{
			Kind:    KindRemoteError,
			Message: fmt.Sprintf("Erro ao consultar %s: Status %d", code, resp.StatusCode),
		}
	}
}
