// Package remote is the HTTP client for the catalog/auth service.
package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/xenking/storefront/internal/domain/auth"
	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/pkg/httpmiddleware"
)

// Compile-time checks ensuring Client satisfies the domain interfaces.
var (
	_ product.Catalog = (*Client)(nil)
	_ auth.Service    = (*Client)(nil)
)

// ErrNetwork is returned when the service could not be reached or its
// answer could not be used.
var ErrNetwork = errors.New("remote service unavailable")

// StatusError reports a non-2xx answer to a catalog request.
type StatusError struct {
	Op   string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Code)
}

const maxBodySize = 1 << 20

// successMarker is the wording the service uses for accepted register and
// login attempts.
const successMarker = "successful"

// Config holds the remote service location and request timeout.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

type options struct {
	httpClient     *http.Client
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// Option configures a Client.
type Option func(*options)

// WithHTTPClient replaces the instrumented default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithTracerProvider sets the tracer provider for spans and transport
// instrumentation.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

// WithMeterProvider sets the meter provider for transport instrumentation.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meterProvider = mp }
}

// Client calls the catalog and auth endpoints of the remote service.
// No credentials or tokens are attached to any request.
type Client struct {
	base   string
	http   *http.Client
	tracer trace.Tracer
}

// New creates a Client for the service at cfg.BaseURL.
func New(cfg Config, opts ...Option) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("base url %q: scheme must be http or https", cfg.BaseURL)
	}

	o := options{
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{
			Timeout: cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport,
				otelhttp.WithTracerProvider(o.tracerProvider),
				otelhttp.WithMeterProvider(o.meterProvider),
			),
		}
	}

	return &Client{
		base:   strings.TrimRight(cfg.BaseURL, "/"),
		http:   o.httpClient,
		tracer: o.tracerProvider.Tracer("storefront/remote"),
	}, nil
}

// ListProducts fetches the product listing.
func (c *Client) ListProducts(ctx context.Context) (_ []product.Product, rerr error) {
	ctx, span := c.tracer.Start(ctx, "remote.ListProducts")
	defer func() { endSpan(span, rerr) }()

	status, body, err := c.do(ctx, http.MethodGet, "/products", nil)
	if err != nil {
		return nil, err
	}
	if !isSuccess(status) {
		return nil, &StatusError{Op: "list products", Code: status}
	}

	products, err := decodeProducts(jx.DecodeBytes(body))
	if err != nil {
		return nil, errors.Wrapf(ErrNetwork, "list products: %v", err)
	}
	span.SetAttributes(attribute.Int("products.count", len(products)))
	return products, nil
}

// SeedProducts asks the service to populate its catalog with demo data.
// The response body is ignored.
func (c *Client) SeedProducts(ctx context.Context) (rerr error) {
	ctx, span := c.tracer.Start(ctx, "remote.SeedProducts")
	defer func() { endSpan(span, rerr) }()

	status, _, err := c.do(ctx, http.MethodPost, "/products/add-dummy-data", []byte("{}"))
	if err != nil {
		return err
	}
	if !isSuccess(status) {
		return &StatusError{Op: "seed products", Code: status}
	}
	return nil
}

// Register submits credentials to the registration endpoint.
func (c *Client) Register(ctx context.Context, creds auth.Credentials) (auth.Outcome, error) {
	return c.authenticate(ctx, "register", creds)
}

// Login submits credentials to the login endpoint.
func (c *Client) Login(ctx context.Context, creds auth.Credentials) (auth.Outcome, error) {
	return c.authenticate(ctx, "login", creds)
}

// authenticate posts credentials and classifies the returned message. The
// HTTP status is not consulted: the service reports refusals through the
// message text.
func (c *Client) authenticate(ctx context.Context, op string, creds auth.Credentials) (_ auth.Outcome, rerr error) {
	ctx, span := c.tracer.Start(ctx, "remote."+op)
	defer func() { endSpan(span, rerr) }()

	status, body, err := c.do(ctx, http.MethodPost, "/users/"+op, encodeCredentials(creds))
	if err != nil {
		return auth.Outcome{}, err
	}
	span.SetAttributes(attribute.Int("http.status", status))

	msg, err := decodeMessage(jx.DecodeBytes(body))
	if err != nil {
		return auth.Outcome{}, errors.Wrapf(ErrNetwork, "%s: %v", op, err)
	}

	out := classify(msg)
	span.SetAttributes(attribute.String("auth.verdict", out.Verdict.String()))
	return out, nil
}

// classify maps the service's message wording to a verdict. It is the only
// place that depends on that wording.
func classify(message string) auth.Outcome {
	if strings.Contains(message, successMarker) {
		return auth.Accepted(message)
	}
	return auth.Rejected(message)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, r)
	if err != nil {
		return 0, nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := httpmiddleware.RequestIDFromContext(ctx); id != "" {
		req.Header.Set(httpmiddleware.HeaderRequestID, id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, errors.Wrapf(ErrNetwork, "%s %s: %v", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return 0, nil, errors.Wrapf(ErrNetwork, "read %s %s: %v", method, path, err)
	}
	return resp.StatusCode, payload, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
