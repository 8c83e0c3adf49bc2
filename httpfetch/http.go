package httpfetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/skosovsky/preload"
)

// Prefix scopes HTTP settings in the shared preload configuration.
const Prefix = "http_"

// DefaultMaxBodySize is the default response size limit (10 MiB).
const DefaultMaxBodySize = 10 << 20

// defaultUserAgent is the User-Agent header value when the caller sets none.
const defaultUserAgent = "preload-http-retriever/1.0"

// ErrHTTPStatus indicates a non-2xx response. It is always wrapped together with preload.ErrFetch.
var ErrHTTPStatus = errors.New("httpfetch: unexpected HTTP status")

var (
	_ preload.Retriever       = (*Retriever)(nil)
	_ preload.ConfigValidator = (*Retriever)(nil)
)

// Options are the typed "http_" settings.
type Options struct {
	Method       string            `mapstructure:"method"`
	Headers      map[string]string `mapstructure:"headers"`
	Params       map[string]string `mapstructure:"params"`
	Timeout      time.Duration     `mapstructure:"timeout"`
	BearerToken  string            `mapstructure:"bearer_token"`
	MaxBodyBytes int64             `mapstructure:"max_body_bytes"`
}

// ParseOptions scopes cfg with Prefix and decodes it, applying defaults:
// method GET, no timeout beyond the client's, DefaultMaxBodySize.
// Returns preload.ErrConfig for values of the wrong type or an invalid method.
func ParseOptions(cfg map[string]any) (Options, error) {
	var o Options
	if err := preload.Decode(preload.Scope(Prefix, cfg), &o); err != nil {
		return Options{}, err
	}
	o.Method = strings.ToUpper(strings.TrimSpace(o.Method))
	if o.Method == "" {
		o.Method = http.MethodGet
	}
	if strings.ContainsAny(o.Method, " \t\r\n") {
		return Options{}, fmt.Errorf("%w: invalid HTTP method %q", preload.ErrConfig, o.Method)
	}
	if o.Timeout < 0 {
		return Options{}, fmt.Errorf("%w: negative timeout %s", preload.ErrConfig, o.Timeout)
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = DefaultMaxBodySize
	}
	return o, nil
}

// Retriever issues one HTTP request per location and returns the body as text.
type Retriever struct {
	httpClient *http.Client
	userAgent  string
}

// New creates a Retriever. The default client has a 30s timeout and an OpenTelemetry transport.
func New(opts ...Option) *Retriever {
	r := &Retriever{
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ValidateConfig implements preload.ConfigValidator.
func (r *Retriever) ValidateConfig(cfg map[string]any) error {
	_, err := ParseOptions(cfg)
	return err
}

// Retrieve requests location with the scoped method, headers and query params.
// Non-2xx responses return preload.ErrFetch wrapping ErrHTTPStatus.
func (r *Retriever) Retrieve(ctx context.Context, location string, cfg map[string]any) (string, error) {
	o, err := ParseOptions(cfg)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(location)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: invalid URL %q", preload.ErrConfig, location)
	}
	if len(o.Params) > 0 {
		q := u.Query()
		for k, v := range o.Params {
			q.Add(k, v)
		}
		u.RawQuery = q.Encode()
	}
	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, o.Method, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", preload.ErrFetch, err)
	}
	req.Header.Set("User-Agent", r.userAgent)
	if o.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+o.BearerToken)
	}
	for k, v := range o.Headers {
		req.Header.Set(k, v)
	}
	resp, err := r.httpClient.Do(req) // #nosec G107 -- URL is operator-supplied preload location
	if err != nil {
		return "", fmt.Errorf("%w: %w", preload.ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: %w: %s %s", preload.ErrFetch, ErrHTTPStatus, resp.Status, u.Redacted())
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, o.MaxBodyBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %w", preload.ErrFetch, err)
	}
	if int64(len(data)) > o.MaxBodyBytes {
		return "", fmt.Errorf("%w: response body exceeds %d bytes", preload.ErrFetch, o.MaxBodyBytes)
	}
	return string(data), nil
}
