package httpclient

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const (
	// ConnectTimeout bounds how long dialing the remote host may take.
	ConnectTimeout = 10 * time.Second
	// ContentTypeForm is sent on every request; POST bodies are form encoded.
	ContentTypeForm = "application/x-www-form-urlencoded"
	// IdempotencyHeader carries the key that lets the API collapse retried POSTs.
	IdempotencyHeader = "Idempotency-Key"

	defaultRetryWait    = 100 * time.Millisecond
	defaultRetryMaxWait = 2 * time.Second
	debugBodyMaxLen     = 512
)

// Config describes the connection to one API host.
type Config struct {
	BaseURL string
	APIKey  string
	Debug   bool
}

// Option tweaks client construction.
type Option func(*options)

type options struct {
	retryWait         time.Duration
	retryMaxWait      time.Duration
	transport         http.RoundTripper
	idempotencyHeader string
}

// WithRetryWait overrides the backoff bounds between retries.
func WithRetryWait(minWait, maxWait time.Duration) Option {
	return func(o *options) {
		if minWait > 0 {
			o.retryWait = minWait
		}
		if maxWait > 0 {
			o.retryMaxWait = maxWait
		}
	}
}

// WithTransport replaces the default dialing transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) {
		if rt != nil {
			o.transport = rt
		}
	}
}

// WithIdempotencyHeader changes the header name used for POST idempotency keys.
func WithIdempotencyHeader(name string) Option {
	return func(o *options) {
		if name = strings.TrimSpace(name); name != "" {
			o.idempotencyHeader = name
		}
	}
}

// Client adapts resty.Client to a single-host API connection with a fixed auth,
// content type and retry policy. It is safe for concurrent use.
type Client struct {
	client            *resty.Client
	baseURL           string
	idempotencyHeader string
	log               Logger
}

// New validates cfg and builds the underlying resty connection.
func New(cfg Config, log Logger, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	o := options{
		retryWait:         defaultRetryWait,
		retryMaxWait:      defaultRetryMaxWait,
		idempotencyHeader: IdempotencyHeader,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.transport == nil {
		o.transport = newTransport()
	}

	log = ensureLogger(log)
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTransport(o.transport).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", ContentTypeForm).
		SetHeader("Accept", "application/json").
		SetRetryCount(MaxRetry).
		SetRetryWaitTime(o.retryWait).
		SetRetryMaxWaitTime(o.retryMaxWait).
		AddRetryCondition(retryCondition).
		SetLogger(restyLogger{log: log})

	c := &Client{client: rc, baseURL: baseURL, idempotencyHeader: o.idempotencyHeader, log: log}
	if cfg.Debug {
		c.enableTrafficLog()
	}
	return c, nil
}

// newTransport clones the default transport with a bounded connect timeout.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.DialContext = newDialer().DialContext
	return t
}

func newDialer() *net.Dialer {
	return &net.Dialer{
		Timeout:   ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}
}

// BaseURL returns the host URL every path is resolved against.
func (c *Client) BaseURL() string { return c.baseURL }

// ExecuteRequest issues one API call. POST params are sent as a form body, GET and
// DELETE params as the query string. Every POST carries one idempotency key that
// is reused by all of its retries, so a retried create is applied at most once. Non-2xx responses come back as an Envelope;
// only failures to get any response are returned as *TransportError.
func (c *Client) ExecuteRequest(ctx context.Context, verb Verb, path string, params url.Values) (*Envelope, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req := c.client.R().SetContext(ctx)

	var (
		resp *resty.Response
		err  error
	)
	switch verb {
	case Get:
		resp, err = withQuery(req, params).Get(path)
	case Delete:
		resp, err = withQuery(req, params).Delete(path)
	case Post:
		req.SetHeader(c.idempotencyHeader, uuid.NewString())
		if len(params) > 0 {
			req.SetBody(params.Encode())
		}
		resp, err = req.Post(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVerb, string(verb))
	}
	if err != nil {
		return nil, &TransportError{Verb: verb, Path: path, Attempts: req.Attempt, Err: err}
	}
	return NewEnvelope(resp.StatusCode(), resp.Body()), nil
}

func withQuery(req *resty.Request, params url.Values) *resty.Request {
	if len(params) > 0 {
		req.SetQueryParamsFromValues(params)
	}
	return req
}

// enableTrafficLog logs each attempt's outcome at debug level. Headers are left
// out so the credential never reaches the log.
func (c *Client) enableTrafficLog() {
	c.client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		c.log.DebugObj("api response", "http_traffic", map[string]any{
			"method":     resp.Request.Method,
			"url":        redactQuery(resp.Request.URL),
			"status":     resp.StatusCode(),
			"attempt":    resp.Request.Attempt,
			"elapsed_ms": resp.Time().Milliseconds(),
			"body":       bodySnippet(resp.Body()),
		})
		return nil
	})
	c.client.OnError(func(req *resty.Request, err error) {
		c.log.DebugObj("api request failed", "http_traffic", map[string]any{
			"method":  req.Method,
			"url":     redactQuery(req.URL),
			"attempt": req.Attempt,
			"error":   err.Error(),
		})
	})
}

// redactQuery drops the query string; list filters such as email identify customers.
func redactQuery(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		if i := strings.IndexByte(raw, '?'); i >= 0 {
			return raw[:i]
		}
		return raw
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

func bodySnippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > debugBodyMaxLen {
		return s[:debugBodyMaxLen] + "..."
	}
	return s
}

// restyLogger routes resty's internal warnings (retry attempts, etc.) to Logger.
type restyLogger struct {
	log Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.log.ErrorObj("http client error", "resty", fmt.Sprintf(format, v...))
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.log.WarnObj("http client warning", "resty", fmt.Sprintf(format, v...))
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.log.DebugObj("http client debug", "resty", fmt.Sprintf(format, v...))
}
