package restclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/restbase/codec"
	"github.com/kbukum/restbase/logger"
	"github.com/kbukum/restbase/observability"
	"github.com/kbukum/restbase/version"
)

// RequestHook mutates an outgoing request after it is built and before it
// is sent. Hooks run synchronously on the calling goroutine, in order.
type RequestHook func(req *http.Request)

// Client sends JSON requests to a single base URL. It is safe for
// concurrent use; its configuration never changes after New.
type Client struct {
	baseURL     *url.URL
	timeout     time.Duration
	userAgent   string
	headers     http.Header
	statusCheck bool

	transport func() Doer
	created   atomic.Bool
	injected  bool

	log     *logger.Logger
	tracer  trace.Tracer
	metrics *observability.ClientMetrics
}

// New creates a Client. The base URL must be absolute and the timeout
// must not be negative.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, configError("parse base url: %v", err)
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.WithComponent("restclient")
	}
	metrics, err := observability.NewClientMetrics(o.meter)
	if err != nil {
		return nil, configError("create metrics: %v", err)
	}

	headers := make(http.Header, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers.Set(k, v)
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = version.UserAgent()
	}

	c := &Client{
		baseURL:     base,
		timeout:     cfg.Timeout,
		userAgent:   userAgent,
		headers:     headers,
		statusCheck: cfg.StatusCheck,
		injected:    o.doer != nil,
		log:         o.log,
		tracer:      observability.Tracer(o.tracer),
		metrics:     metrics,
	}
	c.transport = sync.OnceValue(func() Doer {
		c.created.Store(true)
		if o.doer != nil {
			return o.doer
		}
		c.log.Debug("creating transport", logger.Fields("base_url", c.baseURL.String()))
		return &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()}
	})
	return c, nil
}

// BaseURL returns a copy of the base URL.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// Timeout returns the per-call timeout, zero when unlimited.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Close releases idle connections of the transport the client created.
// It does nothing when the transport was injected or never used.
func (c *Client) Close() error {
	if c.injected || !c.created.Load() {
		return nil
	}
	if ci, ok := c.transport().(interface{ CloseIdleConnections() }); ok {
		ci.CloseIdleConnections()
	}
	return nil
}

// Send issues a request and waits for the response headers. A non-2xx
// status is not an error. The caller must close the response body.
func (c *Client) Send(ctx context.Context, method, path string, content any, hooks ...RequestHook) (*http.Response, error) {
	return c.SendAsync(ctx, method, path, content, hooks...).Wait()
}

// SendAsync builds the request, runs the hooks and returns immediately;
// the exchange completes on the returned Future. Build errors complete
// the Future without sending anything.
func (c *Client) SendAsync(ctx context.Context, method, path string, content any, hooks ...RequestHook) *Future[*http.Response] {
	req, err := c.newRequest(ctx, method, path, content)
	if err != nil {
		return failed[*http.Response](err)
	}
	for _, hook := range hooks {
		if hook != nil {
			hook(req)
		}
	}

	// The deadline starts once the hooks are done.
	cancel := context.CancelFunc(func() {})
	if c.timeout > 0 {
		var callCtx context.Context
		callCtx, cancel = context.WithTimeout(req.Context(), c.timeout)
		req = req.WithContext(callCtx)
	}
	return goFuture(func() (*http.Response, error) {
		return c.transmit(req, cancel)
	})
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, hooks ...RequestHook) (*http.Response, error) {
	return c.Send(ctx, http.MethodGet, path, nil, hooks...)
}

// GetAsync issues a GET request without waiting.
func (c *Client) GetAsync(ctx context.Context, path string, hooks ...RequestHook) *Future[*http.Response] {
	return c.SendAsync(ctx, http.MethodGet, path, nil, hooks...)
}

// Post issues a POST request with content encoded as JSON.
func (c *Client) Post(ctx context.Context, path string, content any, hooks ...RequestHook) (*http.Response, error) {
	return c.Send(ctx, http.MethodPost, path, content, hooks...)
}

// PostAsync issues a POST request without waiting.
func (c *Client) PostAsync(ctx context.Context, path string, content any, hooks ...RequestHook) *Future[*http.Response] {
	return c.SendAsync(ctx, http.MethodPost, path, content, hooks...)
}

// Put issues a PUT request with content encoded as JSON.
func (c *Client) Put(ctx context.Context, path string, content any, hooks ...RequestHook) (*http.Response, error) {
	return c.Send(ctx, http.MethodPut, path, content, hooks...)
}

// PutAsync issues a PUT request without waiting.
func (c *Client) PutAsync(ctx context.Context, path string, content any, hooks ...RequestHook) *Future[*http.Response] {
	return c.SendAsync(ctx, http.MethodPut, path, content, hooks...)
}

// Patch issues a PATCH request with content encoded as JSON.
func (c *Client) Patch(ctx context.Context, path string, content any, hooks ...RequestHook) (*http.Response, error) {
	return c.Send(ctx, http.MethodPatch, path, content, hooks...)
}

// PatchAsync issues a PATCH request without waiting.
func (c *Client) PatchAsync(ctx context.Context, path string, content any, hooks ...RequestHook) *Future[*http.Response] {
	return c.SendAsync(ctx, http.MethodPatch, path, content, hooks...)
}

// Delete issues a DELETE request. content may be nil.
func (c *Client) Delete(ctx context.Context, path string, content any, hooks ...RequestHook) (*http.Response, error) {
	return c.Send(ctx, http.MethodDelete, path, content, hooks...)
}

// DeleteAsync issues a DELETE request without waiting.
func (c *Client) DeleteAsync(ctx context.Context, path string, content any, hooks ...RequestHook) *Future[*http.Response] {
	return c.SendAsync(ctx, http.MethodDelete, path, content, hooks...)
}

// newRequest resolves path against the base URL and attaches content.
func (c *Client) newRequest(ctx context.Context, method, path string, content any) (*http.Request, error) {
	if ctx == nil {
		return nil, &Error{Code: ErrCodeInvalidRequest, Message: "nil context", Err: errors.New("nil context")}
	}
	ctx = context.WithValue(ctx, loggerKey{}, c.log)

	ref, err := url.Parse(path)
	if err != nil {
		return nil, &Error{Code: ErrCodeInvalidRequest, Message: fmt.Sprintf("parse path %q: %v", path, err), Err: err}
	}
	target := c.baseURL.ResolveReference(ref)

	var body io.Reader
	hasBody := !isNil(content)
	if hasBody {
		data, err := codec.Marshal(content)
		if err != nil {
			return nil, newError(ErrCodeEncode, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, newError(ErrCodeInvalidRequest, err)
	}
	for k, v := range c.headers {
		req.Header[k] = append([]string(nil), v...)
	}
	if hasBody {
		req.Header.Set("Content-Type", codec.ContentType)
	}
	SetUserAgent(req, c.userAgent)
	return req, nil
}

// transmit sends req. cancel releases the call deadline; on success it
// runs when the body is closed.
func (c *Client) transmit(req *http.Request, cancel context.CancelFunc) (*http.Response, error) {
	ctx := req.Context()
	req, span := observability.StartClientSpan(ctx, c.tracer, req)
	c.metrics.RecordStart(ctx, req.Method)
	start := time.Now()

	resp, err := c.transport().Do(req)
	elapsed := time.Since(start)
	if err != nil {
		cancel()
		rerr := transportError(err)
		observability.EndClientSpan(span, 0, rerr)
		c.metrics.RecordEnd(ctx, req.Method, 0, rerr.Code.String(), elapsed)
		c.log.Debug("request failed", logger.WithDuration(logger.Fields(
			logger.FieldMethod, req.Method,
			logger.FieldURL, req.URL.Redacted(),
			logger.FieldCode, rerr.Code.String(),
			logger.FieldError, err.Error(),
		), elapsed))
		return nil, rerr
	}

	observability.EndClientSpan(span, resp.StatusCode, nil)
	c.metrics.RecordEnd(ctx, req.Method, resp.StatusCode, "", elapsed)
	c.log.Debug("request completed", logger.WithDuration(logger.Fields(
		logger.FieldMethod, req.Method,
		logger.FieldURL, req.URL.Redacted(),
		logger.FieldStatus, resp.StatusCode,
	), elapsed))

	if resp.Body == nil {
		cancel()
		return resp, nil
	}
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

type loggerKey struct{}

// requestLogger returns the logger of the client that built req, or the
// global restclient logger for requests built elsewhere.
func requestLogger(req *http.Request) *logger.Logger {
	if l, ok := req.Context().Value(loggerKey{}).(*logger.Logger); ok && l != nil {
		return l
	}
	return logger.WithComponent("restclient")
}

// cancelOnClose keeps the call deadline alive while the body is read.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnClose) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

// isNil reports whether content means "no body": nil itself or a nil pointer.
func isNil(content any) bool {
	if content == nil {
		return true
	}
	v := reflect.ValueOf(content)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
