package binance

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	h "github.com/tonkla/autoladder/helper"
	t "github.com/tonkla/autoladder/types"
)

// Response is a raw exchange reply. Body is always parseable JSON when the
// request could not be completed.
type Response struct {
	StatusCode int
	Body       string
}

type Client struct {
	baseURL   string
	apiKey    string
	secretKey string
	transport h.Transport
	sign      SignFunc
	now       func() int64
	log       *zap.SugaredLogger
}

type Option func(*Client)

// WithBaseURL overrides the sandbox/production REST root
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

func WithTransport(tr h.Transport) Option {
	return func(c *Client) { c.transport = tr }
}

func WithSigner(fn SignFunc) Option {
	return func(c *Client) { c.sign = fn }
}

func WithClock(fn func() int64) Option {
	return func(c *Client) { c.now = fn }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Client) { c.log = l }
}

// NewSpotClient returns Binance Spot client
func NewSpotClient(apiKey string, secretKey string, sandbox bool, opts ...Option) *Client {
	c := &Client{
		baseURL:   BaseURL(sandbox),
		apiKey:    apiKey,
		secretKey: secretKey,
		transport: h.NewTransport(h.DefaultTimeout),
		sign:      Sign,
		now:       h.Now13,
		log:       zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log.Debugw("binance client created",
		"apiKeyLen", len(c.apiKey), "secretKeyLen", len(c.secretKey), "baseURL", c.baseURL)
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Now returns the client clock in epoch milliseconds
func (c *Client) Now() int64 {
	return c.now()
}

// BuildSignedQuery encodes params in order and appends the signature of that string
func (c *Client) BuildSignedQuery(params Params) (string, error) {
	qs, err := c.signedQuery(params)
	if err != nil {
		return "", err
	}
	return qs, nil
}

func (c *Client) signedQuery(params Params) (string, *t.Error) {
	if c.secretKey == "" {
		return "", t.NewError(t.KindSigner, "secret key is not configured", nil)
	}
	payload := params.Encode()
	signature := c.sign(payload, c.secretKey)
	if signature == "" {
		return "", t.NewError(t.KindSigner, "empty signature", nil)
	}
	return payload + "&signature=" + signature, nil
}

// Get calls path with HTTP GET. Signed calls carry the API key header and a signature.
func (c *Client) Get(ctx context.Context, path string, params Params, signed bool) (Response, error) {
	qs := params.Encode()
	header := make(http.Header)
	if signed {
		var e *t.Error
		qs, e = c.signedQuery(params)
		if e != nil {
			c.log.Errorw("sign request", "path", path, "error", e)
			return Response{Body: e.Envelope()}, e
		}
		header = NewHeader(c.apiKey)
	}

	url := c.baseURL + path
	if qs != "" {
		url += "?" + qs
	}
	status, body, err := h.Get(ctx, c.transport, url, header)
	if err != nil {
		return c.transportFailure(http.MethodGet, path, status, err)
	}
	return Response{StatusCode: status, Body: string(body)}, nil
}

// Post calls path with HTTP POST and a signed form body
func (c *Client) Post(ctx context.Context, path string, params Params) (Response, error) {
	body, e := c.signedQuery(params)
	if e != nil {
		c.log.Errorw("sign request", "path", path, "error", e)
		return Response{Body: e.Envelope()}, e
	}

	status, data, err := h.PostForm(ctx, c.transport, c.baseURL+path, NewHeader(c.apiKey), body)
	if err != nil {
		return c.transportFailure(http.MethodPost, path, status, err)
	}
	return Response{StatusCode: status, Body: string(data)}, nil
}

func (c *Client) transportFailure(method string, path string, status int, err error) (Response, error) {
	e := t.NewError(t.KindTransport, method+" "+path, err)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		c.log.Warnw("request interrupted", "method", method, "path", path, "error", err)
	} else {
		c.log.Errorw("request failed", "method", method, "path", path, "error", err)
	}
	return Response{StatusCode: status, Body: e.Envelope()}, e
}
