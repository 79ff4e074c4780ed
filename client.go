package super

import (
	"context"
	"log/slog"
	"net"
)

// ChatCompletionsPath is appended to the base URL's path for every query.
const ChatCompletionsPath = "/chat/completions"

// Client sends prompts to an OpenAI-compatible chat-completions endpoint over
// plain HTTP/1.1, one TCP connection per query.
//
// A Client is not modified by Query and may be reused.
type Client struct {
	// BaseURL is the scheme://host[:port][/path] prefix of the API.
	BaseURL string

	// APIKey is sent as a bearer token.
	APIKey string

	// Dialer opens connections. Defaults to a zero [net.Dialer], which
	// imposes no timeout.
	Dialer Dialer

	// Resolver resolves hosts and ports. Defaults to [net.DefaultResolver].
	Resolver Resolver

	// Logger receives debug traces of each query. Defaults to discarding them.
	Logger *slog.Logger
}

// ClientOption is a function that configures a Client.
type ClientOption func(*Client)

// WithDialer is a ClientOption that sets the dialer used to open connections.
//
// If the dialer is nil, then a zero net.Dialer is used.
func WithDialer(d Dialer) ClientOption {
	return func(c *Client) {
		if d == nil {
			d = &net.Dialer{}
		}
		c.Dialer = d
	}
}

// WithResolver is a ClientOption that sets the resolver used before dialing.
//
// If the resolver is nil, then net.DefaultResolver is used.
func WithResolver(r Resolver) ClientOption {
	return func(c *Client) {
		if r == nil {
			r = net.DefaultResolver
		}
		c.Resolver = r
	}
}

// WithLogger is a ClientOption that sets the logger for debug traces.
//
// If the logger is nil, then traces are discarded.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l == nil {
			l = slog.New(slog.DiscardHandler)
		}
		c.Logger = l
	}
}

// NewClient returns a new Client for the given base URL and API key.
//
// # Example
//
//	c := super.NewClient("http://localhost:11434/v1", os.Getenv("OPENAI_API_KEY"))
func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		BaseURL:  baseURL,
		APIKey:   apiKey,
		Dialer:   &net.Dialer{},
		Resolver: net.DefaultResolver,
		Logger:   slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Query sends content as a single user message to model and returns the
// content of the first choice of the reply.
//
// The context is used while resolving and connecting. Once connected, Query
// blocks until the peer closes the connection.
func (c *Client) Query(ctx context.Context, model, content string) (string, error) {
	target, err := ParseTarget(c.BaseURL)
	if err != nil {
		return "", err
	}
	// A base URL without a path has path "/", which gives "//chat/completions".
	target.Path += ChatCompletionsPath

	body := BuildRequestBody(model, content)

	resp, err := c.roundTrip(ctx, target, body)
	if err != nil {
		return "", err
	}

	c.Logger.DebugContext(ctx, "parsed response", "status", resp.StatusCode, "body_bytes", len(resp.Body))

	if resp.StatusCode != 200 {
		return "", &APIError{StatusCode: resp.StatusCode, Body: resp.Body}
	}

	return ParseReplyContent(resp.Body)
}

// ExecuteQuery is a convenience wrapper that sends a single query with a
// default Client.
//
// # Example
//
//	reply, err := super.ExecuteQuery(ctx, "http://127.0.0.1:8080/v1", "gpt-4o", apiKey, "Hello!")
func ExecuteQuery(ctx context.Context, baseURL, model, apiKey, content string) (string, error) {
	return NewClient(baseURL, apiKey).Query(ctx, model, content)
}
