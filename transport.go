package super

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
)

// Dialer opens the TCP connection a query is sent over. [*net.Dialer]
// satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Resolver maps a host and port to the address that is dialed. [*net.Resolver]
// satisfies it.
type Resolver interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
	LookupPort(ctx context.Context, network, service string) (int, error)
}

// rawResponse is an HTTP response split on the first blank line.
type rawResponse struct {
	StatusCode int
	Body       string
}

// roundTrip sends one request over a fresh connection and reads the reply
// until the peer closes it. The connection is closed before returning.
func (c *Client) roundTrip(ctx context.Context, t Target, body string) (*rawResponse, error) {
	conn, err := c.dial(ctx, t)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	req := buildRawRequest(t, c.APIKey, body)

	c.Logger.DebugContext(ctx, "sending request", "path", t.Path, "bytes", len(req))

	if _, err := conn.Write(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSendFailed, err)
	}

	// The response is delimited by the peer closing the connection, not by
	// its Content-Length. A read error ends the stream the same way.
	raw, err := io.ReadAll(conn)
	if err != nil {
		c.Logger.DebugContext(ctx, "read ended with error", "error", err, "bytes", len(raw))
	}

	c.Logger.DebugContext(ctx, "received response", "bytes", len(raw))

	return parseRawResponse(raw)
}

// dial resolves the target to its first IPv4 address and connects to it.
func (c *Client) dial(ctx context.Context, t Target) (net.Conn, error) {
	ips, err := c.Resolver.LookupIP(ctx, "ip4", t.Host)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDNSFailed, t.Host, err)
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("%w: %s: no IPv4 address", ErrDNSFailed, t.Host)
	}

	port, err := c.Resolver.LookupPort(ctx, "tcp", t.Port)
	if err != nil {
		return nil, fmt.Errorf("%w: port %q: %w", ErrDNSFailed, t.Port, err)
	}

	addr := net.JoinHostPort(ips[0].String(), strconv.Itoa(port))

	c.Logger.DebugContext(ctx, "dialing", "host", t.Host, "addr", addr)

	conn, err := c.Dialer.DialContext(ctx, "tcp4", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConnectFailed, addr, err)
	}

	return conn, nil
}

// buildRawRequest renders the literal HTTP/1.1 POST for body.
func buildRawRequest(t Target, apiKey, body string) []byte {
	var b bytes.Buffer
	b.Grow(len(body) + 256)

	fmt.Fprintf(&b, "POST %s HTTP/1.1\r\n", t.Path)
	fmt.Fprintf(&b, "Host: %s\r\n", t.Addr())
	fmt.Fprintf(&b, "Authorization: Bearer %s\r\n", apiKey)
	b.WriteString("Content-Type: application/json\r\n")
	fmt.Fprintf(&b, "Content-Length: %d\r\n", len(body))
	b.WriteString("Connection: close\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)

	return b.Bytes()
}

// parseRawResponse splits a full response into its status code and body.
// Headers are not interpreted.
func parseRawResponse(raw []byte) (*rawResponse, error) {
	head, body, ok := strings.Cut(string(raw), "\r\n\r\n")
	if !ok {
		return nil, fmt.Errorf("%w: no body", ErrMalformedHTTPResponse)
	}

	statusLine, _, _ := strings.Cut(head, "\r\n")

	_, rest, ok := strings.Cut(statusLine, " ")
	if !ok {
		return nil, fmt.Errorf("%w: no status code in %q", ErrMalformedHTTPResponse, statusLine)
	}

	code := rest[:min(3, len(rest))]
	if len(code) != 3 || strings.Trim(code, "0123456789") != "" {
		return nil, fmt.Errorf("%w: invalid status code %q", ErrMalformedHTTPResponse, code)
	}

	statusCode, err := strconv.Atoi(code)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid status code %q", ErrMalformedHTTPResponse, code)
	}

	return &rawResponse{StatusCode: statusCode, Body: body}, nil
}
