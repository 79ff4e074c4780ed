package super

import (
	"fmt"
	"strings"
)

// DefaultPort is used when the base URL does not name one. The scheme is
// never consulted, so "https://host" also dials port 80.
const DefaultPort = "80"

// Target is where a query is sent, derived once from a base URL.
//
// Path always begins with "/".
type Target struct {
	Host string
	Port string
	Path string
}

// Addr returns the "host:port" form used for the Host header.
func (t Target) Addr() string {
	return t.Host + ":" + t.Port
}

// ParseTarget splits a base URL of the form scheme://host[:port][/path].
//
// The remainder after the host is taken literally: query strings, fragments
// and percent-escapes are not interpreted.
//
// # Example
//
//	t, _ := super.ParseTarget("http://127.0.0.1:8080/v1")
//	// t == super.Target{Host: "127.0.0.1", Port: "8080", Path: "/v1"}
func ParseTarget(baseURL string) (Target, error) {
	_, rest, ok := strings.Cut(baseURL, "://")
	if !ok {
		return Target{}, fmt.Errorf("%w: %s", ErrInvalidURL, baseURL)
	}

	t := Target{Path: "/"}

	hostPort := rest
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		hostPort = rest[:i]
		t.Path = rest[i:]
	}

	if host, port, ok := strings.Cut(hostPort, ":"); ok {
		t.Host, t.Port = host, port
	} else {
		t.Host, t.Port = hostPort, DefaultPort
	}

	return t, nil
}
