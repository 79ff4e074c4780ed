package super

import (
	"errors"
	"fmt"
)

// Errors returned by the client. Every failure is terminal for the query that
// produced it; callers match them with [errors.Is], or [errors.As] for [APIError].
var (
	// ErrInvalidURL means the base URL has no "://" separator.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrDNSFailed means the host (or port) could not be resolved to an IPv4 address.
	ErrDNSFailed = errors.New("DNS resolution failed")

	// ErrConnectFailed means the TCP connection could not be established.
	ErrConnectFailed = errors.New("connection failed")

	// ErrSendFailed means the request could not be written to the connection.
	ErrSendFailed = errors.New("failed to send request")

	// ErrMalformedHTTPResponse means the peer's reply has no header/body
	// separator or no parsable status code.
	ErrMalformedHTTPResponse = errors.New("malformed HTTP response")

	// ErrMalformedResponse means a "choices" key was found without an array after it.
	ErrMalformedResponse = errors.New("malformed response: no choices array")

	// ErrMalformedJSON means the "content" value is not a terminated JSON string.
	ErrMalformedJSON = errors.New("malformed JSON")

	// ErrKeyNotFound means no "content" key follows the "choices" key.
	ErrKeyNotFound = errors.New("key not found in JSON")

	// ErrNoChoices means the response has no "choices" key, or an empty array.
	ErrNoChoices = errors.New("no choices in response")
)

// APIError is returned when the endpoint answers with a status other than 200.
//
// The raw response body is kept so callers can inspect the upstream error payload.
type APIError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("API returned status %d: %s", e.StatusCode, e.Body)
}
