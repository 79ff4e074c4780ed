// Package super implements a small client for OpenAI-compatible
// chat-completions endpoints.
//
// It does not use net/http. A query opens one IPv4 TCP connection, writes a
// literal HTTP/1.1 POST with "Connection: close", and reads until the peer
// closes. The reply is taken from the response body by scanning for the first
// "content" string after the "choices" key, rather than by decoding the
// document. TLS, redirects, chunked encoding and streaming are not supported.
//
// https://platform.openai.com/docs/api-reference/chat/create
package super
