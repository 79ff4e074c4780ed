package super

import (
	"fmt"
	"strings"
)

// BuildRequestBody returns the chat-completions request body for a single
// user message:
//
//	{"model":"<model>","messages":[{"role":"user","content":"<content>"}]}
//
// Only the double quote, backslash, newline, carriage return and tab are
// escaped. Every other byte is copied as is.
func BuildRequestBody(model, content string) string {
	var b strings.Builder
	b.Grow(len(model) + len(content) + 64)

	b.WriteString(`{"model":"`)
	writeEscaped(&b, model)
	b.WriteString(`","messages":[{"role":"`)
	b.WriteString(string(ChatRoleUser))
	b.WriteString(`","content":"`)
	writeEscaped(&b, content)
	b.WriteString(`"}]}`)

	return b.String()
}

func writeEscaped(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
}

// ParseReplyContent extracts the assistant reply from a chat-completions
// response body.
//
// This is not a JSON parser. It takes the first "content" key that textually
// follows the "choices" key, and assumes it belongs to the first choice's
// message. A "content" key placed between "choices" and that message (or an
// earlier, unrelated one inside the array) is returned instead.
func ParseReplyContent(body string) (string, error) {
	choicesAt := strings.Index(body, `"choices"`)
	if choicesAt < 0 {
		return "", ErrNoChoices
	}

	bracket := strings.IndexByte(body[choicesAt:], '[')
	if bracket < 0 {
		return "", ErrMalformedResponse
	}

	pos := choicesAt + bracket + 1
	for pos < len(body) && isSpace(body[pos]) {
		pos++
	}
	if pos < len(body) && body[pos] == ']' {
		return "", ErrNoChoices
	}

	return stringValue(body, "content", choicesAt)
}

// stringValue returns the unescaped string value of the first occurrence of
// key at or after offset start.
func stringValue(body, key string, start int) (string, error) {
	needle := `"` + key + `"`

	at := strings.Index(body[start:], needle)
	if at < 0 {
		return "", fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	pos := start + at + len(needle)

	colon := strings.IndexByte(body[pos:], ':')
	if colon < 0 {
		return "", fmt.Errorf("%w: no value after key %q", ErrMalformedJSON, key)
	}
	pos += colon + 1

	for pos < len(body) && (body[pos] == ' ' || body[pos] == '\t') {
		pos++
	}
	if pos >= len(body) || body[pos] != '"' {
		return "", fmt.Errorf("%w: expected string value for key %q", ErrMalformedJSON, key)
	}
	pos++

	var value strings.Builder
	for ; pos < len(body); pos++ {
		c := body[pos]
		switch {
		case c == '"':
			return value.String(), nil
		case c == '\\' && pos+1 < len(body):
			pos++
			switch e := body[pos]; e {
			case 'n':
				value.WriteByte('\n')
			case 'r':
				value.WriteByte('\r')
			case 't':
				value.WriteByte('\t')
			default:
				// Covers \" and \\ as well as anything else, like \/ or the
				// 'u' of a \uXXXX sequence, which is left undecoded.
				value.WriteByte(e)
			}
		default:
			value.WriteByte(c)
		}
	}

	return "", fmt.Errorf("%w: unterminated string value for key %q", ErrMalformedJSON, key)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
