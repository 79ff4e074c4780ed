package super_test

import (
	"encoding/json"
	"testing"

	"github.com/picatz/super"
	"github.com/shoenig/test/must"
)

func TestBuildRequestBody(t *testing.T) {
	body := super.BuildRequestBody("test-model", "hello")
	must.Eq(t, `{"model":"test-model","messages":[{"role":"user","content":"hello"}]}`, body)
}

func TestBuildRequestBody_roundTrip(t *testing.T) {
	tests := []struct {
		name    string
		model   string
		content string
	}{
		{"plain", "gpt-4o", "What is the capital of France?"},
		{"quotes", `model "x"`, `she said "hi"`},
		{"backslashes", `C:\models\a`, `a \ b \\ c \"`},
		{"newlines", "m", "line one\nline two\r\nline three"},
		{"tabs", "m\tn", "col1\tcol2"},
		{"unicode", "模型", "héllo wörld 👋"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := super.BuildRequestBody(tt.model, tt.content)

			var decoded map[string]any
			must.NoError(t, json.Unmarshal([]byte(body), &decoded))
			must.MapLen(t, 2, decoded)

			var req chatRequest
			must.NoError(t, json.Unmarshal([]byte(body), &req))
			must.Eq(t, tt.model, req.Model)
			must.Eq(t, 1, len(req.Messages))
			must.Eq(t, string(super.ChatRoleUser), req.Messages[0].Role)
			must.Eq(t, tt.content, req.Messages[0].Content)
		})
	}
}

func TestBuildRequestBody_passesOtherBytesThrough(t *testing.T) {
	body := super.BuildRequestBody("m", "bell\a/slash<tag>")
	must.StrContains(t, body, `"content":"bell`+"\a"+`/slash<tag>"`)
}

func TestParseReplyContent(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr error
	}{
		{
			name: "single choice",
			body: helloReply,
			want: "Hi there!",
		},
		{
			name: "pretty printed",
			body: "{\n  \"choices\": [\n    {\n      \"message\": {\n        \"role\": \"assistant\",\n        \"content\":\t \"Hi there!\"\n      }\n    }\n  ]\n}",
			want: "Hi there!",
		},
		{
			name: "escapes",
			body: `{"choices":[{"message":{"content":"a\"b\\c\nd\re\tf\/g"}}]}`,
			want: "a\"b\\c\nd\re\tf/g",
		},
		{
			name: "unicode escape left undecoded",
			body: `{"choices":[{"message":{"content":"caf\u00e9"}}]}`,
			want: "cafu00e9",
		},
		{
			name: "raw utf-8",
			body: `{"choices":[{"message":{"content":"café ☕"}}]}`,
			want: "café ☕",
		},
		{
			name: "first choice wins",
			body: `{"choices":[{"message":{"content":"one"}},{"message":{"content":"two"}}]}`,
			want: "one",
		},
		{
			name: "content before choices is skipped",
			body: `{"content":"nope","choices":[{"message":{"content":"yes"}}]}`,
			want: "yes",
		},
		{
			name: "empty content",
			body: `{"choices":[{"message":{"content":""}}]}`,
			want: "",
		},
		{
			name:    "empty choices",
			body:    `{"choices":[]}`,
			wantErr: super.ErrNoChoices,
		},
		{
			name:    "empty choices with whitespace",
			body:    "{\"choices\": [ \r\n\t ]}",
			wantErr: super.ErrNoChoices,
		},
		{
			name:    "not json",
			body:    "not json",
			wantErr: super.ErrNoChoices,
		},
		{
			name:    "choices without array",
			body:    `{"choices":null}`,
			wantErr: super.ErrMalformedResponse,
		},
		{
			name:    "no content key",
			body:    `{"choices":[{"message":{"role":"assistant"}}]}`,
			wantErr: super.ErrKeyNotFound,
		},
		{
			name:    "null content",
			body:    `{"choices":[{"message":{"content":null}}]}`,
			wantErr: super.ErrMalformedJSON,
		},
		{
			name:    "content without colon",
			body:    `{"choices":[{"message":{"content"`,
			wantErr: super.ErrMalformedJSON,
		},
		{
			name:    "unterminated string",
			body:    `{"choices":[{"message":{"content":"Hi the`,
			wantErr: super.ErrMalformedJSON,
		},
		{
			name:    "trailing backslash",
			body:    `{"choices":[{"message":{"content":"Hi\`,
			wantErr: super.ErrMalformedJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := super.ParseReplyContent(tt.body)
			if tt.wantErr != nil {
				must.ErrorIs(t, err, tt.wantErr)
				must.Eq(t, "", got)
				return
			}
			must.NoError(t, err)
			must.Eq(t, tt.want, got)
		})
	}
}

// The extractor reads the first "content" key after "choices", whatever
// object it belongs to.
func TestParseReplyContent_textualProximity(t *testing.T) {
	body := `{"choices":[{"logprobs":{"content":"token"},"message":{"content":"reply"}}]}`

	got, err := super.ParseReplyContent(body)
	must.NoError(t, err)
	must.Eq(t, "token", got)
}

type replyMessage struct {
	Role    super.ChatRole `json:"role"`
	Content string         `json:"content"`
}

type replyChoice struct {
	Message replyMessage `json:"message"`
}

type chatReply struct {
	Choices []replyChoice `json:"choices"`
}

// Replies produced by a real JSON encoder decode back to the original text.
// HTML-safe characters are left out: encoding/json writes them as \u escapes.
func TestParseReplyContent_encodedReply(t *testing.T) {
	for _, content := range []string{
		"Hi there!",
		"line one\nline two",
		"tab\there, quote \" and backslash \\",
	} {
		body, err := json.Marshal(chatReply{
			Choices: []replyChoice{{
				Message: replyMessage{Role: super.ChatRoleAssistant, Content: content},
			}},
		})
		must.NoError(t, err)
		must.StrContains(t, string(body), `"role":"assistant"`)

		got, err := super.ParseReplyContent(string(body))
		must.NoError(t, err)
		must.Eq(t, content, got)
	}
}
