package super

// ChatRole is the author of a chat message. Requests built by this package
// only ever carry a single user message.
type ChatRole string

const (
	// ChatRoleUser is the role of the prompt sent to the endpoint.
	ChatRoleUser ChatRole = "user"

	// ChatRoleAssistant is the role of the reply the endpoint generates.
	ChatRoleAssistant ChatRole = "assistant"
)
