package domain

import "encoding/json"

// Role identifies the author of a conversation message.
type Role string

// Conversation roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is a single entry in an agent conversation.
type Message struct {
	// Role is the author of the message.
	Role Role

	// Content is the message text. For RoleTool it holds the tool result.
	Content string

	// ToolCalls are the tool invocations requested by an assistant
	// message. Empty for other roles.
	ToolCalls []ToolCall

	// ToolID links a RoleTool message back to the call it answers.
	ToolID string
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	// ID is the provider-assigned identifier for this call.
	ID string

	// Name is the tool being invoked.
	Name string

	// Arguments is the raw JSON argument object.
	Arguments json.RawMessage
}

// StreamChunk is one unit of a streamed agent answer as delivered to
// clients. The terminal chunk has Index -1, Last true and empty Text;
// clients must stop reading after it.
type StreamChunk struct {
	// Index is the zero-based position of the chunk, or -1 for the
	// terminal chunk.
	Index int `json:"index"`

	// Last is true only on the terminal chunk.
	Last bool `json:"last"`

	// Text is the chunk payload. Empty on the terminal chunk.
	Text string `json:"text"`

	// Error carries a failure description when the stream ended
	// abnormally. Omitted on success.
	Error string `json:"error,omitempty"`
}

// TerminalChunk returns the chunk that closes every stream.
func TerminalChunk() StreamChunk {
	return StreamChunk{Index: -1, Last: true}
}

// Token is one fragment of the agent's answer as produced by the core
// service, before any transport framing is applied. A Token with Err set is
// the last one sent on its channel.
type Token struct {
	// Text is the fragment of answer text.
	Text string

	// Err is non-nil when generation failed.
	Err error
}
