// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import (
	"context"

	"github.com/custodia-labs/teampilot/internal/core/domain"
)

// LLMService streams tool-calling chat completions from a language model.
//
// Implementations may include:
//   - Anthropic (Claude)
//   - Any provider with streaming tool use
type LLMService interface {
	// StreamChat sends the conversation to the model with the given tools
	// bound and streams back one assistant turn. The returned channel
	// yields text deltas as they arrive, complete tool calls, and exactly
	// one terminal event (done or error), then closes. Cancelling ctx
	// stops the stream at the next event boundary.
	StreamChat(ctx context.Context, messages []domain.Message, tools []ToolDefinition) (<-chan ChatEvent, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ToolDefinition describes a callable tool offered to the model.
type ToolDefinition struct {
	// Name is the tool identifier the model uses to call it.
	Name string

	// Description tells the model what the tool does.
	Description string

	// InputSchema is the JSON schema of the tool's argument object.
	InputSchema map[string]any
}

// ChatEventType discriminates streamed chat events.
type ChatEventType string

const (
	// ChatEventText carries a fragment of assistant answer text.
	ChatEventText ChatEventType = "text"

	// ChatEventToolCall carries one complete tool invocation request.
	ChatEventToolCall ChatEventType = "tool_call"

	// ChatEventDone marks the successful end of the assistant turn.
	ChatEventDone ChatEventType = "done"

	// ChatEventError marks an abnormal end of the assistant turn.
	ChatEventError ChatEventType = "error"
)

// ChatEvent is one unit of a streamed assistant turn.
type ChatEvent struct {
	// Type discriminates which of the remaining fields is meaningful.
	Type ChatEventType

	// Text is the answer fragment for ChatEventText events.
	Text string

	// Tool is the requested invocation for ChatEventToolCall events.
	Tool *domain.ToolCall

	// Err is the failure for ChatEventError events.
	Err error
}
