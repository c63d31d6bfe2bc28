package anthropic

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/teampilot/internal/core/domain"
	"github.com/custodia-labs/teampilot/internal/core/ports/driven"
)

// maxEventSize caps a single SSE data line. Text deltas are small; this
// guards against a malformed endless line.
const maxEventSize = 1024 * 1024

// streamEvent is the decoded form of one SSE data payload. The same shape
// covers every event type the Messages API emits; unused fields stay zero.
type streamEvent struct {
	Type string `json:"type"`

	ContentBlock *struct {
		Type string `json:"type"`
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"content_block"`

	Delta *struct {
		Type        string `json:"type"`
		Text        string `json:"text"`
		PartialJSON string `json:"partial_json"`
		StopReason  string `json:"stop_reason"`
	} `json:"delta"`

	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// toolAccumulator assembles a tool call from streamed input_json_delta
// fragments.
type toolAccumulator struct {
	id    string
	name  string
	input strings.Builder
}

func (a *toolAccumulator) call() domain.ToolCall {
	args := a.input.String()
	if args == "" {
		args = "{}"
	}
	return domain.ToolCall{ID: a.id, Name: a.name, Arguments: json.RawMessage(args)}
}

// decodeStream reads SSE data lines from body, converts them to chat events
// and closes the channel after the terminal event. It owns body and always
// closes it.
func decodeStream(ctx context.Context, body io.ReadCloser, events chan<- driven.ChatEvent) {
	defer close(events)
	defer body.Close()

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventSize)

	var tool *toolAccumulator

	for scanner.Scan() {
		line := scanner.Text()

		// Only data lines carry payloads; event name lines, comments and
		// blank separators are skipped.
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" {
			continue
		}

		var event streamEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			emit(ctx, events, errorEvent(fmt.Errorf("decode stream event: %w", err)))
			return
		}

		switch event.Type {
		case "content_block_start":
			if event.ContentBlock != nil && event.ContentBlock.Type == "tool_use" {
				tool = &toolAccumulator{id: event.ContentBlock.ID, name: event.ContentBlock.Name}
			}

		case "content_block_delta":
			if event.Delta == nil {
				continue
			}
			switch event.Delta.Type {
			case "text_delta":
				if event.Delta.Text == "" {
					continue
				}
				if !emit(ctx, events, driven.ChatEvent{Type: driven.ChatEventText, Text: event.Delta.Text}) {
					return
				}
			case "input_json_delta":
				if tool != nil {
					tool.input.WriteString(event.Delta.PartialJSON)
				}
			}

		case "content_block_stop":
			if tool != nil {
				call := tool.call()
				tool = nil
				if !emit(ctx, events, driven.ChatEvent{Type: driven.ChatEventToolCall, Tool: &call}) {
					return
				}
			}

		case "error":
			message := "unknown stream error"
			if event.Error != nil {
				message = event.Error.Message
			}
			emit(ctx, events, errorEvent(fmt.Errorf("anthropic error: %s", message)))
			return

		case "message_stop":
			emit(ctx, events, driven.ChatEvent{Type: driven.ChatEventDone})
			return
		}
	}

	if err := scanner.Err(); err != nil {
		emit(ctx, events, errorEvent(fmt.Errorf("read stream: %w", err)))
		return
	}

	emit(ctx, events, errorEvent(fmt.Errorf("anthropic: stream ended without message_stop")))
}

// emit sends one event unless the context is done. A false return means the
// consumer has gone away and decoding should stop.
func emit(ctx context.Context, events chan<- driven.ChatEvent, event driven.ChatEvent) bool {
	select {
	case events <- event:
		return true
	case <-ctx.Done():
		return false
	}
}

func errorEvent(err error) driven.ChatEvent {
	return driven.ChatEvent{Type: driven.ChatEventError, Err: err}
}
