package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/teampilot/internal/core/domain"
	"github.com/custodia-labs/teampilot/internal/core/ports/driven"
)

// serveSSE returns a handler that records the request body and replies with
// the given event stream.
func serveSSE(stream string, capture *[]byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			body, _ := io.ReadAll(r.Body)
			*capture = body
		}
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, stream)
	}
}

// newTestService points a service at srv.
func newTestService(t *testing.T, srv *httptest.Server) *LLMService {
	t.Helper()

	service, err := NewLLMService(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)
	return service
}

// collect drains the event channel until it closes.
func collect(ch <-chan driven.ChatEvent) []driven.ChatEvent {
	var events []driven.ChatEvent
	for event := range ch {
		events = append(events, event)
	}
	return events
}

func TestNewLLMService(t *testing.T) {
	service, err := NewLLMService(Config{APIKey: "key"})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, service.baseURL)
	assert.Equal(t, DefaultModel, service.ModelName())
	assert.Equal(t, DefaultMaxTokens, service.maxTokens)
}

func TestNewLLMService_MissingAPIKey(t *testing.T) {
	service, err := NewLLMService(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
	assert.Nil(t, service)
}

// TestStreamChat_Text tests a plain text turn, including the request the
// adapter puts on the wire.
func TestStreamChat_Text(t *testing.T) {
	stream := "event: message_start\n" +
		`data: {"type":"message_start","message":{"id":"msg_1","role":"assistant"}}` + "\n\n" +
		"event: content_block_start\n" +
		`data: {"type":"content_block_start","index":0,"content_block":{"type":"text","text":""}}` + "\n\n" +
		"event: ping\n" +
		`data: {"type":"ping"}` + "\n\n" +
		"event: content_block_delta\n" +
		`data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Hello"}}` + "\n\n" +
		"event: content_block_delta\n" +
		`data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":" world"}}` + "\n\n" +
		"event: content_block_stop\n" +
		`data: {"type":"content_block_stop","index":0}` + "\n\n" +
		"event: message_delta\n" +
		`data: {"type":"message_delta","delta":{"stop_reason":"end_turn"}}` + "\n\n" +
		"event: message_stop\n" +
		`data: {"type":"message_stop"}` + "\n\n"

	var body []byte
	srv := httptest.NewServer(serveSSE(stream, &body))
	defer srv.Close()

	service := newTestService(t, srv)

	messages := []domain.Message{
		{Role: domain.RoleSystem, Content: "You answer from documents."},
		{Role: domain.RoleUser, Content: "Hi"},
	}

	ch, err := service.StreamChat(context.Background(), messages, nil)
	require.NoError(t, err)

	events := collect(ch)
	require.Len(t, events, 3)
	assert.Equal(t, driven.ChatEvent{Type: driven.ChatEventText, Text: "Hello"}, events[0])
	assert.Equal(t, driven.ChatEvent{Type: driven.ChatEventText, Text: " world"}, events[1])
	assert.Equal(t, driven.ChatEventDone, events[2].Type)

	var req messagesRequest
	require.NoError(t, json.Unmarshal(body, &req))
	assert.Equal(t, DefaultModel, req.Model)
	assert.Equal(t, DefaultMaxTokens, req.MaxTokens)
	assert.True(t, req.Stream)
	assert.Equal(t, "You answer from documents.", req.System)
	assert.Empty(t, req.Tools)
	assert.Nil(t, req.ToolChoice)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, "user", req.Messages[0].Role)
	assert.Equal(t, "Hi", req.Messages[0].Content)
}

// TestStreamChat_ToolUse tests that tool input fragments are assembled into
// one complete tool call event.
func TestStreamChat_ToolUse(t *testing.T) {
	stream := `data: {"type":"message_start","message":{"id":"msg_2"}}` + "\n\n" +
		`data: {"type":"content_block_start","index":0,"content_block":{"type":"tool_use","id":"toolu_1","name":"search_docs","input":{}}}` + "\n\n" +
		`data: {"type":"content_block_delta","index":0,"delta":{"type":"input_json_delta","partial_json":"{\"text\":"}}` + "\n\n" +
		`data: {"type":"content_block_delta","index":0,"delta":{"type":"input_json_delta","partial_json":"\"payroll\"}"}}` + "\n\n" +
		`data: {"type":"content_block_stop","index":0}` + "\n\n" +
		`data: {"type":"message_delta","delta":{"stop_reason":"tool_use"}}` + "\n\n" +
		`data: {"type":"message_stop"}` + "\n\n"

	var body []byte
	srv := httptest.NewServer(serveSSE(stream, &body))
	defer srv.Close()

	service := newTestService(t, srv)

	tools := []driven.ToolDefinition{{
		Name:        "search_docs",
		Description: "Search for information in documents given a text.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"text": map[string]any{"type": "string"}},
			"required":   []any{"text"},
		},
	}}

	ch, err := service.StreamChat(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "payroll?"}}, tools)
	require.NoError(t, err)

	events := collect(ch)
	require.Len(t, events, 2)

	require.Equal(t, driven.ChatEventToolCall, events[0].Type)
	require.NotNil(t, events[0].Tool)
	assert.Equal(t, "toolu_1", events[0].Tool.ID)
	assert.Equal(t, "search_docs", events[0].Tool.Name)
	assert.JSONEq(t, `{"text":"payroll"}`, string(events[0].Tool.Arguments))

	assert.Equal(t, driven.ChatEventDone, events[1].Type)

	var req messagesRequest
	require.NoError(t, json.Unmarshal(body, &req))
	require.Len(t, req.Tools, 1)
	assert.Equal(t, "search_docs", req.Tools[0].Name)
	require.NotNil(t, req.ToolChoice)
	assert.Equal(t, "auto", req.ToolChoice.Type)
}

// TestStreamChat_TextThenTool tests event ordering when the model speaks
// before calling a tool.
func TestStreamChat_TextThenTool(t *testing.T) {
	stream := `data: {"type":"content_block_start","index":0,"content_block":{"type":"text","text":""}}` + "\n\n" +
		`data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Let me check."}}` + "\n\n" +
		`data: {"type":"content_block_stop","index":0}` + "\n\n" +
		`data: {"type":"content_block_start","index":1,"content_block":{"type":"tool_use","id":"toolu_2","name":"search_docs","input":{}}}` + "\n\n" +
		`data: {"type":"content_block_delta","index":1,"delta":{"type":"input_json_delta","partial_json":"{\"text\":\"leave policy\"}"}}` + "\n\n" +
		`data: {"type":"content_block_stop","index":1}` + "\n\n" +
		`data: {"type":"message_stop"}` + "\n\n"

	srv := httptest.NewServer(serveSSE(stream, nil))
	defer srv.Close()

	service := newTestService(t, srv)

	ch, err := service.StreamChat(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "leave?"}}, nil)
	require.NoError(t, err)

	events := collect(ch)
	require.Len(t, events, 3)
	assert.Equal(t, driven.ChatEventText, events[0].Type)
	assert.Equal(t, "Let me check.", events[0].Text)
	assert.Equal(t, driven.ChatEventToolCall, events[1].Type)
	assert.JSONEq(t, `{"text":"leave policy"}`, string(events[1].Tool.Arguments))
	assert.Equal(t, driven.ChatEventDone, events[2].Type)
}

// TestStreamChat_EmptyToolInput tests that a tool call without input
// fragments still carries a valid empty argument object.
func TestStreamChat_EmptyToolInput(t *testing.T) {
	stream := `data: {"type":"content_block_start","index":0,"content_block":{"type":"tool_use","id":"toolu_3","name":"search_docs","input":{}}}` + "\n\n" +
		`data: {"type":"content_block_stop","index":0}` + "\n\n" +
		`data: {"type":"message_stop"}` + "\n\n"

	srv := httptest.NewServer(serveSSE(stream, nil))
	defer srv.Close()

	service := newTestService(t, srv)

	ch, err := service.StreamChat(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "?"}}, nil)
	require.NoError(t, err)

	events := collect(ch)
	require.Len(t, events, 2)
	require.Equal(t, driven.ChatEventToolCall, events[0].Type)
	assert.JSONEq(t, `{}`, string(events[0].Tool.Arguments))
}

// TestStreamChat_APIError tests that a pre-stream rejection is returned as
// an error, not a channel.
func TestStreamChat_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`)
	}))
	defer srv.Close()

	service := newTestService(t, srv)

	ch, err := service.StreamChat(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "hi"}}, nil)
	require.Error(t, err)
	assert.Nil(t, ch)
	assert.Contains(t, err.Error(), "anthropic error (status 401)")
	assert.Contains(t, err.Error(), "invalid x-api-key")
}

// TestStreamChat_ErrorEvent tests that a mid-stream error event becomes the
// terminal chat event.
func TestStreamChat_ErrorEvent(t *testing.T) {
	stream := `data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Par"}}` + "\n\n" +
		`data: {"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}` + "\n\n"

	srv := httptest.NewServer(serveSSE(stream, nil))
	defer srv.Close()

	service := newTestService(t, srv)

	ch, err := service.StreamChat(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "hi"}}, nil)
	require.NoError(t, err)

	events := collect(ch)
	require.Len(t, events, 2)
	assert.Equal(t, driven.ChatEventText, events[0].Type)
	require.Equal(t, driven.ChatEventError, events[1].Type)
	assert.Contains(t, events[1].Err.Error(), "Overloaded")
}

// TestStreamChat_Truncated tests that a stream cut off before message_stop
// ends with an error event.
func TestStreamChat_Truncated(t *testing.T) {
	stream := `data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Half"}}` + "\n\n"

	srv := httptest.NewServer(serveSSE(stream, nil))
	defer srv.Close()

	service := newTestService(t, srv)

	ch, err := service.StreamChat(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "hi"}}, nil)
	require.NoError(t, err)

	events := collect(ch)
	require.Len(t, events, 2)
	assert.Equal(t, driven.ChatEventText, events[0].Type)
	require.Equal(t, driven.ChatEventError, events[1].Type)
	assert.Contains(t, events[1].Err.Error(), "without message_stop")
}

// TestConvertMessages tests role mapping, system extraction and tool blocks.
func TestConvertMessages(t *testing.T) {
	messages := []domain.Message{
		{Role: domain.RoleSystem, Content: "rules"},
		{Role: domain.RoleUser, Content: "question"},
		{Role: domain.RoleAssistant, Content: "Checking.", ToolCalls: []domain.ToolCall{
			{ID: "toolu_9", Name: "search_docs", Arguments: json.RawMessage(`{"text":"q"}`)},
		}},
		{Role: domain.RoleTool, ToolID: "toolu_9", Content: "chunk one\n\n----\n\nchunk two"},
		{Role: domain.RoleAssistant, Content: "Answer."},
	}

	system, api := convertMessages(messages)
	assert.Equal(t, "rules", system)
	require.Len(t, api, 4)

	assert.Equal(t, "user", api[0].Role)
	assert.Equal(t, "question", api[0].Content)

	encoded, err := json.Marshal(api[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"role": "assistant",
		"content": [
			{"type": "text", "text": "Checking."},
			{"type": "tool_use", "id": "toolu_9", "name": "search_docs", "input": {"text": "q"}}
		]
	}`, string(encoded))

	encoded, err = json.Marshal(api[2])
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"role": "user",
		"content": [
			{"type": "tool_result", "tool_use_id": "toolu_9", "content": "chunk one\n\n----\n\nchunk two"}
		]
	}`, string(encoded))

	assert.Equal(t, "assistant", api[3].Role)
	assert.Equal(t, "Answer.", api[3].Content)
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.LLMService = (*LLMService)(nil)
}
