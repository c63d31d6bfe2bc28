package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRoles tests the conversation role constants
func TestRoles(t *testing.T) {
	assert.Equal(t, Role("system"), RoleSystem)
	assert.Equal(t, Role("user"), RoleUser)
	assert.Equal(t, Role("assistant"), RoleAssistant)
	assert.Equal(t, Role("tool"), RoleTool)
}

// TestMessage_Fields tests Message structure fields
func TestMessage_Fields(t *testing.T) {
	msg := Message{
		Role:    RoleAssistant,
		Content: "Searching the documents now.",
		ToolCalls: []ToolCall{
			{ID: "call-1", Name: "search_docs", Arguments: json.RawMessage(`{"text":"holidays"}`)},
		},
	}

	assert.Equal(t, RoleAssistant, msg.Role)
	assert.Equal(t, "Searching the documents now.", msg.Content)
	require.Len(t, msg.ToolCalls, 1)
	assert.Equal(t, "search_docs", msg.ToolCalls[0].Name)
	assert.JSONEq(t, `{"text":"holidays"}`, string(msg.ToolCalls[0].Arguments))
}

// TestMessage_ToolResult tests a tool result message
func TestMessage_ToolResult(t *testing.T) {
	msg := Message{
		Role:    RoleTool,
		Content: "chunk one\n\n----\n\nchunk two",
		ToolID:  "call-1",
	}

	assert.Equal(t, RoleTool, msg.Role)
	assert.Equal(t, "call-1", msg.ToolID)
	assert.Empty(t, msg.ToolCalls)
}

// TestTerminalChunk tests the stream-closing chunk
func TestTerminalChunk(t *testing.T) {
	chunk := TerminalChunk()

	assert.Equal(t, -1, chunk.Index)
	assert.True(t, chunk.Last)
	assert.Empty(t, chunk.Text)
	assert.Empty(t, chunk.Error)
}

// TestStreamChunk_JSON tests the wire shape of stream chunks
func TestStreamChunk_JSON(t *testing.T) {
	tests := []struct {
		name  string
		chunk StreamChunk
		want  string
	}{
		{
			name:  "content chunk",
			chunk: StreamChunk{Index: 0, Last: false, Text: "Hello"},
			want:  `{"index":0,"last":false,"text":"Hello"}`,
		},
		{
			name:  "terminal chunk",
			chunk: TerminalChunk(),
			want:  `{"index":-1,"last":true,"text":""}`,
		},
		{
			name:  "error chunk",
			chunk: StreamChunk{Index: -1, Last: true, Error: "generation failed"},
			want:  `{"index":-1,"last":true,"text":"","error":"generation failed"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.chunk)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

// TestStreamChunk_ErrorOmitted tests that the error key is absent on success
func TestStreamChunk_ErrorOmitted(t *testing.T) {
	data, err := json.Marshal(StreamChunk{Index: 3, Text: "ok"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "error")
}

// TestToken_Fields tests Token structure fields
func TestToken_Fields(t *testing.T) {
	ok := Token{Text: "partial answer"}
	assert.Equal(t, "partial answer", ok.Text)
	assert.NoError(t, ok.Err)

	failed := Token{Err: errors.New("upstream closed")}
	assert.Error(t, failed.Err)
	assert.Empty(t, failed.Text)
}
