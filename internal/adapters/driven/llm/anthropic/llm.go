// Package anthropic provides an LLM service adapter using the Anthropic
// Messages API with streaming tool use.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/teampilot/internal/core/domain"
	"github.com/custodia-labs/teampilot/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL   = "https://api.anthropic.com"
	DefaultModel     = "claude-3-5-sonnet-latest"
	DefaultMaxTokens = 1024
	DefaultTimeout   = 60 * time.Second

	// anthropicVersion is the required API version header.
	anthropicVersion = "2023-06-01"
)

// Config holds configuration for the Anthropic LLM service.
type Config struct {
	// APIKey is the Anthropic API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.anthropic.com).
	BaseURL string

	// Model is the LLM model to use (default: claude-3-5-sonnet-latest).
	Model string

	// MaxTokens caps the length of one assistant turn (default: 1024).
	MaxTokens int

	// Timeout bounds the whole request, including streaming (default: 60s).
	Timeout time.Duration
}

// LLMService streams chat completions using the Anthropic API.
type LLMService struct {
	client    *http.Client
	baseURL   string
	apiKey    string
	model     string
	maxTokens int
}

// messagesRequest is the Anthropic /v1/messages request format.
type messagesRequest struct {
	Model      string       `json:"model"`
	Messages   []apiMessage `json:"messages"`
	MaxTokens  int          `json:"max_tokens"`
	System     string       `json:"system,omitempty"`
	Tools      []apiTool    `json:"tools,omitempty"`
	ToolChoice *toolChoice  `json:"tool_choice,omitempty"`
	Stream     bool         `json:"stream"`
}

// apiMessage is the Anthropic message format. Content is either a plain
// string or a list of content blocks.
type apiMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// contentBlock is one element of a structured message content list.
type contentBlock struct {
	Type string `json:"type"`

	// text blocks
	Text string `json:"text,omitempty"`

	// tool_use blocks
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`

	// tool_result blocks
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
}

// apiTool is the Anthropic tool declaration format.
type apiTool struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"input_schema"`
}

// toolChoice selects how the model may use the declared tools.
type toolChoice struct {
	Type string `json:"type"`
}

// apiError is the Anthropic error envelope.
type apiError struct {
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewLLMService creates a new Anthropic LLM service.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &LLMService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}, nil
}

// StreamChat sends the conversation to the model and streams back one
// assistant turn. An error opening the stream is returned directly;
// failures after that arrive as a ChatEventError on the channel.
func (s *LLMService) StreamChat(ctx context.Context, messages []domain.Message, tools []driven.ToolDefinition) (<-chan driven.ChatEvent, error) {
	resp, err := s.openStream(ctx, messages, tools)
	if err != nil {
		return nil, err
	}

	events := make(chan driven.ChatEvent)
	go decodeStream(ctx, resp.Body, events)
	return events, nil
}

// openStream issues the streaming request and verifies the response status.
func (s *LLMService) openStream(ctx context.Context, messages []domain.Message, tools []driven.ToolDefinition) (*http.Response, error) {
	system, apiMessages := convertMessages(messages)

	reqBody := messagesRequest{
		Model:     s.model,
		Messages:  apiMessages,
		MaxTokens: s.maxTokens,
		System:    system,
		Stream:    true,
	}

	if len(tools) > 0 {
		reqBody.Tools = make([]apiTool, len(tools))
		for i, tool := range tools {
			reqBody.Tools[i] = apiTool{
				Name:        tool.Name,
				Description: tool.Description,
				InputSchema: tool.InputSchema,
			}
		}
		reqBody.ToolChoice = &toolChoice{Type: "auto"}
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/v1/messages",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("anthropic error (status %d): %w", resp.StatusCode, readErr)
		}

		var envelope apiError
		if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
			return nil, fmt.Errorf("anthropic error (status %d): %s", resp.StatusCode, envelope.Error.Message)
		}
		return nil, fmt.Errorf("anthropic error (status %d): %s", resp.StatusCode, string(body))
	}

	return resp, nil
}

// convertMessages splits the conversation into the system prompt and the
// Anthropic message list. Tool results become tool_result blocks on a user
// message, as the API requires.
func convertMessages(messages []domain.Message) (string, []apiMessage) {
	var system string
	api := make([]apiMessage, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case domain.RoleSystem:
			system = msg.Content
		case domain.RoleAssistant:
			api = append(api, assistantMessage(msg))
		case domain.RoleTool:
			api = append(api, apiMessage{
				Role: "user",
				Content: []contentBlock{{
					Type:      "tool_result",
					ToolUseID: msg.ToolID,
					Content:   msg.Content,
				}},
			})
		default:
			api = append(api, apiMessage{Role: "user", Content: msg.Content})
		}
	}

	return system, api
}

// assistantMessage renders an assistant turn, expanding any tool calls into
// tool_use blocks.
func assistantMessage(msg domain.Message) apiMessage {
	if len(msg.ToolCalls) == 0 {
		return apiMessage{Role: "assistant", Content: msg.Content}
	}

	var blocks []contentBlock
	if msg.Content != "" {
		blocks = append(blocks, contentBlock{Type: "text", Text: msg.Content})
	}
	for _, call := range msg.ToolCalls {
		input := call.Arguments
		if len(input) == 0 {
			input = json.RawMessage("{}")
		}
		blocks = append(blocks, contentBlock{
			Type:  "tool_use",
			ID:    call.ID,
			Name:  call.Name,
			Input: input,
		})
	}

	return apiMessage{Role: "assistant", Content: blocks}
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by checking the /v1/models endpoint.
// This is a lightweight check that validates the API key without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/v1/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("anthropic: failed to create ping request: %w", err)
	}
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("anthropic: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("anthropic: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("anthropic: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
