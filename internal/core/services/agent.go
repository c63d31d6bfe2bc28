package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/teampilot/internal/core/domain"
	"github.com/custodia-labs/teampilot/internal/core/ports/driven"
	"github.com/custodia-labs/teampilot/internal/core/ports/driving"
	"github.com/custodia-labs/teampilot/internal/logger"
)

// systemPrompt pins the agent to the stored documents. It is prepended to
// every conversation.
const systemPrompt = `You are a document assistant that only answers questions based on the content of
documents stored.

Important instructions:
- Never explain your reasoning process.
- Always use the search_docs tool to find information before answering.
- Only provide information found in the documents.
- If you cannot find the answer, say something like "I don't know" instead of making
  up an answer.
- Never use your general knowledge or make up answers.
- Always answer in the same language as the question whenever possible. Otherwise,
  answer in English.
`

// searchToolName is the single tool offered to the model.
const searchToolName = "search_docs"

// chunkSeparator joins retrieved chunk texts in a tool result.
const chunkSeparator = "\n\n----\n\n"

// maxAgentTurns bounds the call-tool loop. One search per answer is the norm;
// anything past this is the model thrashing.
const maxAgentTurns = 10

// Ensure AgentService implements the interface.
var _ driving.ChatService = (*AgentService)(nil)

// AgentService answers questions about the stored documents with a
// tool-calling agent loop: the model streams an assistant turn, any
// requested document search runs and feeds its result back, and the loop
// repeats until a turn needs no tool.
type AgentService struct {
	llm    driven.LLMService
	search driving.SearchService
}

// NewAgentService creates a new agent service.
func NewAgentService(llm driven.LLMService, search driving.SearchService) *AgentService {
	return &AgentService{
		llm:    llm,
		search: search,
	}
}

// Query starts a fresh conversation for the given question and streams the
// answer. Conversation state lives and dies with this call.
func (s *AgentService) Query(ctx context.Context, text string) (<-chan domain.Token, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("query text is empty: %w", domain.ErrInvalidInput)
	}

	tokens := make(chan domain.Token)
	go s.run(ctx, text, tokens)
	return tokens, nil
}

// run drives the agent loop and closes the token channel when done.
func (s *AgentService) run(ctx context.Context, text string, tokens chan<- domain.Token) {
	defer close(tokens)

	messages := []domain.Message{
		{Role: domain.RoleSystem, Content: systemPrompt},
		{Role: domain.RoleUser, Content: text},
	}
	tools := []driven.ToolDefinition{searchToolDefinition()}

	for turn := 0; turn < maxAgentTurns; turn++ {
		assistant, err := s.streamTurn(ctx, messages, tools, tokens)
		if err != nil {
			s.fail(ctx, tokens, err)
			return
		}
		if len(assistant.ToolCalls) == 0 {
			// The model answered without needing another search.
			return
		}

		messages = append(messages, assistant)
		for _, call := range assistant.ToolCalls {
			result, err := s.runSearchTool(ctx, call)
			if err != nil {
				s.fail(ctx, tokens, err)
				return
			}
			messages = append(messages, result)
		}
	}

	s.fail(ctx, tokens, fmt.Errorf("tool loop exceeded %d turns", maxAgentTurns))
}

// streamTurn streams one assistant turn, forwarding text to the token
// channel as it arrives, and returns the accumulated assistant message.
func (s *AgentService) streamTurn(
	ctx context.Context,
	messages []domain.Message,
	tools []driven.ToolDefinition,
	tokens chan<- domain.Token,
) (domain.Message, error) {
	events, err := s.llm.StreamChat(ctx, messages, tools)
	if err != nil {
		return domain.Message{}, fmt.Errorf("stream chat: %w", err)
	}

	assistant := domain.Message{Role: domain.RoleAssistant}
	var content strings.Builder

	for event := range events {
		switch event.Type {
		case driven.ChatEventText:
			content.WriteString(event.Text)
			select {
			case tokens <- domain.Token{Text: event.Text}:
			case <-ctx.Done():
				return domain.Message{}, ctx.Err()
			}

		case driven.ChatEventToolCall:
			assistant.ToolCalls = append(assistant.ToolCalls, *event.Tool)

		case driven.ChatEventError:
			return domain.Message{}, fmt.Errorf("stream chat: %w", event.Err)

		case driven.ChatEventDone:
			// The channel closes after this.
		}
	}

	assistant.Content = content.String()
	return assistant, nil
}

// runSearchTool executes one requested search and wraps the joined chunk
// texts as a tool result message.
func (s *AgentService) runSearchTool(ctx context.Context, call domain.ToolCall) (domain.Message, error) {
	if call.Name != searchToolName {
		return domain.Message{}, fmt.Errorf("unknown tool %q", call.Name)
	}

	var args struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(call.Arguments, &args); err != nil {
		return domain.Message{}, fmt.Errorf("parse %s arguments: %w", searchToolName, err)
	}
	logger.Debug("Tool %s: text=%q", searchToolName, args.Text)

	chunks, err := s.search.Search(ctx, args.Text, 0)
	if err != nil {
		return domain.Message{}, fmt.Errorf("run %s: %w", searchToolName, err)
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	return domain.Message{
		Role:    domain.RoleTool,
		Content: strings.Join(texts, chunkSeparator),
		ToolID:  call.ID,
	}, nil
}

// fail delivers the terminal error token unless the consumer is already
// gone.
func (s *AgentService) fail(ctx context.Context, tokens chan<- domain.Token, err error) {
	if errors.Is(err, context.Canceled) {
		logger.Debug("Agent query cancelled")
	} else {
		logger.Error("Agent query failed: %v", err)
	}

	select {
	case tokens <- domain.Token{Err: err}:
	case <-ctx.Done():
	}
}

// searchToolDefinition describes the document search tool offered to the
// model.
func searchToolDefinition() driven.ToolDefinition {
	return driven.ToolDefinition{
		Name:        searchToolName,
		Description: "Search for information in documents given a text.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text": map[string]any{
					"type":        "string",
					"description": "Text to search for.",
				},
			},
			"required": []string{"text"},
		},
	}
}
