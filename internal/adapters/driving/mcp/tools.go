package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// chunkSeparator joins the retrieved chunk texts, matching the format the
// in-process agent feeds its model.
const chunkSeparator = "\n\n----\n\n"

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Text  string `json:"text" jsonschema:"the text to search for in the stored documents"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of chunks to return (default 5)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_docs",
		Description: "Search for information in documents given a text.",
	}, s.handleSearch)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	chunks, err := s.ports.Search.Search(ctx, input.Text, input.Limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}

	output := SearchOutput{
		Text:  strings.Join(texts, chunkSeparator),
		Count: len(chunks),
	}
	return nil, output, nil
}
