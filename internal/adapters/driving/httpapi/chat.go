package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/teampilot/internal/core/domain"
	"github.com/custodia-labs/teampilot/internal/logger"
)

// chatRequest is the JSON body for a chat query.
type chatRequest struct {
	Text string `json:"text" binding:"required"`
}

// handleChat streams the agent's answer to the client as server-sent
// events: one "data:" line per chunk, a blank line between events, a flush
// after each. The stream always ends with the terminal chunk.
func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "text is required"})
		return
	}

	tokens, err := s.ports.Chat.Query(c.Request.Context(), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	// A client disconnect cancels the request context, which stops the
	// agent; draining until the channel closes is then safe.
	index := 0
	for token := range tokens {
		if token.Err != nil {
			chunk := domain.TerminalChunk()
			chunk.Error = token.Err.Error()
			writeChunk(c, chunk)
			return
		}

		writeChunk(c, domain.StreamChunk{Index: index, Text: token.Text})
		index++
	}

	writeChunk(c, domain.TerminalChunk())
}

func writeChunk(c *gin.Context, chunk domain.StreamChunk) {
	data, err := json.Marshal(chunk)
	if err != nil {
		logger.Error("Marshalling stream chunk: %v", err)
		return
	}
	fmt.Fprintf(c.Writer, "data: %s\n\n", data) //nolint:errcheck // client may be gone
	c.Writer.Flush()
}
