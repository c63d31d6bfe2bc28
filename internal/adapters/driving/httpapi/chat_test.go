package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/teampilot/internal/core/domain"
)

func postChat(f *serverFixture, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return f.do(req)
}

func TestChat(t *testing.T) {
	t.Run("streams answer tokens as server-sent events", func(t *testing.T) {
		fixture := newServerFixture(t)
		fixture.chat.tokens = []domain.Token{{Text: "Hello"}, {Text: " world"}}

		w := postChat(fixture, userToken, `{"text": "greet me"}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
		assert.Equal(t, "greet me", fixture.chat.lastText)

		expected := "data: {\"index\":0,\"last\":false,\"text\":\"Hello\"}\n\n" +
			"data: {\"index\":1,\"last\":false,\"text\":\" world\"}\n\n" +
			"data: {\"index\":-1,\"last\":true,\"text\":\"\"}\n\n"
		assert.Equal(t, expected, w.Body.String())
	})

	t.Run("closes an empty stream with the terminal chunk", func(t *testing.T) {
		fixture := newServerFixture(t)

		w := postChat(fixture, userToken, `{"text": "anything"}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "data: {\"index\":-1,\"last\":true,\"text\":\"\"}\n\n", w.Body.String())
	})

	t.Run("reports mid-stream failures in the terminal chunk", func(t *testing.T) {
		fixture := newServerFixture(t)
		fixture.chat.tokens = []domain.Token{
			{Text: "Partial"},
			{Err: errors.New("model offline")},
		}

		w := postChat(fixture, userToken, `{"text": "doomed"}`)

		require.Equal(t, http.StatusOK, w.Code)
		expected := "data: {\"index\":0,\"last\":false,\"text\":\"Partial\"}\n\n" +
			"data: {\"index\":-1,\"last\":true,\"text\":\"\",\"error\":\"model offline\"}\n\n"
		assert.Equal(t, expected, w.Body.String())
	})

	t.Run("rejects blank questions before streaming", func(t *testing.T) {
		fixture := newServerFixture(t)
		fixture.chat.err = fmt.Errorf("query text is empty: %w", domain.ErrInvalidInput)

		w := postChat(fixture, userToken, `{"text": "   "}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	})

	t.Run("rejects missing text field", func(t *testing.T) {
		fixture := newServerFixture(t)

		w := postChat(fixture, userToken, `{}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "text is required", errorBody(t, w))
	})

	t.Run("requires authentication", func(t *testing.T) {
		fixture := newServerFixture(t)

		w := postChat(fixture, "", `{"text": "hello"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
