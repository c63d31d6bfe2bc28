package httpapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServerWithPinger(t *testing.T, pinger Pinger) *serverFixture {
	t.Helper()
	fixture := newServerFixture(t)
	server, err := NewServer("127.0.0.1:0", testMaxDocSize, Ports{
		Auth:      fixture.auth,
		Documents: fixture.docs,
		Users:     fixture.users,
		Chat:      fixture.chat,
		Health:    pinger,
	})
	require.NoError(t, err)
	fixture.server = server
	return fixture
}

func TestRoot(t *testing.T) {
	fixture := newServerFixture(t)

	w := fixture.get("/", "")

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "teampilot", body.Name)
	assert.Equal(t, Version, body.Version)
}

func TestAppHealth(t *testing.T) {
	fixture := newServerFixture(t)

	w := fixture.get("/health/app", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"available"}`, w.Body.String())
}

func TestDBHealth(t *testing.T) {
	t.Run("reports available when the ping succeeds", func(t *testing.T) {
		fixture := newServerWithPinger(t, &mockPinger{})

		w := fixture.get("/health/db", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"available"}`, w.Body.String())
	})

	t.Run("reports unavailable when the ping fails", func(t *testing.T) {
		fixture := newServerWithPinger(t, &mockPinger{err: assert.AnError})

		w := fixture.get("/health/db", "")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"status":"unavailable"}`, w.Body.String())
	})

	t.Run("reports unavailable without a pinger", func(t *testing.T) {
		fixture := newServerFixture(t)

		w := fixture.get("/health/db", "")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"status":"unavailable"}`, w.Body.String())
	})
}
