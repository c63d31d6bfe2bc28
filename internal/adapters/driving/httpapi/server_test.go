package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/teampilot/internal/core/domain"
)

// Tokens accepted by the fixture's auth service, one per tier.
const (
	adminToken = "admin-token"
	staffToken = "staff-token"
	userToken  = "user-token"
)

// testMaxDocSize keeps upload-limit tests small.
const testMaxDocSize = 64

type serverFixture struct {
	auth   *mockAuthService
	users  *mockUserService
	docs   *mockDocService
	chat   *mockChatService
	server *Server
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	auth := &mockAuthService{
		token: "issued-token",
		users: map[string]*domain.User{
			adminToken: {ID: "u-admin", Username: "root", Staff: true, Admin: true, Enabled: true, CreatedAt: now, UpdatedAt: now},
			staffToken: {ID: "u-staff", Username: "librarian", Staff: true, Enabled: true, CreatedAt: now, UpdatedAt: now},
			userToken:  {ID: "u-plain", Username: "reader", Enabled: true, CreatedAt: now, UpdatedAt: now},
		},
	}
	users := &mockUserService{}
	docs := &mockDocService{}
	chat := &mockChatService{}

	server, err := NewServer("127.0.0.1:0", testMaxDocSize, Ports{
		Auth:      auth,
		Documents: docs,
		Users:     users,
		Chat:      chat,
	})
	require.NoError(t, err)

	return &serverFixture{auth: auth, users: users, docs: docs, chat: chat, server: server}
}

func (f *serverFixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.server.engine.ServeHTTP(w, req)
	return w
}

func (f *serverFixture) get(target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return f.do(req)
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

// --- Tests ---

func TestNewServer(t *testing.T) {
	t.Run("creates server with valid ports", func(t *testing.T) {
		fixture := newServerFixture(t)
		assert.NotNil(t, fixture.server)
		assert.Equal(t, int64(testMaxDocSize), fixture.server.maxDocSize)
	})

	t.Run("applies default upload limit", func(t *testing.T) {
		server, err := NewServer("127.0.0.1:0", 0, Ports{
			Auth:      &mockAuthService{},
			Documents: &mockDocService{},
			Users:     &mockUserService{},
			Chat:      &mockChatService{},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(10*1024*1024), server.maxDocSize)
	})

	t.Run("fails without required ports", func(t *testing.T) {
		_, err := NewServer("127.0.0.1:0", 0, Ports{})
		assert.Error(t, err)
	})
}

func TestPorts_Validate(t *testing.T) {
	auth := &mockAuthService{}
	docs := &mockDocService{}
	users := &mockUserService{}
	chat := &mockChatService{}

	tests := []struct {
		name    string
		ports   Ports
		wantErr string
	}{
		{
			name:  "all required ports set",
			ports: Ports{Auth: auth, Documents: docs, Users: users, Chat: chat},
		},
		{
			name:    "missing auth service",
			ports:   Ports{Documents: docs, Users: users, Chat: chat},
			wantErr: "auth service is required",
		},
		{
			name:    "missing document service",
			ports:   Ports{Auth: auth, Users: users, Chat: chat},
			wantErr: "document service is required",
		},
		{
			name:    "missing user service",
			ports:   Ports{Auth: auth, Documents: docs, Chat: chat},
			wantErr: "user service is required",
		},
		{
			name:    "missing chat service",
			ports:   Ports{Auth: auth, Documents: docs, Users: users},
			wantErr: "chat service is required",
		},
		{
			name:  "health port is optional",
			ports: Ports{Auth: auth, Documents: docs, Users: users, Chat: chat, Health: &mockPinger{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestAuthentication(t *testing.T) {
	t.Run("rejects missing token", func(t *testing.T) {
		fixture := newServerFixture(t)

		w := fixture.get("/users/me", "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
		assert.Equal(t, "invalid credentials", errorBody(t, w))
	})

	t.Run("rejects non-bearer authorization", func(t *testing.T) {
		fixture := newServerFixture(t)

		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		req.Header.Set("Authorization", "Basic cm9vdDpyb290")
		w := fixture.do(req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
	})

	t.Run("rejects unknown token", func(t *testing.T) {
		fixture := newServerFixture(t)

		w := fixture.get("/users/me", "no-such-token")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
	})

	t.Run("reports verification failures as internal errors", func(t *testing.T) {
		fixture := newServerFixture(t)
		fixture.auth.verifyErr = errors.New("store offline")

		w := fixture.get("/users/me", userToken)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "internal server error", errorBody(t, w))
	})

	t.Run("accepts valid token", func(t *testing.T) {
		fixture := newServerFixture(t)

		w := fixture.get("/users/me", userToken)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestTierEnforcement(t *testing.T) {
	t.Run("plain user cannot manage documents", func(t *testing.T) {
		fixture := newServerFixture(t)

		w := fixture.get("/documents", userToken)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "forbidden", errorBody(t, w))
	})

	t.Run("staff cannot manage users", func(t *testing.T) {
		fixture := newServerFixture(t)

		w := fixture.get("/users", staffToken)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "forbidden", errorBody(t, w))
	})

	t.Run("staff can list documents", func(t *testing.T) {
		fixture := newServerFixture(t)

		w := fixture.get("/documents", staffToken)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("admin can list users", func(t *testing.T) {
		fixture := newServerFixture(t)

		w := fixture.get("/users", adminToken)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("any enabled user can read own profile", func(t *testing.T) {
		fixture := newServerFixture(t)

		w := fixture.get("/users/me", userToken)

		require.Equal(t, http.StatusOK, w.Code)
		var body userResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "reader", body.Username)
	})
}
