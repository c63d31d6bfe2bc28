package httpapi

import (
	"context"
	"io"

	"github.com/custodia-labs/teampilot/internal/core/domain"
	"github.com/custodia-labs/teampilot/internal/core/ports/driving"
)

// mockAuthService is a mock implementation of driving.AuthService. Tokens
// map directly to users; unknown tokens are invalid credentials.
type mockAuthService struct {
	token     string
	loginErr  error
	verifyErr error
	users     map[string]*domain.User

	lastUsername string
	lastPassword string
}

func (m *mockAuthService) Login(_ context.Context, username, password string) (string, error) {
	m.lastUsername = username
	m.lastPassword = password
	if m.loginErr != nil {
		return "", m.loginErr
	}
	return m.token, nil
}

func (m *mockAuthService) VerifyToken(_ context.Context, token string) (*domain.User, error) {
	if m.verifyErr != nil {
		return nil, m.verifyErr
	}
	user, ok := m.users[token]
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// mockUserService is a mock implementation of driving.UserService.
type mockUserService struct {
	user  *domain.User
	users []domain.User
	err   error

	created   driving.NewUser
	gotID     string
	deletedID string
}

func (m *mockUserService) CreateUser(_ context.Context, input driving.NewUser) (*domain.User, error) {
	m.created = input
	return m.user, m.err
}

func (m *mockUserService) GetUser(_ context.Context, id string) (*domain.User, error) {
	m.gotID = id
	return m.user, m.err
}

func (m *mockUserService) ListUsers(_ context.Context) ([]domain.User, error) {
	return m.users, m.err
}

func (m *mockUserService) DeleteUser(_ context.Context, id string) (*domain.User, error) {
	m.deletedID = id
	return m.user, m.err
}

// mockDocService is a mock implementation of driving.DocumentService.
// Note: prefixed with "Doc" rather than "Document" to avoid a conflict
// with the mcp adapter's mock when grepping across packages.
type mockDocService struct {
	document  *domain.Document
	documents []domain.Document
	err       error

	createdName string
	updatedID   string
	updatedName string
	payload     string
	gotID       string
	deletedID   string
	processed   []string
}

func (m *mockDocService) Create(_ context.Context, name string, file io.Reader) (*domain.Document, error) {
	m.createdName = name
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	m.payload = string(data)
	return m.document, m.err
}

func (m *mockDocService) Update(_ context.Context, id, name string, file io.Reader) (*domain.Document, error) {
	m.updatedID = id
	m.updatedName = name
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	m.payload = string(data)
	return m.document, m.err
}

func (m *mockDocService) Get(_ context.Context, id string) (*domain.Document, error) {
	m.gotID = id
	return m.document, m.err
}

func (m *mockDocService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocService) Delete(_ context.Context, id string) (*domain.Document, error) {
	m.deletedID = id
	return m.document, m.err
}

func (m *mockDocService) Process(_ context.Context, _ string) error {
	return m.err
}

func (m *mockDocService) ProcessAsync(id string) {
	m.processed = append(m.processed, id)
}

// mockChatService is a mock implementation of driving.ChatService. It
// replays the configured tokens on a buffered channel.
type mockChatService struct {
	tokens []domain.Token
	err    error

	lastText string
}

func (m *mockChatService) Query(_ context.Context, text string) (<-chan domain.Token, error) {
	m.lastText = text
	if m.err != nil {
		return nil, m.err
	}
	ch := make(chan domain.Token, len(m.tokens))
	for _, token := range m.tokens {
		ch <- token
	}
	close(ch)
	return ch, nil
}

// mockPinger is a mock implementation of Pinger.
type mockPinger struct {
	err error
}

func (m *mockPinger) Health(_ context.Context) error {
	return m.err
}
