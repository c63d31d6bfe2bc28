// Package httpapi provides the REST and SSE interface to Teampilot. It
// exposes authentication, user administration, document management and the
// streaming chat endpoint over HTTP using the gin framework.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/teampilot/internal/adapters/driven/storage/files"
	"github.com/custodia-labs/teampilot/internal/logger"
)

// Name and Version identify the service in the root banner.
const (
	Name    = "teampilot"
	Version = "0.1.0"
)

// shutdownTimeout bounds the drain period for in-flight requests.
const shutdownTimeout = 10 * time.Second

// Server is the HTTP server exposing the Teampilot API.
type Server struct {
	ports      Ports
	addr       string
	maxDocSize int64
	engine     *gin.Engine
}

// NewServer creates an HTTP server listening on addr. maxDocSize caps
// document uploads in bytes; zero or negative applies the default.
func NewServer(addr string, maxDocSize int64, ports Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}
	if maxDocSize <= 0 {
		maxDocSize = files.DefaultMaxFileSize
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())

	s := &Server{
		ports:      ports,
		addr:       addr,
		maxDocSize: maxDocSize,
		engine:     engine,
	}
	s.registerRoutes()

	return s, nil
}

func (s *Server) registerRoutes() {
	s.engine.GET("/", s.handleRoot)
	s.engine.POST("/auth/login", s.handleLogin)

	health := s.engine.Group("/health")
	{
		health.GET("/app", s.handleAppHealth)
		health.GET("/db", s.handleDBHealth)
	}

	users := s.engine.Group("/users", s.authenticate())
	{
		users.GET("/me", s.handleCurrentUser)

		admin := users.Group("", requireAdmin())
		{
			admin.POST("", s.handleCreateUser)
			admin.GET("", s.handleListUsers)
			admin.GET("/:id", s.handleGetUser)
			admin.DELETE("/:id", s.handleDeleteUser)
		}
	}

	documents := s.engine.Group("/documents", s.authenticate(), requireStaff())
	{
		documents.POST("", s.handleCreateDocument)
		documents.PUT("/:id", s.handleUpdateDocument)
		documents.GET("", s.handleListDocuments)
		documents.GET("/:id", s.handleGetDocument)
		documents.DELETE("/:id", s.handleDeleteDocument)
	}

	s.engine.POST("/chat", s.authenticate(), s.handleChat)
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests
// before returning.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.engine,
	}

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down HTTP server")
		drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		srv.Shutdown(drainCtx) //nolint:errcheck // best effort on shutdown
	}()

	logger.Info("HTTP server listening on %s", s.addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving HTTP: %w", err)
	}

	return nil
}
