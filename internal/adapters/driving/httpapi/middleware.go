package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/teampilot/internal/core/domain"
	"github.com/custodia-labs/teampilot/internal/logger"
)

// userKey is the gin context key holding the authenticated user.
const userKey = "httpapi.user"

// requestLogger logs each request with its status and duration.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// authenticate verifies the bearer token and stores the user in the
// request context. Requests without a valid token get 401 with a
// WWW-Authenticate challenge.
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token == "" {
			abortUnauthorized(c)
			return
		}

		user, err := s.ports.Auth.VerifyToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidCredentials) {
				abortUnauthorized(c)
				return
			}
			logger.Error("Token verification failed: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// requireStaff rejects users without document management rights.
func requireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil || !user.Staff {
			abortForbidden(c)
			return
		}
		c.Next()
	}
}

// requireAdmin rejects users without user management rights.
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil || !user.Admin {
			abortForbidden(c)
			return
		}
		c.Next()
	}
}

// currentUser returns the authenticated user stored by authenticate, or nil.
func currentUser(c *gin.Context) *domain.User {
	value, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, ok := value.(*domain.User)
	if !ok {
		return nil
	}
	return user
}

func abortUnauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": domain.ErrInvalidCredentials.Error()})
}

func abortForbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": domain.ErrForbidden.Error()})
}
