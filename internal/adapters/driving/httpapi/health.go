package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/teampilot/internal/logger"
)

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"name": Name, "version": Version})
}

func (s *Server) handleAppHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "available"})
}

func (s *Server) handleDBHealth(c *gin.Context) {
	if s.ports.Health == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	if err := s.ports.Health.Health(c.Request.Context()); err != nil {
		logger.Warn("Database health check failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "available"})
}
