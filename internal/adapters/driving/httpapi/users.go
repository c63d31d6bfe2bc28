package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/teampilot/internal/core/ports/driving"
)

// createUserRequest is the JSON body for creating a user account. Absent
// flags default to false, so new accounts start disabled unless the admin
// says otherwise.
type createUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
	Email    string `json:"email" binding:"omitempty,email"`
	Staff    bool   `json:"staff"`
	Admin    bool   `json:"admin"`
	Enabled  bool   `json:"enabled"`
}

func (s *Server) handleCurrentUser(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		abortUnauthorized(c)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

func (s *Server) handleCreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	user, err := s.ports.Users.CreateUser(c.Request.Context(), driving.NewUser{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Email:    req.Email,
		Staff:    req.Staff,
		Admin:    req.Admin,
		Enabled:  req.Enabled,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newUserResponse(user))
}

func (s *Server) handleListUsers(c *gin.Context) {
	users, err := s.ports.Users.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]userResponse, 0, len(users))
	for i := range users {
		responses = append(responses, newUserResponse(&users[i]))
	}

	c.JSON(http.StatusOK, responses)
}

func (s *Server) handleGetUser(c *gin.Context) {
	user, err := s.ports.Users.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

func (s *Server) handleDeleteUser(c *gin.Context) {
	user, err := s.ports.Users.DeleteUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	message := fmt.Sprintf("User %s (%s) deleted.", user.ID, user.Username)
	c.JSON(http.StatusOK, messageResponse{Message: message})
}
