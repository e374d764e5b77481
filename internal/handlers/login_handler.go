package handlers

import (
	"net/http"

	"cafe-pos/internal/auth"
	"cafe-pos/internal/staff"

	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthHandler struct {
	Staff  *staff.Store
	Tokens *auth.TokenManager
}

// Login returns {user, token}. Unknown user and wrong password both answer 401.
func (h *AuthHandler) Login(c *gin.Context) {
	var input LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	user, err := h.Staff.Authenticate(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		fail(c, err)
		return
	}

	identity := auth.Identity{ID: user.ID, Username: user.Username, Name: user.Name, Role: user.Role}
	token, err := h.Tokens.GenerateToken(identity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": identity, "token": token})
}
