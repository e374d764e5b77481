package handlers

import (
	"errors"
	"net/http"

	"cafe-pos/internal/ai"
	"cafe-pos/internal/middleware"

	"github.com/gin-gonic/gin"
)

type AskRequest struct {
	Message string `json:"message" binding:"required"`
}

type AIHandler struct {
	Agent *ai.Agent
}

func (h *AIHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Message is required")
		return
	}

	if !h.Agent.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": ai.ErrDisabled.Error()})
		return
	}

	reply, err := h.Agent.Ask(c.Request.Context(), middleware.CurrentUser(c), req.Message)
	if err != nil {
		if errors.Is(err, ai.ErrDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Assistant request failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
