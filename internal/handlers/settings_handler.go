package handlers

import (
	"net/http"

	"cafe-pos/internal/middleware"
	"cafe-pos/internal/settings"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	Settings *settings.Store
}

// Get returns a flat object; numeric values come back as numbers.
func (h *SettingsHandler) Get(c *gin.Context) {
	all, err := h.Settings.All(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, all)
}

func (h *SettingsHandler) Set(c *gin.Context) {
	var values map[string]interface{}
	if err := c.ShouldBindJSON(&values); err != nil {
		badRequest(c, "Invalid input")
		return
	}
	if err := h.Settings.Set(c.Request.Context(), middleware.CurrentUser(c), values); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ok)
}
