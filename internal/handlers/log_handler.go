package handlers

import (
	"net/http"

	"cafe-pos/internal/audit"
	"cafe-pos/internal/middleware"

	"github.com/gin-gonic/gin"
)

type LogHandler struct {
	Audit *audit.Log
}

func (h *LogHandler) List(c *gin.Context) {
	entries, err := h.Audit.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *LogHandler) Clear(c *gin.Context) {
	if err := h.Audit.Clear(c.Request.Context(), middleware.CurrentUser(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ok)
}
