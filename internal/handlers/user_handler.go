package handlers

import (
	"net/http"

	"cafe-pos/internal/middleware"
	"cafe-pos/internal/staff"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	Staff *staff.Store
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Staff.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Save creates a user, or updates it when the body carries an id.
func (h *UserHandler) Save(c *gin.Context) {
	var in staff.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid input")
		return
	}
	user, err := h.Staff.Save(c.Request.Context(), middleware.CurrentUser(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	if err := h.Staff.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ok)
}
