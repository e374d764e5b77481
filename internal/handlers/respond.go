package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"cafe-pos/internal/catalog"
	"cafe-pos/internal/expenses"
	"cafe-pos/internal/inventory"
	"cafe-pos/internal/orders"
	"cafe-pos/internal/staff"

	"github.com/gin-gonic/gin"
)

var ok = gin.H{"success": true}

var (
	notFound = []error{
		orders.ErrOrderNotFound, catalog.ErrProductNotFound, catalog.ErrCategoryNotFound,
		inventory.ErrItemNotFound, expenses.ErrExpenseNotFound, staff.ErrUserNotFound,
	}
	invalid = []error{
		orders.ErrEmptyOrder, orders.ErrInvalidItem, orders.ErrInvalidPayment, expenses.ErrInvalidDate,
		staff.ErrPasswordRequired, staff.ErrUsernameRequired, staff.ErrInvalidRole,
	}
)

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// fail maps a service error to a status. Anything unexpected is a 500 with a generic
// message; the real error is attached to the context for the request log.
func fail(c *gin.Context, err error) {
	switch {
	case isAny(err, notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case isAny(err, invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, staff.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, staff.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// idParam reads the :id path segment. It writes the 400 itself when the id is not a positive integer.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "Invalid ID")
		return 0, false
	}
	return uint(id), true
}
