package handlers

import (
	"net/http"
	"time"

	"cafe-pos/internal/expenses"
	"cafe-pos/internal/middleware"
	"cafe-pos/internal/models"

	"github.com/gin-gonic/gin"
)

type ExpenseRequest struct {
	ID       uint    `json:"id"`
	Title    string  `json:"title" binding:"required"`
	Amount   float64 `json:"amount" binding:"gte=0"`
	Category string  `json:"category"`
	Date     string  `json:"date"` // YYYY-MM-DD or RFC 3339; empty means today, or unchanged on update
}

type ExpenseHandler struct {
	Expenses *expenses.Store
}

func (h *ExpenseHandler) list(c *gin.Context, archived bool) {
	out, err := h.Expenses.List(c.Request.Context(), archived)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *ExpenseHandler) List(c *gin.Context)     { h.list(c, false) }
func (h *ExpenseHandler) Archived(c *gin.Context) { h.list(c, true) }

func (h *ExpenseHandler) Save(c *gin.Context) {
	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid input")
		return
	}
	var date time.Time
	if req.ID == 0 || req.Date != "" {
		var err error
		if date, err = expenses.ParseDate(req.Date, time.Now()); err != nil {
			fail(c, err)
			return
		}
	}
	category := req.Category
	if category == "" {
		category = "General"
	}
	e := &models.Expense{ID: req.ID, Title: req.Title, Amount: req.Amount, Category: category, Date: date}
	if err := h.Expenses.Save(c.Request.Context(), middleware.CurrentUser(c), e); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": e.ID})
}

func (h *ExpenseHandler) mutate(c *gin.Context, op func(*gin.Context, uint) error) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	if err := op(c, id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ok)
}

func (h *ExpenseHandler) Archive(c *gin.Context) {
	h.mutate(c, func(c *gin.Context, id uint) error {
		return h.Expenses.Archive(c.Request.Context(), middleware.CurrentUser(c), id)
	})
}

func (h *ExpenseHandler) Unarchive(c *gin.Context) {
	h.mutate(c, func(c *gin.Context, id uint) error {
		return h.Expenses.Unarchive(c.Request.Context(), middleware.CurrentUser(c), id)
	})
}

func (h *ExpenseHandler) Delete(c *gin.Context) {
	h.mutate(c, func(c *gin.Context, id uint) error {
		return h.Expenses.Delete(c.Request.Context(), middleware.CurrentUser(c), id)
	})
}
