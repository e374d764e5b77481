package handlers

import (
	"net/http"

	"cafe-pos/internal/middleware"
	"cafe-pos/internal/orders"

	"github.com/gin-gonic/gin"
)

// OrderRequest is what the POS sends. A "total" field, if present, is ignored:
// the total is always recomputed from the lines.
type OrderRequest struct {
	Items []orders.ItemInput `json:"items" binding:"required"`
}

type UpdateOrderRequest struct {
	ID    uint               `json:"id" binding:"required"`
	Items []orders.ItemInput `json:"items" binding:"required"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type BulkArchiveRequest struct {
	IDs []uint `json:"ids"`
}

type OrderHandler struct {
	Orders *orders.Service
	// StrictStatus rejects unknown status labels with 400 instead of ignoring them
	StrictStatus bool
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	order, err := h.Orders.Create(c.Request.Context(), middleware.CurrentUser(c), req.Items)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": order.ID, "total": order.Total})
}

func (h *OrderHandler) list(c *gin.Context, archived bool) {
	out, err := h.Orders.List(c.Request.Context(), archived)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) List(c *gin.Context)     { h.list(c, false) }
func (h *OrderHandler) Archived(c *gin.Context) { h.list(c, true) }

// Active is the kitchen queue.
func (h *OrderHandler) Active(c *gin.Context) {
	out, err := h.Orders.Active(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	order, err := h.Orders.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) Statuses(c *gin.Context) {
	out, err := h.Orders.Statuses(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) Update(c *gin.Context) {
	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	order, err := h.Orders.Update(c.Request.Context(), middleware.CurrentUser(c), req.ID, req.Items)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "total": order.Total})
}

func (h *OrderHandler) SetStatus(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Status is required")
		return
	}
	changed, err := h.Orders.SetStatus(c.Request.Context(), middleware.CurrentUser(c), id, req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	if !changed && h.StrictStatus {
		badRequest(c, "Unknown status: "+req.Status)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "changed": changed})
}

func (h *OrderHandler) SetPayment(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Status is required")
		return
	}
	if err := h.Orders.SetPaymentStatus(c.Request.Context(), middleware.CurrentUser(c), id, req.Status); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ok)
}

func (h *OrderHandler) Archive(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	if err := h.Orders.Archive(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ok)
}

func (h *OrderHandler) Unarchive(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	if err := h.Orders.Unarchive(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ok)
}

func (h *OrderHandler) BulkArchive(c *gin.Context) {
	var req BulkArchiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	n, err := h.Orders.BulkArchive(c.Request.Context(), middleware.CurrentUser(c), req.IDs)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "archived": n})
}

func (h *OrderHandler) ArchiveAll(c *gin.Context) {
	n, err := h.Orders.ArchiveAll(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "archived": n})
}

func (h *OrderHandler) Delete(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	if err := h.Orders.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ok)
}

// Clear wipes every order and line, archived or not.
func (h *OrderHandler) Clear(c *gin.Context) {
	if err := h.Orders.ClearAll(c.Request.Context(), middleware.CurrentUser(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ok)
}
