package handlers

import (
	"net/http"

	"cafe-pos/internal/inventory"
	"cafe-pos/internal/middleware"
	"cafe-pos/internal/models"

	"github.com/gin-gonic/gin"
)

type StockRequest struct {
	ID                uint    `json:"id"`
	Name              string  `json:"name" binding:"required"`
	Qty               float64 `json:"qty"`
	Unit              string  `json:"unit" binding:"required"`
	Price             float64 `json:"price" binding:"gte=0"`
	PriceQty          float64 `json:"price_qty" binding:"gte=0"`
	LowStockThreshold float64 `json:"low_stock_threshold"`
}

type StockHandler struct {
	Inventory *inventory.Store
}

func (h *StockHandler) List(c *gin.Context) {
	items, err := h.Inventory.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Low is the reorder list.
func (h *StockHandler) Low(c *gin.Context) {
	items, err := h.Inventory.Low(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *StockHandler) Save(c *gin.Context) {
	var req StockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid input")
		return
	}
	item := &models.StockItem{
		ID:                req.ID,
		Name:              req.Name,
		Qty:               req.Qty,
		Unit:              req.Unit,
		Price:             req.Price,
		PriceQty:          req.PriceQty,
		LowStockThreshold: req.LowStockThreshold,
	}
	if err := h.Inventory.Save(c.Request.Context(), middleware.CurrentUser(c), item); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": item.ID})
}

func (h *StockHandler) Delete(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	if err := h.Inventory.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ok)
}
