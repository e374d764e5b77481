package handlers

import (
	"net/http"

	"cafe-pos/internal/catalog"
	"cafe-pos/internal/middleware"
	"cafe-pos/internal/models"

	"github.com/gin-gonic/gin"
)

type ProductRequest struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name" binding:"required"`
	NameAr        string  `json:"name_ar"`
	Description   string  `json:"description"`
	DescriptionAr string  `json:"description_ar"`
	Price         float64 `json:"price" binding:"gte=0"`
	Image         string  `json:"image"`
	CategoryID    *uint   `json:"category_id"`
}

type CategoryRequest struct {
	ID     uint   `json:"id"`
	Name   string `json:"name" binding:"required"`
	NameAr string `json:"name_ar"`
	Icon   string `json:"icon"`
}

type CatalogHandler struct {
	Catalog *catalog.Store
}

// --- GET: List active products ---
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.Catalog.Products(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// --- POST: Create, or update when id is set ---
func (h *CatalogHandler) SaveProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid input")
		return
	}
	p := &models.Product{
		ID:            req.ID,
		Name:          req.Name,
		NameAr:        req.NameAr,
		Description:   req.Description,
		DescriptionAr: req.DescriptionAr,
		Price:         req.Price,
		Image:         req.Image,
		CategoryID:    req.CategoryID,
	}
	if err := h.Catalog.SaveProduct(c.Request.Context(), middleware.CurrentUser(c), p); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": p.ID})
}

// --- DELETE: Hide a product; past orders keep pointing at it ---
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	if err := h.Catalog.DeactivateProduct(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ok)
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.Catalog.Categories(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *CatalogHandler) SaveCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid input")
		return
	}
	cat := &models.Category{ID: req.ID, Name: req.Name, NameAr: req.NameAr, Icon: req.Icon}
	if err := h.Catalog.SaveCategory(c.Request.Context(), middleware.CurrentUser(c), cat); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": cat.ID})
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	if err := h.Catalog.DeleteCategory(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ok)
}
