// Package catalog manages menu categories and products.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"cafe-pos/internal/audit"
	"cafe-pos/internal/auth"
	"cafe-pos/internal/models"

	"gorm.io/gorm"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
)

var productColumns = []string{"name", "name_ar", "description", "description_ar", "price", "image", "category_id"}

type Store struct {
	db    *gorm.DB
	audit audit.Recorder
}

func NewStore(db *gorm.DB, rec audit.Recorder) *Store {
	return &Store{db: db, audit: rec}
}

// Products lists what can still be ordered. Inactive products are hidden.
func (s *Store) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Where("active = ?", true).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// SaveProduct creates the product when ID is zero and updates it otherwise.
func (s *Store) SaveProduct(ctx context.Context, actor *auth.Identity, p *models.Product) error {
	db := s.db.WithContext(ctx)
	if p.ID == 0 {
		p.Active = true
		if err := db.Create(p).Error; err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		s.audit.Record(ctx, actor, "Create Product", "Created product: "+p.Name)
		return nil
	}

	if err := db.Select("id").First(&models.Product{}, p.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	if err := db.Model(&models.Product{ID: p.ID}).Select(productColumns).Updates(p).Error; err != nil {
		return fmt.Errorf("update product %d: %w", p.ID, err)
	}
	s.audit.Record(ctx, actor, "Update Product", "Updated product: "+p.Name)
	return nil
}

// DeactivateProduct hides a product. Its rows stay so past order lines keep resolving.
func (s *Store) DeactivateProduct(ctx context.Context, actor *auth.Identity, id uint) error {
	db := s.db.WithContext(ctx)
	var p models.Product
	name := fmt.Sprint(id)
	if err := db.Select("id", "name").First(&p, id).Error; err == nil {
		name = p.Name
	}
	if err := db.Model(&models.Product{}).Where("id = ?", id).Update("active", false).Error; err != nil {
		return fmt.Errorf("deactivate product %d: %w", id, err)
	}
	s.audit.Record(ctx, actor, "Delete Product", "Deactivated product: "+name)
	return nil
}

func (s *Store) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *Store) SaveCategory(ctx context.Context, actor *auth.Identity, c *models.Category) error {
	db := s.db.WithContext(ctx)
	if c.ID == 0 {
		if err := db.Create(c).Error; err != nil {
			return fmt.Errorf("create category: %w", err)
		}
		s.audit.Record(ctx, actor, "Create Category", "Created category: "+c.Name)
		return nil
	}

	if err := db.Select("id").First(&models.Category{}, c.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	if err := db.Model(&models.Category{ID: c.ID}).Select("name", "name_ar", "icon").Updates(c).Error; err != nil {
		return fmt.Errorf("update category %d: %w", c.ID, err)
	}
	s.audit.Record(ctx, actor, "Update Category", "Updated category: "+c.Name)
	return nil
}

// DeleteCategory removes the category and detaches its products.
func (s *Store) DeleteCategory(ctx context.Context, actor *auth.Identity, id uint) error {
	name := fmt.Sprint(id)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Category
		if err := tx.First(&c, id).Error; err == nil {
			name = c.Name
		}
		if err := tx.Model(&models.Product{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Category{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	s.audit.Record(ctx, actor, "Delete Category", "Deleted category: "+name)
	return nil
}
