// Package inventory is the stock ledger: consumables, their costing and reorder thresholds.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"cafe-pos/internal/audit"
	"cafe-pos/internal/auth"
	"cafe-pos/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrItemNotFound = errors.New("stock item not found")

type Store struct {
	db    *gorm.DB
	audit audit.Recorder
}

func NewStore(db *gorm.DB, rec audit.Recorder) *Store {
	return &Store{db: db, audit: rec}
}

func (s *Store) List(ctx context.Context) ([]models.StockItem, error) {
	var items []models.StockItem
	if err := s.db.WithContext(ctx).Order("name").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	return items, nil
}

// Low returns the items at or below their threshold.
func (s *Store) Low(ctx context.Context) ([]models.StockItem, error) {
	var items []models.StockItem
	if err := s.db.WithContext(ctx).Where("qty <= low_stock_threshold").Order("name").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	return items, nil
}

// Value is the worth of everything on the shelves right now.
func (s *Store) Value(ctx context.Context) (decimal.Decimal, error) {
	items, err := s.List(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Value())
	}
	return total, nil
}

func fmtQty(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Save creates the item when ID is zero and updates it otherwise.
func (s *Store) Save(ctx context.Context, actor *auth.Identity, it *models.StockItem) error {
	if it.PriceQty <= 0 {
		it.PriceQty = 1
	}
	db := s.db.WithContext(ctx)
	if it.ID == 0 {
		if err := db.Create(it).Error; err != nil {
			return fmt.Errorf("create stock item: %w", err)
		}
		s.audit.Record(ctx, actor, "Create Stock", "Created stock item: "+it.Name)
		return nil
	}

	if err := db.Select("id").First(&models.StockItem{}, it.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		return err
	}
	err := db.Model(&models.StockItem{ID: it.ID}).
		Select("name", "qty", "unit", "price", "price_qty", "low_stock_threshold").
		Updates(it).Error
	if err != nil {
		return fmt.Errorf("update stock item %d: %w", it.ID, err)
	}
	s.audit.Record(ctx, actor, "Update Stock",
		fmt.Sprintf("Updated stock item: %s to %s %s", it.Name, fmtQty(it.Qty), it.Unit))
	return nil
}

func (s *Store) Delete(ctx context.Context, actor *auth.Identity, id uint) error {
	db := s.db.WithContext(ctx)
	name := fmt.Sprint(id)
	var it models.StockItem
	if err := db.Select("id", "name").First(&it, id).Error; err == nil {
		name = it.Name
	}
	if err := db.Delete(&models.StockItem{}, id).Error; err != nil {
		return fmt.Errorf("delete stock item %d: %w", id, err)
	}
	s.audit.Record(ctx, actor, "Delete Stock", "Deleted stock item: "+name)
	return nil
}
