package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cafe-pos/internal/models"

	"gorm.io/gorm"
)

// Get loads one order with its status and items.
func (s *Service) Get(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("Status").Preload("Items").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	list := []models.Order{order}
	if err := s.hydrate(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

// List returns the active tab (archived=false) or the archive, newest first.
func (s *Service) List(ctx context.Context, archived bool) ([]models.Order, error) {
	return s.find(ctx, s.db.Where("is_archived = ?", archived))
}

// Active is the kitchen queue: not archived and neither ready nor cancelled.
func (s *Service) Active(ctx context.Context) ([]models.Order, error) {
	var doneIDs []uint
	err := s.db.WithContext(ctx).Model(&models.OrderStatus{}).
		Where("LOWER(label) IN ?", finishedStatuses).
		Pluck("id", &doneIDs).Error
	if err != nil {
		return nil, fmt.Errorf("load finished statuses: %w", err)
	}

	q := s.db.Where("is_archived = ?", false)
	if len(doneIDs) > 0 {
		q = q.Where("status_id NOT IN ?", doneIDs)
	}
	return s.find(ctx, q)
}

// Statuses lists the status vocabulary in seed order.
func (s *Service) Statuses(ctx context.Context) ([]models.OrderStatus, error) {
	var statuses []models.OrderStatus
	if err := s.db.WithContext(ctx).Order("id").Find(&statuses).Error; err != nil {
		return nil, fmt.Errorf("list statuses: %w", err)
	}
	return statuses, nil
}

func (s *Service) statusByLabel(ctx context.Context, label string) (*models.OrderStatus, error) {
	key := strings.ToLower(strings.TrimSpace(label))
	if key == "" {
		return nil, nil
	}
	var status models.OrderStatus
	err := s.db.WithContext(ctx).Where("LOWER(label) = ?", key).First(&status).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find status %q: %w", label, err)
	}
	return &status, nil
}

func (s *Service) find(ctx context.Context, q *gorm.DB) ([]models.Order, error) {
	var orders []models.Order
	err := q.WithContext(ctx).
		Preload("Status").
		Preload("Items").
		Order("created_at desc, id desc").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if err := s.hydrate(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// hydrate copies the status display fields onto each order and looks up the
// current Arabic product name for every line.
func (s *Service) hydrate(ctx context.Context, orders []models.Order) error {
	seen := map[uint]bool{}
	var productIDs []uint
	for _, o := range orders {
		for _, it := range o.Items {
			if !seen[it.ProductID] {
				seen[it.ProductID] = true
				productIDs = append(productIDs, it.ProductID)
			}
		}
	}

	namesAr := map[uint]string{}
	if len(productIDs) > 0 {
		var products []models.Product
		err := s.db.WithContext(ctx).Select("id", "name_ar").Where("id IN ?", productIDs).Find(&products).Error
		if err != nil {
			return fmt.Errorf("load product names: %w", err)
		}
		for _, p := range products {
			namesAr[p.ID] = p.NameAr
		}
	}

	for i := range orders {
		o := &orders[i]
		o.StatusName = strings.ToLower(o.Status.Label)
		o.Label = o.Status.Label
		o.LabelAr = o.Status.LabelAr
		o.Color = o.Status.Color
		if o.Items == nil {
			o.Items = []models.OrderItem{}
		}
		for j := range o.Items {
			o.Items[j].NameAr = namesAr[o.Items[j].ProductID]
		}
	}
	return nil
}
