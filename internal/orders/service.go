// Package orders owns an order from the moment a customer places it until it is
// archived or deleted by staff.
package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cafe-pos/internal/audit"
	"cafe-pos/internal/auth"
	"cafe-pos/internal/events"
	"cafe-pos/internal/models"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrEmptyOrder      = errors.New("order must contain at least one item")
	ErrInvalidItem     = errors.New("invalid order item")
	ErrInvalidPayment  = errors.New("payment status must be 'paid' or 'unpaid'")
	ErrNoDefaultStatus = errors.New("no default order status configured")
)

// Status labels the kitchen queue leaves out.
var finishedStatuses = []string{"ready", "cancelled"}

// ItemInput is one requested line. ID is accepted as an alias of ProductID.
type ItemInput struct {
	ProductID uint    `json:"product_id"`
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Qty       int     `json:"qty"`
}

type Service struct {
	db     *gorm.DB
	audit  audit.Recorder
	events events.Publisher
	log    zerolog.Logger
}

func NewService(db *gorm.DB, rec audit.Recorder, pub events.Publisher, log zerolog.Logger) *Service {
	return &Service{
		db:     db,
		audit:  rec,
		events: pub,
		log:    log.With().Str("component", "orders").Logger(),
	}
}

// buildItems validates the requested lines and returns them with their total.
// With dropEmpty, zero-quantity lines are removed instead of rejected.
func buildItems(in []ItemInput, dropEmpty bool) ([]models.OrderItem, float64, error) {
	items := make([]models.OrderItem, 0, len(in))
	total := decimal.Zero
	for i, it := range in {
		if it.Qty == 0 && dropEmpty {
			continue
		}
		productID := it.ProductID
		if productID == 0 {
			productID = it.ID
		}
		switch {
		case productID == 0:
			return nil, 0, fmt.Errorf("%w: line %d has no product", ErrInvalidItem, i+1)
		case strings.TrimSpace(it.Name) == "":
			return nil, 0, fmt.Errorf("%w: line %d has no name", ErrInvalidItem, i+1)
		case it.Price < 0:
			return nil, 0, fmt.Errorf("%w: line %d has a negative price", ErrInvalidItem, i+1)
		case it.Qty < 1:
			return nil, 0, fmt.Errorf("%w: line %d quantity must be at least 1", ErrInvalidItem, i+1)
		}
		items = append(items, models.OrderItem{
			ProductID: productID,
			Name:      it.Name,
			Price:     it.Price,
			Qty:       it.Qty,
		})
		total = total.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Qty))))
	}
	if len(items) == 0 {
		return nil, 0, ErrEmptyOrder
	}
	return items, total.InexactFloat64(), nil
}

// Create stores a new order under the default status, unpaid. Any total the
// caller computed is ignored; the total is always derived from the lines.
// actor is nil for customer orders.
func (s *Service) Create(ctx context.Context, actor *auth.Identity, in []ItemInput) (*models.Order, error) {
	items, total, err := buildItems(in, false)
	if err != nil {
		return nil, err
	}

	order := models.Order{
		Total:         total,
		PaymentStatus: models.PaymentUnpaid,
		Items:         items,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var status models.OrderStatus
		if err := tx.Where("is_default = ?", true).First(&status).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoDefaultStatus
			}
			return err
		}
		order.StatusID = status.ID
		// GORM inserts the items with the header
		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.events.Publish(events.Event{Type: events.NewOrder, OrderID: order.ID})
	s.audit.Record(ctx, actor, "Customer Order",
		fmt.Sprintf("New order #%d placed from POS (Total: $%.2f)", order.ID, total))
	s.log.Info().Uint("order_id", order.ID).Float64("total", total).Msg("order created")

	return s.Get(ctx, order.ID)
}

// Update replaces the whole line-item set of an order and recomputes its total.
// Lines with quantity zero are dropped.
func (s *Service) Update(ctx context.Context, actor *auth.Identity, id uint, in []ItemInput) (*models.Order, error) {
	items, total, err := buildItems(in, true)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Select("id").First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if err := tx.Model(&order).Update("total", total).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = id
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update order %d: %w", id, err)
	}

	s.audit.Record(ctx, actor, "Update Order", fmt.Sprintf("Updated order #%d", id))
	return s.Get(ctx, id)
}

// SetStatus moves an order to the status whose label matches, ignoring case.
// Any status may follow any other. It reports false, and changes nothing,
// when the label is not part of the vocabulary.
func (s *Service) SetStatus(ctx context.Context, actor *auth.Identity, id uint, label string) (bool, error) {
	status, err := s.statusByLabel(ctx, label)
	if err != nil {
		return false, err
	}
	if status == nil {
		s.log.Debug().Uint("order_id", id).Str("label", label).Msg("ignoring unknown status")
		return false, nil
	}

	if err := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).
		Update("status_id", status.ID).Error; err != nil {
		return false, fmt.Errorf("set status of order %d: %w", id, err)
	}
	s.audit.Record(ctx, actor, "Update Order Status", fmt.Sprintf("Order #%d set to %s", id, label))
	return true, nil
}

// SetPaymentStatus marks an order paid or unpaid, whatever its status.
func (s *Service) SetPaymentStatus(ctx context.Context, actor *auth.Identity, id uint, payment string) error {
	payment = strings.ToLower(strings.TrimSpace(payment))
	if payment != models.PaymentPaid && payment != models.PaymentUnpaid {
		return ErrInvalidPayment
	}
	if err := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).
		Update("payment_status", payment).Error; err != nil {
		return fmt.Errorf("set payment of order %d: %w", id, err)
	}
	s.audit.Record(ctx, actor, "Update Order Payment", fmt.Sprintf("Order #%d set to %s", id, payment))
	return nil
}

func (s *Service) setArchived(ctx context.Context, id uint, archived bool) error {
	return s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).
		Update("is_archived", archived).Error
}

// Archive hides an order from the active views. Archiving twice is harmless.
func (s *Service) Archive(ctx context.Context, actor *auth.Identity, id uint) error {
	if err := s.setArchived(ctx, id, true); err != nil {
		return fmt.Errorf("archive order %d: %w", id, err)
	}
	s.audit.Record(ctx, actor, "Archive Order", fmt.Sprintf("Archived order #%d", id))
	return nil
}

func (s *Service) Unarchive(ctx context.Context, actor *auth.Identity, id uint) error {
	if err := s.setArchived(ctx, id, false); err != nil {
		return fmt.Errorf("unarchive order %d: %w", id, err)
	}
	s.audit.Record(ctx, actor, "Unarchive Order", fmt.Sprintf("Unarchived order #%d", id))
	return nil
}

// BulkArchive archives the given orders in one statement and returns how many rows changed.
func (s *Service) BulkArchive(ctx context.Context, actor *auth.Identity, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Model(&models.Order{}).Where("id IN ?", ids).Update("is_archived", true)
	if res.Error != nil {
		return 0, fmt.Errorf("bulk archive: %w", res.Error)
	}

	labels := make([]string, len(ids))
	for i, id := range ids {
		labels[i] = fmt.Sprint(id)
	}
	s.audit.Record(ctx, actor, "Bulk Archive Orders", "Archived orders: "+strings.Join(labels, ", "))
	return res.RowsAffected, nil
}

// ArchiveAll archives every order that is still active.
func (s *Service) ArchiveAll(ctx context.Context, actor *auth.Identity) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Order{}).Where("is_archived = ?", false).Update("is_archived", true)
	if res.Error != nil {
		return 0, fmt.Errorf("archive all: %w", res.Error)
	}
	s.audit.Record(ctx, actor, "Archive All Orders", "Archived all active orders")
	return res.RowsAffected, nil
}

// Delete permanently removes an order and its items.
func (s *Service) Delete(ctx context.Context, actor *auth.Identity, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("delete order %d: %w", id, err)
	}
	s.audit.Record(ctx, actor, "Delete Order", fmt.Sprintf("Deleted order #%d", id))
	return nil
}

// ClearAll permanently removes every order, archived or not.
func (s *Service) ClearAll(ctx context.Context, actor *auth.Identity) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&models.Order{}).Error
	})
	if err != nil {
		return fmt.Errorf("clear orders: %w", err)
	}
	s.audit.Record(ctx, actor, "Clear Orders History", "Deleted all order records permanently")
	return nil
}
