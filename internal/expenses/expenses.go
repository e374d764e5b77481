// Package expenses records outgoing money. Archived expenses drop out of the reports.
package expenses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cafe-pos/internal/audit"
	"cafe-pos/internal/auth"
	"cafe-pos/internal/models"

	"gorm.io/gorm"
)

var (
	ErrExpenseNotFound = errors.New("expense not found")
	ErrInvalidDate     = errors.New("invalid expense date")
)

const dateLayout = "2006-01-02"

// ParseDate accepts a calendar day (2026-03-01) or a full RFC 3339 timestamp.
// An empty value means today.
func ParseDate(v string, now time.Time) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		y, m, d := now.UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	if t, err := time.Parse(dateLayout, v); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, v)
	}
	return t.UTC(), nil
}

type Store struct {
	db    *gorm.DB
	audit audit.Recorder
}

func NewStore(db *gorm.DB, rec audit.Recorder) *Store {
	return &Store{db: db, audit: rec}
}

// List returns active (archived=false) or archived expenses, latest date first.
func (s *Store) List(ctx context.Context, archived bool) ([]models.Expense, error) {
	var out []models.Expense
	err := s.db.WithContext(ctx).
		Where("is_archived = ?", archived).
		Order("date desc, id desc").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return out, nil
}

// Save creates the expense when ID is zero and updates it otherwise.
// On update a zero Date keeps the stored one.
func (s *Store) Save(ctx context.Context, actor *auth.Identity, e *models.Expense) error {
	db := s.db.WithContext(ctx)
	if e.ID == 0 {
		if err := db.Create(e).Error; err != nil {
			return fmt.Errorf("create expense: %w", err)
		}
		s.audit.Record(ctx, actor, "Create Expense", fmt.Sprintf("Created expense: %s ($%.2f)", e.Title, e.Amount))
		return nil
	}

	columns := []string{"title", "amount", "category"}
	if !e.Date.IsZero() {
		columns = append(columns, "date")
	}
	res := db.Model(&models.Expense{ID: e.ID}).Select(columns).Updates(e)
	if res.Error != nil {
		return fmt.Errorf("update expense %d: %w", e.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		if err := db.Select("id").First(&models.Expense{}, e.ID).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrExpenseNotFound
		}
	}
	s.audit.Record(ctx, actor, "Update Expense", fmt.Sprintf("Updated expense: %s ($%.2f)", e.Title, e.Amount))
	return nil
}

func (s *Store) setArchived(ctx context.Context, id uint, archived bool) error {
	err := s.db.WithContext(ctx).Model(&models.Expense{}).Where("id = ?", id).Update("is_archived", archived).Error
	if err != nil {
		return fmt.Errorf("set expense %d archived=%t: %w", id, archived, err)
	}
	return nil
}

func (s *Store) Archive(ctx context.Context, actor *auth.Identity, id uint) error {
	if err := s.setArchived(ctx, id, true); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, "Archive Expense", fmt.Sprintf("Archived expense ID: %d", id))
	return nil
}

func (s *Store) Unarchive(ctx context.Context, actor *auth.Identity, id uint) error {
	if err := s.setArchived(ctx, id, false); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, "Unarchive Expense", fmt.Sprintf("Restored expense ID: %d", id))
	return nil
}

func (s *Store) Delete(ctx context.Context, actor *auth.Identity, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&models.Expense{}, id).Error; err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	s.audit.Record(ctx, actor, "Delete Expense", fmt.Sprintf("Deleted expense ID: %d", id))
	return nil
}
