// Package audit keeps the append-only trail of staff and customer actions.
package audit

import (
	"context"
	"fmt"

	"cafe-pos/internal/auth"
	"cafe-pos/internal/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// SystemActor is the name stored when nobody is logged in (e.g. a customer placing an order).
const SystemActor = "System"

// Recorder is what other services need to leave a trace.
type Recorder interface {
	Record(ctx context.Context, actor *auth.Identity, action, details string)
}

type Log struct {
	db  *gorm.DB
	log zerolog.Logger
}

func New(db *gorm.DB, log zerolog.Logger) *Log {
	return &Log{db: db, log: log.With().Str("component", "audit").Logger()}
}

// Record appends an entry. Failures are reported on the logger and never returned.
func (l *Log) Record(ctx context.Context, actor *auth.Identity, action, details string) {
	entry := models.AuditLog{UserName: SystemActor, Action: action, Details: details}
	if actor != nil {
		id := actor.ID
		entry.UserID = &id
		entry.UserName = actor.Name
	}
	if err := l.db.WithContext(ctx).Create(&entry).Error; err != nil {
		l.log.Error().Err(err).Str("action", action).Msg("audit write failed")
	}
}

// List returns every entry, newest first.
func (l *Log) List(ctx context.Context) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	if err := l.db.WithContext(ctx).Order("timestamp desc, id desc").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return entries, nil
}

// Clear wipes the trail and then records that it was wiped.
func (l *Log) Clear(ctx context.Context, actor *auth.Identity) error {
	if err := l.db.WithContext(ctx).Where("1 = 1").Delete(&models.AuditLog{}).Error; err != nil {
		return fmt.Errorf("clear audit logs: %w", err)
	}
	l.Record(ctx, actor, "Clear Audit Logs", "Permanently cleared action history")
	return nil
}
