// Package settings stores system-wide key/value configuration such as the exchange rate.
package settings

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"cafe-pos/internal/audit"
	"cafe-pos/internal/auth"
	"cafe-pos/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ExchangeRateKey holds how many units of local currency one USD buys.
const ExchangeRateKey = "exchangeRate"

type Store struct {
	db    *gorm.DB
	audit audit.Recorder
}

func NewStore(db *gorm.DB, rec audit.Recorder) *Store {
	return &Store{db: db, audit: rec}
}

// All returns every setting. Values that parse as numbers come back as float64.
func (s *Store) All(ctx context.Context) (map[string]interface{}, error) {
	var rows []models.Setting
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	out := make(map[string]interface{}, len(rows))
	for _, r := range rows {
		if n, err := strconv.ParseFloat(r.Value, 64); err == nil {
			out[r.Key] = n
		} else {
			out[r.Key] = r.Value
		}
	}
	return out, nil
}

func encode(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	default:
		return fmt.Sprint(x)
	}
}

// Set upserts every key in values.
func (s *Store) Set(ctx context.Context, actor *auth.Identity, values map[string]interface{}) error {
	if len(values) == 0 {
		return nil
	}
	keys := make([]string, 0, len(values))
	rows := make([]models.Setting, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rows = append(rows, models.Setting{Key: k, Value: encode(values[k])})
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	s.audit.Record(ctx, actor, "Update Settings", "Changed system settings: "+strings.Join(keys, ", "))
	return nil
}

// ExchangeRate returns the stored rate, or 0 when unset or not a number.
func (s *Store) ExchangeRate(ctx context.Context) (float64, error) {
	var row models.Setting
	res := s.db.WithContext(ctx).Where(&models.Setting{Key: ExchangeRateKey}).Limit(1).Find(&row)
	if res.Error != nil {
		return 0, fmt.Errorf("load exchange rate: %w", res.Error)
	}
	rate, err := strconv.ParseFloat(row.Value, 64)
	if err != nil {
		return 0, nil
	}
	return rate, nil
}
