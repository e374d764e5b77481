package settings

import (
	"context"
	"testing"

	"cafe-pos/internal/audit"
	"cafe-pos/internal/database/dbtest"
	"cafe-pos/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeededExchangeRate(t *testing.T) {
	db := dbtest.Open(t)
	s := NewStore(db, audit.New(db, zerolog.Nop()))

	rate, err := s.ExchangeRate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 89500.0, rate)
}

func TestSetUpserts(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	s := NewStore(db, audit.New(db, zerolog.Nop()))

	require.NoError(t, s.Set(ctx, nil, map[string]interface{}{
		ExchangeRateKey: 90000.0,
		"shopName":      "Nine",
		"taxRate":       "0.11",
	}))

	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, 90000.0, all[ExchangeRateKey])
	assert.Equal(t, "Nine", all["shopName"])
	assert.Equal(t, 0.11, all["taxRate"])

	var count int64
	require.NoError(t, db.Model(&models.Setting{}).Where(&models.Setting{Key: ExchangeRateKey}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var entry models.AuditLog
	require.NoError(t, db.Where("action = ?", "Update Settings").First(&entry).Error)
	assert.Equal(t, "Changed system settings: exchangeRate, shopName, taxRate", entry.Details)
}

func TestSetNothing(t *testing.T) {
	db := dbtest.Open(t)
	s := NewStore(db, audit.New(db, zerolog.Nop()))
	require.NoError(t, s.Set(context.Background(), nil, nil))

	var count int64
	require.NoError(t, db.Model(&models.AuditLog{}).Count(&count).Error)
	assert.Zero(t, count)
}
