package expenses

import (
	"context"
	"testing"
	"time"

	"cafe-pos/internal/audit"
	"cafe-pos/internal/database/dbtest"
	"cafe-pos/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	now := time.Date(2026, 10, 17, 15, 4, 5, 0, time.UTC)

	d, err := ParseDate("2026-03-01", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2026-03-01T10:00:00+02:00", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("01/03/2026", now)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestArchiveCycle(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	s := NewStore(db, audit.New(db, zerolog.Nop()))

	older := &models.Expense{Title: "Rent", Amount: 500, Category: "Rent", Date: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)}
	newer := &models.Expense{Title: "Beans", Amount: 80, Category: "Supplies", Date: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, s.Save(ctx, nil, older))
	require.NoError(t, s.Save(ctx, nil, newer))

	active, err := s.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Beans", active[0].Title)

	require.NoError(t, s.Archive(ctx, nil, older.ID))
	active, err = s.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, active, 1)
	archived, err := s.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, "Rent", archived[0].Title)

	require.NoError(t, s.Unarchive(ctx, nil, older.ID))
	active, err = s.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	newer.Amount = 95
	require.NoError(t, s.Save(ctx, nil, newer))
	require.NoError(t, s.Delete(ctx, nil, older.ID))
	active, err = s.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, 95.0, active[0].Amount)

	// no date on update keeps the stored one
	require.NoError(t, s.Save(ctx, nil, &models.Expense{ID: newer.ID, Title: "Beans", Amount: 95, Category: "Supplies"}))
	var kept models.Expense
	require.NoError(t, db.First(&kept, newer.ID).Error)
	assert.True(t, kept.Date.Equal(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)), kept.Date.String())

	err = s.Save(ctx, nil, &models.Expense{ID: 404, Title: "x", Amount: 1, Category: "x", Date: time.Now()})
	assert.ErrorIs(t, err, ErrExpenseNotFound)
}
