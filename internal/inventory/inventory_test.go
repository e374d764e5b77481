package inventory

import (
	"context"
	"testing"

	"cafe-pos/internal/audit"
	"cafe-pos/internal/database/dbtest"
	"cafe-pos/internal/models"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsLow(t *testing.T) {
	assert.True(t, models.StockItem{Qty: 3, LowStockThreshold: 5}.IsLow())
	assert.True(t, models.StockItem{Qty: 5, LowStockThreshold: 5}.IsLow())
	assert.False(t, models.StockItem{Qty: 10, LowStockThreshold: 5}.IsLow())
}

func TestUnitCostAndValue(t *testing.T) {
	beans := models.StockItem{Qty: 2500, Price: 30, PriceQty: 1000}
	assert.True(t, beans.UnitCost().Equal(decimal.RequireFromString("0.03")))
	assert.True(t, beans.Value().Equal(decimal.NewFromInt(75)))

	// a missing costing quantity counts as one unit
	cups := models.StockItem{Qty: 10, Price: 0.5, PriceQty: 0}
	assert.True(t, cups.Value().Equal(decimal.NewFromInt(5)))
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	s := NewStore(db, audit.New(db, zerolog.Nop()))

	milk := &models.StockItem{Name: "Milk", Qty: 3, Unit: "L", Price: 1.2, PriceQty: 1, LowStockThreshold: 5}
	cups := &models.StockItem{Name: "Cups", Qty: 200, Unit: "pcs", Price: 10, LowStockThreshold: 50}
	require.NoError(t, s.Save(ctx, nil, milk))
	require.NoError(t, s.Save(ctx, nil, cups))
	assert.Equal(t, 1.0, cups.PriceQty)

	low, err := s.Low(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Milk", low[0].Name)

	milk.Qty = 12
	require.NoError(t, s.Save(ctx, nil, milk))
	low, err = s.Low(ctx)
	require.NoError(t, err)
	assert.Empty(t, low)

	value, err := s.Value(ctx)
	require.NoError(t, err)
	assert.True(t, value.Equal(decimal.RequireFromString("2014.4")), value.String())

	require.NoError(t, s.Delete(ctx, nil, cups.ID))
	items, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	assert.ErrorIs(t, s.Save(ctx, nil, &models.StockItem{ID: 77, Name: "x"}), ErrItemNotFound)
}
