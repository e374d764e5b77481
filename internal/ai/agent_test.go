package ai

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cafe-pos/internal/audit"
	"cafe-pos/internal/auth"
	"cafe-pos/internal/catalog"
	"cafe-pos/internal/database/dbtest"
	"cafe-pos/internal/events"
	"cafe-pos/internal/inventory"
	"cafe-pos/internal/models"
	"cafe-pos/internal/orders"
	"cafe-pos/internal/reports"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAgent(t *testing.T, apiKey string) (*Agent, *catalog.Store, *inventory.Store) {
	db := dbtest.Open(t)
	rec := audit.New(db, zerolog.Nop())
	cat := catalog.NewStore(db, rec)
	inv := inventory.NewStore(db, rec)
	ord := orders.NewService(db, rec, events.NewHub(1), zerolog.Nop())
	a := NewAgent(apiKey, "gemini-test", cat, inv, reports.NewEngine(db), ord, zerolog.Nop())
	a.now = func() time.Time { return time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC) }
	return a, cat, inv
}

func decode(t *testing.T, resp map[string]interface{}, into interface{}) {
	t.Helper()
	require.NotContains(t, resp, "error")
	raw, ok := resp["result"].(string)
	require.True(t, ok)
	require.NoError(t, json.Unmarshal([]byte(raw), into))
}

func TestAsk_Disabled(t *testing.T) {
	a, _, _ := newAgent(t, "")
	assert.False(t, a.Enabled())
	_, err := a.Ask(context.Background(), nil, "hello")
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestSystemPrompt_HasDate(t *testing.T) {
	a, _, _ := newAgent(t, "key")
	assert.Contains(t, a.systemPrompt(), "Today is 2026-10-17")
}

func TestDispatch_CheckStock(t *testing.T) {
	ctx := context.Background()
	a, _, inv := newAgent(t, "key")
	require.NoError(t, inv.Save(ctx, nil, &models.StockItem{Name: "Milk", Qty: 2, Unit: "L", LowStockThreshold: 5}))

	var items []models.StockItem
	decode(t, a.dispatch(ctx, nil, "check_stock", nil), &items)
	require.Len(t, items, 1)
	assert.Equal(t, "Milk", items[0].Name)
}

func TestDispatch_UpdatePrice(t *testing.T) {
	ctx := context.Background()
	a, cat, _ := newAgent(t, "key")
	p := &models.Product{Name: "Mocha", Price: 4}
	require.NoError(t, cat.SaveProduct(ctx, nil, p))
	admin := &auth.Identity{ID: 1, Name: "Haidar", Role: models.RoleAdmin}

	resp := a.dispatch(ctx, admin, "update_product_price", map[string]interface{}{
		"product_id": float64(p.ID),
		"new_price":  4.75,
	})
	var out map[string]interface{}
	decode(t, resp, &out)
	assert.Equal(t, "Success", out["status"])

	products, err := cat.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4.75, products[0].Price)

	resp = a.dispatch(ctx, admin, "update_product_price", map[string]interface{}{"product_id": 999.0, "new_price": 1.0})
	assert.Contains(t, resp, "error")
}

func TestDispatch_StatsAndUnknown(t *testing.T) {
	ctx := context.Background()
	a, _, _ := newAgent(t, "key")

	var st reports.Stats
	decode(t, a.dispatch(ctx, nil, "get_stats", map[string]interface{}{"timeframe": "weekly"}), &st)
	assert.Equal(t, reports.Weekly, st.Timeframe)

	var active []models.Order
	decode(t, a.dispatch(ctx, nil, "list_active_orders", nil), &active)
	assert.Empty(t, active)

	assert.Contains(t, a.dispatch(ctx, nil, "drop_tables", nil), "error")
}

func TestResponseParts(t *testing.T) {
	assert.Equal(t, fallbackReply, printResponse(nil))

	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []genai.Part{
			genai.Text("Milk is low. "),
			genai.FunctionCall{Name: "check_stock"},
			genai.Text("Reorder soon."),
		}},
	}}}
	assert.Equal(t, "Milk is low. Reorder soon.", printResponse(resp))

	calls := functionCalls(resp)
	require.Len(t, calls, 1)
	assert.Equal(t, "check_stock", calls[0].Name)
}
