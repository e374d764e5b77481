// Package reports computes the financial summaries shown on the stats tab.
// Nothing is cached: every call reads the order, expense, stock and user tables again.
package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cafe-pos/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Timeframe string

const (
	Weekly  Timeframe = "weekly"
	Monthly Timeframe = "monthly"
	Yearly  Timeframe = "yearly"
	All     Timeframe = "all"
)

const topProductsLimit = 5

// ParseTimeframe maps a query value to a Timeframe. Anything unrecognised is All.
func ParseTimeframe(v string) Timeframe {
	switch tf := Timeframe(strings.ToLower(strings.TrimSpace(v))); tf {
	case Weekly, Monthly, Yearly:
		return tf
	default:
		return All
	}
}

// Since returns the start of the lookback window, or false when the window is unbounded.
// The window starts at midnight UTC so the oldest day counts in full.
func (t Timeframe) Since(now time.Time) (time.Time, bool) {
	var days int
	switch t {
	case Weekly:
		days = 7
	case Monthly:
		days = 30
	case Yearly:
		days = 365
	default:
		return time.Time{}, false
	}
	y, m, d := now.UTC().AddDate(0, 0, -days).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
}

type ProductSales struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Qty       int64  `json:"qty"`
}

type CategorySales struct {
	CategoryID uint    `json:"category_id"`
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
}

// Stats carries raw components; which costs to subtract for a net profit is the caller's choice.
type Stats struct {
	Timeframe             Timeframe       `json:"timeframe"`
	TotalRevenue          float64         `json:"totalRevenue"`
	TotalPotentialRevenue float64         `json:"totalPotentialRevenue"`
	UnpaidRevenue         float64         `json:"unpaidRevenue"`
	OrderCount            int64           `json:"orderCount"`
	AvgOrderValue         float64         `json:"avgOrderValue"`
	TotalExpenses         float64         `json:"totalExpenses"`
	StockValue            float64         `json:"stockValue"`
	LowStockCount         int             `json:"lowStockCount"`
	TotalSalaries         float64         `json:"totalSalaries"`
	TopProducts           []ProductSales  `json:"topProducts"`
	CategoryPerformance   []CategorySales `json:"categoryPerformance"`
}

// Cost components a caller may subtract from revenue.
type Deductions struct {
	Salaries bool
	Stock    bool
	Expenses bool
}

// NetProfit is revenue minus the selected cost components.
func (s *Stats) NetProfit(d Deductions) float64 {
	net := decimal.NewFromFloat(s.TotalRevenue)
	if d.Salaries {
		net = net.Sub(decimal.NewFromFloat(s.TotalSalaries))
	}
	if d.Stock {
		net = net.Sub(decimal.NewFromFloat(s.StockValue))
	}
	if d.Expenses {
		net = net.Sub(decimal.NewFromFloat(s.TotalExpenses))
	}
	return net.InexactFloat64()
}

type Engine struct {
	db  *gorm.DB
	now func() time.Time
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db, now: time.Now}
}

func within(q *gorm.DB, column string, since time.Time, bounded bool) *gorm.DB {
	if !bounded {
		return q
	}
	return q.Where(column+" >= ?", since)
}

// Compute builds the full summary for a timeframe.
func (e *Engine) Compute(ctx context.Context, tf Timeframe) (*Stats, error) {
	now := e.now().UTC()
	since, bounded := tf.Since(now)
	db := e.db.WithContext(ctx)
	st := &Stats{
		Timeframe:           tf,
		TopProducts:         []ProductSales{},
		CategoryPerformance: []CategorySales{},
	}

	// 1. Revenue. COALESCE gives 0 instead of NULL when nothing matches
	err := within(db.Model(&models.Order{}), "created_at", since, bounded).
		Where("payment_status = ?", models.PaymentPaid).
		Select("COALESCE(SUM(total), 0)").
		Scan(&st.TotalRevenue).Error
	if err != nil {
		return nil, fmt.Errorf("revenue: %w", err)
	}

	err = within(db.Model(&models.Order{}), "created_at", since, bounded).
		Select("COALESCE(SUM(total), 0)").
		Scan(&st.TotalPotentialRevenue).Error
	if err != nil {
		return nil, fmt.Errorf("potential revenue: %w", err)
	}

	// 2. Orders
	if err := within(db.Model(&models.Order{}), "created_at", since, bounded).Count(&st.OrderCount).Error; err != nil {
		return nil, fmt.Errorf("order count: %w", err)
	}

	revenue := decimal.NewFromFloat(st.TotalRevenue)
	st.UnpaidRevenue = decimal.NewFromFloat(st.TotalPotentialRevenue).Sub(revenue).InexactFloat64()
	denominator := st.OrderCount
	if denominator == 0 {
		denominator = 1
	}
	st.AvgOrderValue = revenue.Div(decimal.NewFromInt(denominator)).InexactFloat64()

	// 3. Expenses still on the books
	err = within(db.Model(&models.Expense{}), "date", since, bounded).
		Where("is_archived = ?", false).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&st.TotalExpenses).Error
	if err != nil {
		return nil, fmt.Errorf("expenses: %w", err)
	}

	// 4. Stock is a snapshot, not scoped to the window
	var stock []models.StockItem
	if err := db.Find(&stock).Error; err != nil {
		return nil, fmt.Errorf("stock: %w", err)
	}
	value := decimal.Zero
	for _, item := range stock {
		value = value.Add(item.Value())
		if item.IsLow() {
			st.LowStockCount++
		}
	}
	st.StockValue = value.InexactFloat64()

	// 5. Salaries
	salaries, err := e.salaries(db, tf, now)
	if err != nil {
		return nil, err
	}
	st.TotalSalaries = salaries

	// 6. Best sellers, keyed by product so a rename does not split the numbers
	top := within(db.Table("order_items AS oi"), "o.created_at", since, bounded).
		Select("oi.product_id AS product_id, COALESCE(MAX(p.name), MAX(oi.name)) AS name, SUM(oi.qty) AS qty").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Joins("LEFT JOIN products p ON p.id = oi.product_id").
		Group("oi.product_id").
		Order("qty DESC, oi.product_id ASC").
		Limit(topProductsLimit)
	if err := top.Scan(&st.TopProducts).Error; err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}

	// 7. Revenue per category
	cats := within(db.Table("order_items AS oi"), "o.created_at", since, bounded).
		Select("c.id AS category_id, c.name AS name, SUM(oi.price * oi.qty) AS value").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Joins("JOIN products p ON p.id = oi.product_id").
		Joins("JOIN categories c ON c.id = p.category_id").
		Group("c.id, c.name").
		Order("value DESC")
	if err := cats.Scan(&st.CategoryPerformance).Error; err != nil {
		return nil, fmt.Errorf("category performance: %w", err)
	}

	return st, nil
}

// salaries pro-rates the monthly payroll to the timeframe. For All it covers every
// calendar month since the first order, counting both ends.
func (e *Engine) salaries(db *gorm.DB, tf Timeframe, now time.Time) (float64, error) {
	var monthly float64
	if err := db.Model(&models.User{}).Select("COALESCE(SUM(salary), 0)").Scan(&monthly).Error; err != nil {
		return 0, fmt.Errorf("salaries: %w", err)
	}
	m := decimal.NewFromFloat(monthly)

	switch tf {
	case Weekly:
		return m.Div(decimal.NewFromInt(4)).InexactFloat64(), nil
	case Monthly:
		return m.InexactFloat64(), nil
	case Yearly:
		return m.Mul(decimal.NewFromInt(12)).InexactFloat64(), nil
	}

	var first models.Order
	err := db.Select("id", "created_at").Order("created_at ASC").First(&first).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m.InexactFloat64(), nil
	}
	if err != nil {
		return 0, fmt.Errorf("first order: %w", err)
	}
	months := MonthsSpanned(first.CreatedAt, now)
	return m.Mul(decimal.NewFromInt(int64(months))).InexactFloat64(), nil
}

// MonthsSpanned counts calendar months from start to end inclusive, at least 1.
func MonthsSpanned(start, end time.Time) int {
	start, end = start.UTC(), end.UTC()
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month()) + 1
	if months < 1 {
		return 1
	}
	return months
}
