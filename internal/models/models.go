package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Roles
const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

// Payment states of an order
const (
	PaymentPaid   = "paid"
	PaymentUnpaid = "unpaid"
)

// User - Staff member. Salary is monthly and only feeds the financial reports.
type User struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Username     string  `gorm:"uniqueIndex;size:50;not null" json:"username"`
	PasswordHash string  `gorm:"not null" json:"-"` // Never return this in JSON
	Name         string  `gorm:"not null" json:"name"`
	Role         string  `gorm:"size:20;not null" json:"role"` // 'admin', 'cashier'
	Salary       float64 `gorm:"default:0" json:"salary"`
}

// Category - Menu section. Icon is a symbolic glyph name resolved by the client.
type Category struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"not null" json:"name"`
	NameAr string `json:"name_ar"`
	Icon   string `json:"icon"`
}

// Product - Menu entry. Deleting a product only flips Active so old order items stay intact.
type Product struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	Name          string  `gorm:"not null" json:"name"`
	NameAr        string  `json:"name_ar"`
	Description   string  `json:"description"`
	DescriptionAr string  `json:"description_ar"`
	Price         float64 `gorm:"not null" json:"price"`
	Image         string  `json:"image"`
	CategoryID    *uint   `gorm:"index" json:"category_id"`
	Active        bool    `gorm:"default:true" json:"active"`
}

// StockItem - A consumable in the back room.
// Price is the cost of PriceQty units (e.g. 12.5 per 1000 g).
type StockItem struct {
	ID                uint    `gorm:"primaryKey" json:"id"`
	Name              string  `gorm:"not null" json:"name"`
	Qty               float64 `gorm:"not null" json:"qty"`
	Unit              string  `gorm:"not null" json:"unit"`
	Price             float64 `gorm:"default:0" json:"price"`
	PriceQty          float64 `gorm:"default:1" json:"price_qty"`
	LowStockThreshold float64 `gorm:"not null" json:"low_stock_threshold"`
}

func (StockItem) TableName() string { return "stock" }

// IsLow reports whether the item reached its reorder threshold.
func (s StockItem) IsLow() bool {
	return s.Qty <= s.LowStockThreshold
}

// UnitCost is the price of a single unit. A non-positive PriceQty counts as 1.
func (s StockItem) UnitCost() decimal.Decimal {
	per := decimal.NewFromFloat(s.PriceQty)
	if !per.IsPositive() {
		per = decimal.NewFromInt(1)
	}
	return decimal.NewFromFloat(s.Price).Div(per)
}

// Value is what the quantity on hand is worth at UnitCost.
func (s StockItem) Value() decimal.Decimal {
	return decimal.NewFromFloat(s.Qty).Mul(s.UnitCost())
}

// Expense - Money going out. Date is the day the expense applies to.
type Expense struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"not null" json:"title"`
	Amount     float64   `gorm:"not null" json:"amount"`
	Category   string    `gorm:"not null" json:"category"`
	Date       time.Time `gorm:"not null;index" json:"date"`
	IsArchived bool      `gorm:"default:false;index" json:"is_archived"`
}

// OrderStatus - Fixed vocabulary seeded at startup. Exactly one row is the default.
type OrderStatus struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Label     string `gorm:"not null" json:"label"`
	LabelAr   string `json:"label_ar"`
	Color     string `gorm:"not null" json:"color"`
	IsDefault bool   `gorm:"default:false" json:"is_default"`
}

// Order - The ticket header
type Order struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	StatusID      uint        `gorm:"index" json:"status_id"`
	Status        OrderStatus `gorm:"foreignKey:StatusID" json:"-"`
	Total         float64     `gorm:"not null" json:"total"`
	PaymentStatus string      `gorm:"size:10;default:unpaid" json:"payment_status"` // 'paid', 'unpaid'
	IsArchived    bool        `gorm:"default:false;index" json:"is_archived"`
	CreatedAt     time.Time   `gorm:"index" json:"created_at"`
	Items         []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`

	// Filled from Status after loading
	StatusName string `gorm:"-" json:"status"`
	Label      string `gorm:"-" json:"label"`
	LabelAr    string `gorm:"-" json:"label_ar"`
	Color      string `gorm:"-" json:"color"`
}

// OrderItem - A line on the ticket. Name and Price are snapshots taken when the order was placed.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"index;not null" json:"order_id"`
	ProductID uint    `gorm:"index" json:"product_id"`
	Name      string  `gorm:"not null" json:"name"`
	Price     float64 `gorm:"not null" json:"price"`
	Qty       int     `gorm:"not null" json:"qty"`

	// Current Arabic name of the product, when it still exists
	NameAr string `gorm:"-" json:"name_ar"`
}

// Setting - One key/value configuration row
type Setting struct {
	Key   string `gorm:"primaryKey;size:64" json:"key"`
	Value string `json:"value"`
}

// AuditLog - Append-only trail of mutating actions. UserID is nil for customer actions.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	UserName  string    `json:"user_name"`
	Action    string    `gorm:"not null" json:"action"`
	Details   string    `json:"details"`
	Timestamp time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
}
