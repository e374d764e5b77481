package database

import (
	"fmt"

	"cafe-pos/internal/auth"
	"cafe-pos/internal/models"

	"gorm.io/gorm"
)

// DefaultStatuses is the fixed order status vocabulary. Pending is the default for new orders.
var DefaultStatuses = []models.OrderStatus{
	{Label: "Pending", LabelAr: "قيد الانتظار", Color: "#f59e0b", IsDefault: true},
	{Label: "Preparing", LabelAr: "جاري التحضير", Color: "#3b82f6"},
	{Label: "Ready", LabelAr: "جاهز", Color: "#10b981"},
	{Label: "Cancelled", LabelAr: "ملغي", Color: "#ef4444"},
}

type seedUser struct {
	username, password, name, role string
	salary                         float64
}

var defaultUsers = []seedUser{
	{"admin", "123", "Haidar", models.RoleAdmin, 2000},
	{"cashier", "000", "Cashier", models.RoleCashier, 800},
}

// Seed fills a fresh database. It does nothing once any user exists.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, u := range defaultUsers {
			hash, err := auth.HashPassword(u.password)
			if err != nil {
				return err
			}
			user := models.User{Username: u.username, PasswordHash: hash, Name: u.name, Role: u.role, Salary: u.salary}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("seed user %s: %w", u.username, err)
			}
		}

		statuses := make([]models.OrderStatus, len(DefaultStatuses))
		copy(statuses, DefaultStatuses)
		if err := tx.Create(&statuses).Error; err != nil {
			return fmt.Errorf("seed statuses: %w", err)
		}

		if err := tx.Create(&models.Setting{Key: "exchangeRate", Value: "89500"}).Error; err != nil {
			return fmt.Errorf("seed settings: %w", err)
		}

		categories := []models.Category{
			{Name: "Hot Coffee", NameAr: "قهوة ساخنة", Icon: "Coffee"},
			{Name: "Cold Drinks", NameAr: "مشروبات باردة", Icon: "Milk"},
		}
		if err := tx.Create(&categories).Error; err != nil {
			return fmt.Errorf("seed categories: %w", err)
		}
		return nil
	})
}
