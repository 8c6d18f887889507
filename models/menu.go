package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	CategoryAppetizer  = "APPETIZER"
	CategoryMainCourse = "MAIN_COURSE"
	CategoryDessert    = "DESSERT"
	CategoryBeverage   = "BEVERAGE"
)

var menuCategories = []string{CategoryAppetizer, CategoryMainCourse, CategoryDessert, CategoryBeverage}

// MenuItem is a purchasable item. Order lines copy its name and price when
// they are created, so later edits here never reach existing orders.
type MenuItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(100);not null;unique" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Category    string          `gorm:"type:varchar(20);not null;index" json:"category"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
}

// NormalizeCategory upper-cases a category name and reports whether it is known.
func NormalizeCategory(category string) (string, bool) {
	c := strings.ToUpper(strings.TrimSpace(category))
	for _, known := range menuCategories {
		if c == known {
			return c, true
		}
	}
	return c, false
}

func MenuCategories() []string {
	out := make([]string, len(menuCategories))
	copy(out, menuCategories)
	return out
}
