package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is a line of an order. It refers back to its order by id only;
// the Order owns the slice that holds it.
type OrderItem struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	OrderID      uint            `gorm:"not null;index" json:"order_id"`
	MenuItemID   uint            `gorm:"not null" json:"menu_item_id"`
	MenuItemName string          `gorm:"type:varchar(100);not null" json:"menu_item_name"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt    time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null" json:"updated_at"`
}

// NewOrderItem builds a validated line from a menu snapshot.
func NewOrderItem(menuItemID uint, name string, quantity int, price decimal.Decimal) (OrderItem, error) {
	item := OrderItem{
		MenuItemID:   menuItemID,
		MenuItemName: strings.TrimSpace(name),
		Quantity:     quantity,
		Price:        price,
	}
	if err := item.Validate(); err != nil {
		return OrderItem{}, err
	}
	return item, nil
}

func (i OrderItem) Validate() error {
	if i.MenuItemID == 0 {
		return NewValidationError("menuItemId", "is required")
	}
	if i.MenuItemName == "" {
		return NewValidationError("menuItemName", "is required")
	}
	if i.Quantity < 1 {
		return NewValidationError("quantity", "must be at least 1, got %d", i.Quantity)
	}
	if !i.Price.IsPositive() {
		return NewValidationError("price", "must be greater than 0, got %s", i.Price.String())
	}
	return nil
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
