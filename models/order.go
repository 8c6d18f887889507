package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusPreparing = "PREPARING"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

var orderStatuses = []string{StatusPending, StatusConfirmed, StatusPreparing, StatusCompleted, StatusCancelled}

type Order struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	UserID *uint `gorm:"index" json:"user_id,omitempty"`
	// Omitted from JSON; orders are exposed through their own response shape.
	User                *User           `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	CustomerEmail       *string         `gorm:"type:varchar(255);index" json:"customer_email,omitempty"`
	CustomerName        string          `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerPhone       string          `gorm:"type:varchar(20);not null" json:"customer_phone"`
	DeliveryAddress     string          `gorm:"type:varchar(255)" json:"delivery_address"`
	SpecialInstructions string          `gorm:"type:text" json:"special_instructions"`
	Items               []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"items"`
	TotalAmount         decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"total_amount"`
	Status              string          `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	Version             uint            `gorm:"not null;default:1" json:"-"`
	CreatedAt           time.Time       `gorm:"not null;index" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"not null" json:"updated_at"`
}

// NewOrder validates the customer fields and every item, links the owner
// when there is one, and computes the total.
func NewOrder(owner *User, customerName, customerPhone, deliveryAddress, specialInstructions string, items []OrderItem) (*Order, error) {
	customerName = strings.TrimSpace(customerName)
	customerPhone = strings.TrimSpace(customerPhone)
	if customerName == "" {
		return nil, NewValidationError("customerName", "is required")
	}
	if customerPhone == "" {
		return nil, NewValidationError("customerPhone", "is required")
	}
	for i, item := range items {
		if err := item.Validate(); err != nil {
			if ve, ok := err.(*ValidationError); ok {
				ve.Field = "items[" + strconv.Itoa(i) + "]." + ve.Field
			}
			return nil, err
		}
	}

	o := &Order{
		CustomerName:        customerName,
		CustomerPhone:       customerPhone,
		DeliveryAddress:     strings.TrimSpace(deliveryAddress),
		SpecialInstructions: strings.TrimSpace(specialInstructions),
		Status:              StatusPending,
		Items:               make([]OrderItem, 0, len(items)),
	}
	if owner != nil {
		id := owner.ID
		o.UserID = &id
	}
	for _, item := range items {
		item.OrderID = o.ID
		o.Items = append(o.Items, item)
	}
	o.RecalculateTotal()
	return o, nil
}

// AddItem appends item, points it at o and recomputes the total.
func (o *Order) AddItem(item OrderItem) {
	item.OrderID = o.ID
	o.Items = append(o.Items, item)
	o.RecalculateTotal()
}

// RemoveItem detaches the item with the given id and returns it with its
// back-reference cleared.
func (o *Order) RemoveItem(itemID uint) (OrderItem, error) {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return o.RemoveItemAt(i)
		}
	}
	return OrderItem{}, NewNotFoundError("order item", itemID)
}

func (o *Order) RemoveItemAt(index int) (OrderItem, error) {
	if index < 0 || index >= len(o.Items) {
		return OrderItem{}, NewNotFoundError("order item at index", index)
	}
	item := o.Items[index]
	o.Items = append(o.Items[:index:index], o.Items[index+1:]...)
	item.OrderID = 0
	o.RecalculateTotal()
	return item, nil
}

func (o *Order) RecalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	o.TotalAmount = total
}

// TransitionStatus is the only way status changes. Any member of the status
// set may follow any other; workflow restrictions live in TransitionPolicy.
func (o *Order) TransitionStatus(status string) error {
	if !IsValidStatus(status) {
		return &InvalidStatusError{Status: status}
	}
	o.Status = status
	return nil
}

// SetCreatedAt keeps the current value when t is nil.
func (o *Order) SetCreatedAt(t *time.Time) {
	if t != nil && !t.IsZero() {
		o.CreatedAt = *t
	}
}

// OnFirstSave stamps the creation time unless one was supplied and defaults
// the status.
func (o *Order) OnFirstSave(now time.Time) {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	if o.Status == "" {
		o.Status = StatusPending
	}
}

// SetOwnerEmail records the denormalized customer email if none is set yet.
func (o *Order) SetOwnerEmail(email string) {
	email = strings.TrimSpace(email)
	if email == "" || (o.CustomerEmail != nil && *o.CustomerEmail != "") {
		return
	}
	o.CustomerEmail = &email
}

func (o *Order) BeforeSave(tx *gorm.DB) error {
	o.RecalculateTotal()
	return nil
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if tx != nil && tx.Config != nil && tx.NowFunc != nil {
		now = tx.NowFunc()
	}
	o.OnFirstSave(now)
	if o.Version == 0 {
		o.Version = 1
	}
	return nil
}

func IsValidStatus(status string) bool {
	for _, s := range orderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func OrderStatuses() []string {
	out := make([]string, len(orderStatuses))
	copy(out, orderStatuses)
	return out
}
