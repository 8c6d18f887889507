package controllers

import (
	"github.com/yeremiapane/restaurant-orders/models"
	"github.com/yeremiapane/restaurant-orders/utils"
)

type OrderItemRequest struct {
	MenuItemID uint `json:"menuItemId"`
	Quantity   int  `json:"quantity"`
}

// CreateOrderRequest carries no prices or totals; those come from the menu.
type CreateOrderRequest struct {
	CustomerName        string               `json:"customerName"`
	CustomerPhone       string               `json:"customerPhone"`
	CustomerEmail       string               `json:"customerEmail"`
	DeliveryAddress     string               `json:"deliveryAddress"`
	SpecialInstructions string               `json:"specialInstructions"`
	Items               []OrderItemRequest   `json:"items"`
	CreatedAt           *utils.LocalDateTime `json:"createdAt"`
}

type OrderItemResponse struct {
	ID           uint    `json:"id"`
	MenuItemID   uint    `json:"menuItemId"`
	MenuItemName string  `json:"menuItemName"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	ItemTotal    float64 `json:"itemTotal"`
}

type OrderResponse struct {
	ID                  uint                `json:"id"`
	CustomerName        string              `json:"customerName"`
	CustomerPhone       string              `json:"customerPhone"`
	CustomerEmail       *string             `json:"customerEmail,omitempty"`
	DeliveryAddress     string              `json:"deliveryAddress"`
	SpecialInstructions string              `json:"specialInstructions"`
	TotalAmount         float64             `json:"totalAmount"`
	Status              string              `json:"status"`
	CreatedAt           utils.LocalDateTime `json:"createdAt"`
	Items               []OrderItemResponse `json:"items"`
}

func NewOrderResponse(o *models.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ID:           item.ID,
			MenuItemID:   item.MenuItemID,
			MenuItemName: item.MenuItemName,
			Quantity:     item.Quantity,
			Price:        item.Price.InexactFloat64(),
			ItemTotal:    item.LineTotal().InexactFloat64(),
		})
	}
	return OrderResponse{
		ID:                  o.ID,
		CustomerName:        o.CustomerName,
		CustomerPhone:       o.CustomerPhone,
		CustomerEmail:       o.CustomerEmail,
		DeliveryAddress:     o.DeliveryAddress,
		SpecialInstructions: o.SpecialInstructions,
		TotalAmount:         o.TotalAmount.InexactFloat64(),
		Status:              o.Status,
		CreatedAt:           utils.LocalDateTime{Time: o.CreatedAt},
		Items:               items,
	}
}

func NewOrderResponses(orders []models.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderResponse(&orders[i]))
	}
	return out
}

type MenuItemResponse struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
}

func NewMenuItemResponses(items []models.MenuItem) []MenuItemResponse {
	out := make([]MenuItemResponse, 0, len(items))
	for _, m := range items {
		out = append(out, MenuItemResponse{
			ID:          m.ID,
			Name:        m.Name,
			Description: m.Description,
			Price:       m.Price.InexactFloat64(),
			Category:    m.Category,
		})
	}
	return out
}

type RegisterRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// LoginRequest accepts the identifier under any of its historical names.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Password   string `json:"password" binding:"required"`
}

func (r LoginRequest) LoginIdentifier() string {
	switch {
	case r.Identifier != "":
		return r.Identifier
	case r.Email != "":
		return r.Email
	default:
		return r.Phone
	}
}

type AuthResponse struct {
	Token    string `json:"token"`
	Type     string `json:"type"`
	UserID   uint   `json:"userId"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}
