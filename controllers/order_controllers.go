package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-orders/middlewares"
	"github.com/yeremiapane/restaurant-orders/models"
	"github.com/yeremiapane/restaurant-orders/services"
	"github.com/yeremiapane/restaurant-orders/utils"
)

type OrderController struct {
	Orders *services.OrderService
	Lookup *services.OrderLookupService
}

func NewOrderController(orders *services.OrderService, lookup *services.OrderLookupService) *OrderController {
	return &OrderController{Orders: orders, Lookup: lookup}
}

// CreateOrder -> guest or authenticated checkout
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var body CreateOrderRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	in := services.CreateOrderInput{
		CustomerName:        body.CustomerName,
		CustomerPhone:       body.CustomerPhone,
		CustomerEmail:       body.CustomerEmail,
		DeliveryAddress:     body.DeliveryAddress,
		SpecialInstructions: body.SpecialInstructions,
		Items:               make([]services.ItemInput, 0, len(body.Items)),
		CreatedAt:           body.CreatedAt.Ptr(),
	}
	for _, item := range body.Items {
		in.Items = append(in.Items, services.ItemInput{MenuItemID: item.MenuItemID, Quantity: item.Quantity})
	}
	if p, ok := middlewares.PrincipalFrom(c); ok {
		in.Owner = &p
	}

	order, err := oc.Orders.CreateOrder(c.Request.Context(), in)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order created", NewOrderResponse(order))
}

// GetAllOrders -> every order, newest first
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := oc.Orders.ListAll(c.Request.Context())
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", NewOrderResponses(orders))
}

// GetMyOrders -> orders of the caller across every identity path
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	p, ok := middlewares.PrincipalFrom(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user not authenticated"))
		return
	}

	orders, err := oc.Lookup.ForPrincipal(c.Request.Context(), p.Email)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of my orders", NewOrderResponses(orders))
}

func (oc *OrderController) GetOrdersByUserID(c *gin.Context) {
	userID, ok := parseID(c, "user_id")
	if !ok {
		return
	}
	orders, err := oc.Orders.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", NewOrderResponses(orders))
}

// GetOrdersByUserEmail -> only the caller's own email is allowed
func (oc *OrderController) GetOrdersByUserEmail(c *gin.Context) {
	email := c.Param("email")
	p, _ := middlewares.PrincipalFrom(c)
	if !strings.EqualFold(p.Email, email) {
		utils.LoggerFromContext(c.Request.Context()).WithField("requested", email).Warn("Access denied to another user's orders")
		utils.RespondError(c, http.StatusForbidden, errors.New("access denied"))
		return
	}

	orders, err := oc.Orders.ListByUserEmail(c.Request.Context(), email)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", NewOrderResponses(orders))
}

func (oc *OrderController) GetOrdersByUserPhone(c *gin.Context) {
	orders, err := oc.Orders.ListByUserPhone(c.Request.Context(), c.Param("phone"))
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", NewOrderResponses(orders))
}

// GetOrderByID -> detail 1 order
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, ok := parseID(c, "order_id")
	if !ok {
		return
	}
	order, err := oc.Orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", NewOrderResponse(order))
}

// UpdateOrderStatus accepts {"status": "..."}, a JSON string or a bare word.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseID(c, "order_id")
	if !ok {
		return
	}
	status, err := readStatus(c.Request.Body)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.TransitionStatus(c.Request.Context(), id, status)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", NewOrderResponse(order))
}

func readStatus(r io.Reader) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(r, 1<<10))
	if err != nil {
		return "", fmt.Errorf("read status: %w", err)
	}
	trimmed := strings.TrimSpace(string(raw))

	var body struct {
		Status string `json:"status"`
	}
	var quoted string
	switch {
	case json.Unmarshal([]byte(trimmed), &body) == nil && body.Status != "":
		trimmed = body.Status
	case json.Unmarshal([]byte(trimmed), &quoted) == nil:
		trimmed = quoted
	}

	status := strings.TrimSpace(trimmed)
	if status == "" {
		return "", errors.New("status is required")
	}
	return status, nil
}

func (oc *OrderController) AddOrderItem(c *gin.Context) {
	id, ok := parseID(c, "order_id")
	if !ok {
		return
	}
	var body OrderItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	order, err := oc.Orders.AddItem(c.Request.Context(), id, services.ItemInput{MenuItemID: body.MenuItemID, Quantity: body.Quantity})
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item added", NewOrderResponse(order))
}

func (oc *OrderController) RemoveOrderItem(c *gin.Context) {
	id, ok := parseID(c, "order_id")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "item_id")
	if !ok {
		return
	}

	order, err := oc.Orders.RemoveItem(c.Request.Context(), id, itemID)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item removed", NewOrderResponse(order))
}

// DeleteOrder -> removes the order together with its items
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, ok := parseID(c, "order_id")
	if !ok {
		return
	}
	if err := oc.Orders.DeleteOrder(c.Request.Context(), id); err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order deleted", nil)
}

// parseID reads a positive numeric path parameter, answering 400 otherwise.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		utils.RespondDomainError(c, models.NewValidationError(name, "must be a positive integer"))
		return 0, false
	}
	return uint(id), true
}
