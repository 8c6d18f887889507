package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/restaurant-orders/models"
	"github.com/yeremiapane/restaurant-orders/utils"
)

// Order events published after a change is committed.
const (
	EventOrderCreated       = "order_created"
	EventOrderUpdated       = "order_updated"
	EventOrderStatusChanged = "order_status_changed"
	EventOrderDeleted       = "order_deleted"
)

type ItemInput struct {
	MenuItemID uint
	Quantity   int
}

type CreateOrderInput struct {
	// Owner is the authenticated caller, nil for guest checkout.
	Owner               *utils.Principal
	CustomerName        string
	CustomerPhone       string
	CustomerEmail       string
	DeliveryAddress     string
	SpecialInstructions string
	Items               []ItemInput
	CreatedAt           *time.Time
}

type OrderService struct {
	orders OrderStore
	users  UserStore
	menu   *MenuCatalog
	policy models.TransitionPolicy
	events OrderEventPublisher
}

func NewOrderService(orders OrderStore, users UserStore, menu *MenuCatalog, policy models.TransitionPolicy, events OrderEventPublisher) *OrderService {
	if policy == nil {
		policy = models.PermissivePolicy{}
	}
	return &OrderService{
		orders: orders,
		users:  users,
		menu:   menu,
		policy: policy,
		events: events,
	}
}

// CreateOrder snapshots every line from the menu, links the order to the
// caller when authenticated and persists it with its items.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	log := utils.LoggerFromContext(ctx)

	items := make([]models.OrderItem, 0, len(in.Items))
	for i, line := range in.Items {
		item, err := s.menu.Snapshot(ctx, line.MenuItemID, line.Quantity)
		if err != nil {
			var ve *models.ValidationError
			if errors.As(err, &ve) {
				ve.Field = "items[" + strconv.Itoa(i) + "]." + ve.Field
			}
			return nil, err
		}
		items = append(items, item)
	}

	owner, err := s.ownerOf(ctx, in.Owner)
	if err != nil {
		return nil, err
	}

	order, err := models.NewOrder(owner, in.CustomerName, in.CustomerPhone, in.DeliveryAddress, in.SpecialInstructions, items)
	if err != nil {
		return nil, err
	}
	order.SetOwnerEmail(in.CustomerEmail)
	if owner != nil {
		order.SetOwnerEmail(owner.Email)
	}
	order.SetCreatedAt(in.CreatedAt)

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"items":    len(order.Items),
		"total":    order.TotalAmount.StringFixed(2),
		"guest":    owner == nil,
	}).Info("Order created")
	s.publish(ctx, EventOrderCreated, order)
	return order, nil
}

// ownerOf loads the caller's user record. A token for a user that no longer
// exists places the order as a guest.
func (s *OrderService) ownerOf(ctx context.Context, p *utils.Principal) (*models.User, error) {
	if p == nil || p.UserID == 0 {
		return nil, nil
	}
	user, err := s.users.FindByID(ctx, p.UserID)
	if errors.Is(err, models.ErrNotFound) {
		utils.LoggerFromContext(ctx).WithField("user_id", p.UserID).Warn("Authenticated user not found, creating guest order")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load order owner: %w", err)
	}
	return user, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	return s.orders.FindByID(ctx, id)
}

func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.orders.FindAll(ctx)
}

func (s *OrderService) ListByUserID(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.orders.FindByUserID(ctx, userID)
}

func (s *OrderService) ListByUserEmail(ctx context.Context, email string) ([]models.Order, error) {
	return s.orders.FindByUserEmail(ctx, email)
}

func (s *OrderService) ListByUserPhone(ctx context.Context, phone string) ([]models.Order, error) {
	return s.orders.FindByUserPhone(ctx, phone)
}

// TransitionStatus moves the order to status under the configured policy.
// On any failure the stored status is unchanged.
func (s *OrderService) TransitionStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	var from string
	order, err := s.orders.Mutate(ctx, id, func(o *models.Order) error {
		from = o.Status
		return o.TransitionStatusWith(s.policy, status)
	})
	if err != nil {
		return nil, err
	}

	utils.LoggerFromContext(ctx).WithFields(logrus.Fields{
		"order_id": id,
		"from":     from,
		"to":       order.Status,
	}).Info("Order status changed")
	s.publish(ctx, EventOrderStatusChanged, order)
	return order, nil
}

func (s *OrderService) AddItem(ctx context.Context, orderID uint, in ItemInput) (*models.Order, error) {
	item, err := s.menu.Snapshot(ctx, in.MenuItemID, in.Quantity)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.Mutate(ctx, orderID, func(o *models.Order) error {
		o.AddItem(item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, EventOrderUpdated, order)
	return order, nil
}

func (s *OrderService) RemoveItem(ctx context.Context, orderID, itemID uint) (*models.Order, error) {
	order, err := s.orders.Mutate(ctx, orderID, func(o *models.Order) error {
		_, err := o.RemoveItem(itemID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, EventOrderUpdated, order)
	return order, nil
}

// DeleteOrder removes the order and all of its items.
func (s *OrderService) DeleteOrder(ctx context.Context, id uint) error {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}
	utils.LoggerFromContext(ctx).WithField("order_id", id).Info("Order deleted")
	s.publish(ctx, EventOrderDeleted, order)
	return nil
}

func (s *OrderService) publish(ctx context.Context, event string, order *models.Order) {
	if s.events != nil {
		s.events.PublishOrderEvent(ctx, event, order)
	}
}
