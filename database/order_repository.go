package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-orders/models"
	"github.com/yeremiapane/restaurant-orders/utils"
)

const defaultMutateAttempts = 3

// OrderRepository persists order aggregates. Items are always loaded and
// written together with their order.
type OrderRepository struct {
	DB *gorm.DB
	// MutateAttempts bounds the optimistic-concurrency retries in Mutate.
	MutateAttempts int
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db, MutateAttempts: defaultMutateAttempts}
}

func itemsByID(db *gorm.DB) *gorm.DB {
	return db.Order("order_items.id asc")
}

func (r *OrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Preload("Items", itemsByID)
}

// Create inserts the order and its items in one statement group.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("User").Create(order).Error
	})
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.withItems(ctx).First(&order, id).Error; err != nil {
		return nil, notFound(err, "order", id)
	}
	return &order, nil
}

func (r *OrderRepository) FindAll(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := r.withItems(ctx).Order("created_at desc, id desc").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (r *OrderRepository) FindByUserID(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.withItems(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("find orders by user id: %w", err)
	}
	return orders, nil
}

// FindByUserEmail follows the owning user link; orders whose user_id is
// unset are invisible here.
func (r *OrderRepository) FindByUserEmail(ctx context.Context, email string) ([]models.Order, error) {
	var orders []models.Order
	err := r.withItems(ctx).
		Select("orders.*").
		Joins("JOIN users ON users.id = orders.user_id").
		Where("users.email = ?", email).
		Order("orders.created_at desc").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("find orders by user email: %w", err)
	}
	return orders, nil
}

// FindByCustomerEmail matches the email stored on the order itself.
func (r *OrderRepository) FindByCustomerEmail(ctx context.Context, email string) ([]models.Order, error) {
	var orders []models.Order
	err := r.withItems(ctx).
		Where("customer_email = ?", email).
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("find orders by customer email: %w", err)
	}
	return orders, nil
}

func (r *OrderRepository) FindByUserPhone(ctx context.Context, phone string) ([]models.Order, error) {
	var orders []models.Order
	err := r.withItems(ctx).
		Select("orders.*").
		Joins("JOIN users ON users.id = orders.user_id").
		Where("users.phone = ?", phone).
		Order("orders.created_at desc").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("find orders by user phone: %w", err)
	}
	return orders, nil
}

// Delete removes the order and every item it owns in one transaction.
func (r *OrderRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Select("id").First(&order, id).Error; err != nil {
			return notFound(err, "order", id)
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("delete order items: %w", err)
		}
		if err := tx.Delete(&models.Order{}, id).Error; err != nil {
			return fmt.Errorf("delete order: %w", err)
		}
		return nil
	})
}

// Mutate loads the order, applies fn to it and writes the result back under
// a version check. Items added by fn are inserted, items it removed are
// deleted. A version mismatch is retried with a fresh read up to
// MutateAttempts times, then reported as ErrConcurrentModification.
func (r *OrderRepository) Mutate(ctx context.Context, id uint, fn func(*models.Order) error) (*models.Order, error) {
	attempts := r.MutateAttempts
	if attempts <= 0 {
		attempts = defaultMutateAttempts
	}

	log := utils.LoggerFromContext(ctx)
	for attempt := 1; ; attempt++ {
		order, err := r.mutateOnce(ctx, id, fn)
		if !errors.Is(err, models.ErrConcurrentModification) || attempt >= attempts {
			return order, err
		}
		log.WithFields(logrus.Fields{
			"order_id": id,
			"attempt":  attempt,
		}).Warn("Order version conflict, retrying")
	}
}

func (r *OrderRepository) mutateOnce(ctx context.Context, id uint, fn func(*models.Order) error) (*models.Order, error) {
	var result *models.Order

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("Items", itemsByID).First(&order, id).Error; err != nil {
			return notFound(err, "order", id)
		}

		loaded := make(map[uint]bool, len(order.Items))
		for _, item := range order.Items {
			loaded[item.ID] = true
		}

		if err := fn(&order); err != nil {
			return err
		}
		order.RecalculateTotal()

		kept := make(map[uint]bool, len(order.Items))
		for i := range order.Items {
			item := &order.Items[i]
			if item.ID == 0 {
				item.OrderID = order.ID
				if err := tx.Create(item).Error; err != nil {
					return fmt.Errorf("insert order item: %w", err)
				}
			}
			kept[item.ID] = true
		}

		var removed []uint
		for itemID := range loaded {
			if !kept[itemID] {
				removed = append(removed, itemID)
			}
		}
		if len(removed) > 0 {
			if err := tx.Where("order_id = ? AND id IN ?", order.ID, removed).Delete(&models.OrderItem{}).Error; err != nil {
				return fmt.Errorf("delete order items: %w", err)
			}
		}

		now := tx.NowFunc()
		res := tx.Session(&gorm.Session{SkipHooks: true}).
			Model(&models.Order{}).
			Where("id = ? AND version = ?", order.ID, order.Version).
			Updates(map[string]interface{}{
				"status":       order.Status,
				"total_amount": order.TotalAmount,
				"version":      order.Version + 1,
				"updated_at":   now,
			})
		if res.Error != nil {
			return fmt.Errorf("update order: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return models.ErrConcurrentModification
		}

		order.Version++
		order.UpdatedAt = now
		result = &order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
