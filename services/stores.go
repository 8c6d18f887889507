package services

import (
	"context"

	"github.com/yeremiapane/restaurant-orders/models"
)

// The services depend on these narrow views of the repositories in package
// database so that tests can swap in failing or slow stores.

type MenuStore interface {
	FindAll(ctx context.Context) ([]models.MenuItem, error)
	FindByCategory(ctx context.Context, category string) ([]models.MenuItem, error)
	FindByID(ctx context.Context, id uint) (*models.MenuItem, error)
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmailOrPhone(ctx context.Context, identifier string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
}

// OrderFinder covers the three identity paths an order can be reached by.
type OrderFinder interface {
	FindByUserID(ctx context.Context, userID uint) ([]models.Order, error)
	FindByUserEmail(ctx context.Context, email string) ([]models.Order, error)
	FindByCustomerEmail(ctx context.Context, email string) ([]models.Order, error)
}

type OrderStore interface {
	OrderFinder
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uint) (*models.Order, error)
	FindAll(ctx context.Context) ([]models.Order, error)
	FindByUserPhone(ctx context.Context, phone string) ([]models.Order, error)
	Delete(ctx context.Context, id uint) error
	Mutate(ctx context.Context, id uint, fn func(*models.Order) error) (*models.Order, error)
}

// OrderEventPublisher is told about every committed order change.
type OrderEventPublisher interface {
	PublishOrderEvent(ctx context.Context, event string, order *models.Order)
}

// LookupRecorder observes each identity path of a lookup.
type LookupRecorder interface {
	ObserveLookupPath(path string, hits int, err error)
}
