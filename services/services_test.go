package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-orders/database"
	"github.com/yeremiapane/restaurant-orders/models"
	"github.com/yeremiapane/restaurant-orders/services"
)

type testEnv struct {
	db       *gorm.DB
	users    *database.UserRepository
	orders   *database.OrderRepository
	catalog  *services.MenuCatalog
	resolver *services.IdentityResolver
	events   *recordingPublisher
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	require.NoError(t, database.Seed(context.Background(), db, nil))

	users := database.NewUserRepository(db)
	return &testEnv{
		db:       db,
		users:    users,
		orders:   database.NewOrderRepository(db),
		catalog:  services.NewMenuCatalog(database.NewMenuRepository(db)),
		resolver: services.NewIdentityResolver(users),
		events:   &recordingPublisher{},
	}
}

func (e *testEnv) orderService(policy models.TransitionPolicy) *services.OrderService {
	return services.NewOrderService(e.orders, e.users, e.catalog, policy, e.events)
}

func (e *testEnv) createUser(t *testing.T, email, phone string) *models.User {
	t.Helper()
	user := &models.User{FullName: "Jane Doe", Email: email, Phone: phone, Password: "x", Role: models.RoleCustomer}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

// menuID returns the seeded id of a sample menu item.
func (e *testEnv) menuID(t *testing.T, name string) uint {
	t.Helper()
	var item models.MenuItem
	require.NoError(t, e.db.Where("name = ?", name).First(&item).Error)
	return item.ID
}

type publishedEvent struct {
	Event   string
	OrderID uint
	Status  string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) PublishOrderEvent(_ context.Context, event string, order *models.Order) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Event: event, OrderID: order.ID, Status: order.Status})
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Event)
	}
	return out
}
