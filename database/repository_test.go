package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-orders/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, db *gorm.DB, email, phone string) *models.User {
	t.Helper()
	user := &models.User{FullName: "Test User", Email: email, Phone: phone, Password: "hash", Role: models.RoleCustomer}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

func newOrder(t *testing.T, owner *models.User, customerEmail string, createdAt *time.Time) *models.Order {
	t.Helper()
	pizza, err := models.NewOrderItem(1, "Margherita Pizza", 2, decimal.RequireFromString("12.99"))
	require.NoError(t, err)
	salad, err := models.NewOrderItem(2, "Caesar Salad", 1, decimal.RequireFromString("8.99"))
	require.NoError(t, err)

	order, err := models.NewOrder(owner, "Jane", "5551234567", "1 Main St", "", []models.OrderItem{pizza, salad})
	require.NoError(t, err)
	if customerEmail != "" {
		order.SetOwnerEmail(customerEmail)
	}
	order.SetCreatedAt(createdAt)
	return order
}

func TestCreateAndFindOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	order := newOrder(t, nil, "", nil)
	before := time.Now().Add(-time.Second)
	require.NoError(t, repo.Create(ctx, order))
	require.NotZero(t, order.ID)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "34.97", found.TotalAmount.StringFixed(2))
	assert.Equal(t, models.StatusPending, found.Status)
	assert.Equal(t, uint(1), found.Version)
	assert.WithinDuration(t, time.Now(), found.CreatedAt, 5*time.Second)
	assert.True(t, found.CreatedAt.After(before))
	require.Len(t, found.Items, 2)
	for _, item := range found.Items {
		assert.Equal(t, order.ID, item.OrderID)
	}
	assert.Equal(t, "Margherita Pizza", found.Items[0].MenuItemName)

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCreateKeepsSuppliedTimestamp(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	supplied := time.Date(2023, 6, 1, 9, 30, 0, 0, time.Local)
	order := newOrder(t, nil, "", &supplied)
	require.NoError(t, repo.Create(ctx, order))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, supplied.Equal(found.CreatedAt), "got %v", found.CreatedAt)

	// a later write never touches created_at
	_, err = repo.Mutate(ctx, order.ID, func(o *models.Order) error {
		o.SetCreatedAt(nil)
		return o.TransitionStatus(models.StatusConfirmed)
	})
	require.NoError(t, err)

	found, err = repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, supplied.Equal(found.CreatedAt))
	assert.Equal(t, models.StatusConfirmed, found.Status)
}

func TestCreateIgnoresCallerTotal(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)

	order := newOrder(t, nil, "", nil)
	order.TotalAmount = decimal.NewFromInt(1)
	require.NoError(t, repo.Create(context.Background(), order))

	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "34.97", found.TotalAmount.StringFixed(2))
}

func TestMutateAddsAndRemovesItems(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	order := newOrder(t, nil, "", nil)
	require.NoError(t, repo.Create(ctx, order))

	tea, err := models.NewOrderItem(4, "Iced Tea", 2, decimal.RequireFromString("2.99"))
	require.NoError(t, err)
	updated, err := repo.Mutate(ctx, order.ID, func(o *models.Order) error {
		o.AddItem(tea)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "40.95", updated.TotalAmount.StringFixed(2))
	assert.Equal(t, uint(2), updated.Version)
	require.Len(t, updated.Items, 3)
	assert.NotZero(t, updated.Items[2].ID)

	pizzaID := updated.Items[0].ID
	updated, err = repo.Mutate(ctx, order.ID, func(o *models.Order) error {
		_, err := o.RemoveItem(pizzaID)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "14.97", updated.TotalAmount.StringFixed(2))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, found.Items, 2)
	assert.Equal(t, "14.97", found.TotalAmount.StringFixed(2))

	var count int64
	require.NoError(t, db.Model(&models.OrderItem{}).Where("id = ?", pizzaID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestMutateFailureLeavesOrderUntouched(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	order := newOrder(t, nil, "", nil)
	require.NoError(t, repo.Create(ctx, order))

	_, err := repo.Mutate(ctx, order.ID, func(o *models.Order) error {
		return o.TransitionStatus("BOGUS")
	})
	var ise *models.InvalidStatusError
	require.True(t, errors.As(err, &ise))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, found.Status)
	assert.Equal(t, uint(1), found.Version)

	_, err = repo.Mutate(ctx, 12345, func(o *models.Order) error { return nil })
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMutateDetectsVersionConflict(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	order := newOrder(t, nil, "", nil)
	require.NoError(t, repo.Create(ctx, order))

	// Pretend the order was read before someone else bumped the version.
	calls := 0
	_, err := repo.Mutate(ctx, order.ID, func(o *models.Order) error {
		calls++
		o.Version--
		return o.TransitionStatus(models.StatusCancelled)
	})
	assert.ErrorIs(t, err, models.ErrConcurrentModification)
	assert.Equal(t, defaultMutateAttempts, calls)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, found.Status)

	calls = 0
	updated, err := repo.Mutate(ctx, order.ID, func(o *models.Order) error {
		calls++
		if calls == 1 {
			o.Version--
		}
		return o.TransitionStatus(models.StatusCancelled)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, models.StatusCancelled, updated.Status)
}

func TestDeleteCascadesItems(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	order := newOrder(t, nil, "", nil)
	require.NoError(t, repo.Create(ctx, order))
	keep := newOrder(t, nil, "", nil)
	require.NoError(t, repo.Create(ctx, keep))

	require.NoError(t, repo.Delete(ctx, order.ID))

	var orphaned int64
	require.NoError(t, db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&orphaned).Error)
	assert.Zero(t, orphaned)

	var remaining int64
	require.NoError(t, db.Model(&models.OrderItem{}).Where("order_id = ?", keep.ID).Count(&remaining).Error)
	assert.Equal(t, int64(2), remaining)

	_, err := repo.FindByID(ctx, order.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, order.ID), models.ErrNotFound)
}

func TestIdentityPathFinders(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	jane := createUser(t, db, "jane@example.com", "5551234567")
	bob := createUser(t, db, "bob@example.com", "5559876543")

	linked := newOrder(t, jane, "jane@example.com", nil)
	require.NoError(t, repo.Create(ctx, linked))
	guest := newOrder(t, nil, "jane@example.com", nil)
	require.NoError(t, repo.Create(ctx, guest))
	other := newOrder(t, bob, "", nil)
	require.NoError(t, repo.Create(ctx, other))

	byID, err := repo.FindByUserID(ctx, jane.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{linked.ID}, orderIDs(byID))

	byUserEmail, err := repo.FindByUserEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, []uint{linked.ID}, orderIDs(byUserEmail))
	require.Len(t, byUserEmail[0].Items, 2)

	byCustomerEmail, err := repo.FindByCustomerEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{linked.ID, guest.ID}, orderIDs(byCustomerEmail))

	byPhone, err := repo.FindByUserPhone(ctx, "5559876543")
	require.NoError(t, err)
	assert.Equal(t, []uint{other.ID}, orderIDs(byPhone))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestFindUserByEmailOrPhone(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()
	jane := createUser(t, db, "jane@example.com", "5551234567")

	byEmail, err := users.FindByEmailOrPhone(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, jane.ID, byEmail.ID)

	byPhone, err := users.FindByEmailOrPhone(ctx, "5551234567")
	require.NoError(t, err)
	assert.Equal(t, jane.ID, byPhone.ID)

	_, err = users.FindByEmailOrPhone(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound)

	exists, err := users.ExistsByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = users.ExistsByPhone(ctx, "0000000000")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSeedMenuOnce(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, Seed(ctx, db, nil))
	require.NoError(t, Seed(ctx, db, nil))

	menu := NewMenuRepository(db)
	all, err := menu.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	drinks, err := menu.FindByCategory(ctx, models.CategoryBeverage)
	require.NoError(t, err)
	require.Len(t, drinks, 1)
	assert.Equal(t, "Iced Tea", drinks[0].Name)
	assert.Equal(t, "2.99", drinks[0].Price.StringFixed(2))

	_, err = menu.FindByID(ctx, 99)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func orderIDs(orders []models.Order) []uint {
	ids := make([]uint, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	return ids
}
