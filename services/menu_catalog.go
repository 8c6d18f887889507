package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yeremiapane/restaurant-orders/models"
)

// MenuCatalog is the read-only view of the menu.
type MenuCatalog struct {
	store MenuStore
}

func NewMenuCatalog(store MenuStore) *MenuCatalog {
	return &MenuCatalog{store: store}
}

func (m *MenuCatalog) ListAll(ctx context.Context) ([]models.MenuItem, error) {
	return m.store.FindAll(ctx)
}

// ListByCategory accepts the category in any case. Unknown categories are
// a ValidationError rather than an empty list.
func (m *MenuCatalog) ListByCategory(ctx context.Context, category string) ([]models.MenuItem, error) {
	normalized, ok := models.NormalizeCategory(category)
	if !ok {
		return nil, models.NewValidationError("category", "must be one of %s", strings.Join(models.MenuCategories(), ", "))
	}
	return m.store.FindByCategory(ctx, normalized)
}

func (m *MenuCatalog) Get(ctx context.Context, id uint) (*models.MenuItem, error) {
	return m.store.FindByID(ctx, id)
}

// Snapshot builds an order line from the current catalog entry. The client
// never supplies the name or price.
func (m *MenuCatalog) Snapshot(ctx context.Context, menuItemID uint, quantity int) (models.OrderItem, error) {
	if menuItemID == 0 {
		return models.OrderItem{}, models.NewValidationError("menuItemId", "is required")
	}
	if quantity < 1 {
		return models.OrderItem{}, models.NewValidationError("quantity", "must be at least 1, got %d", quantity)
	}
	menuItem, err := m.store.FindByID(ctx, menuItemID)
	if errors.Is(err, models.ErrNotFound) {
		return models.OrderItem{}, models.NewValidationError("menuItemId", "unknown menu item %d", menuItemID)
	}
	if err != nil {
		return models.OrderItem{}, err
	}
	return models.NewOrderItem(menuItem.ID, menuItem.Name, quantity, menuItem.Price)
}
