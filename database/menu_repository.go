package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-orders/models"
)

type MenuRepository struct {
	DB *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{DB: db}
}

func (r *MenuRepository) FindAll(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := r.DB.WithContext(ctx).Order("id asc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}
	return items, nil
}

func (r *MenuRepository) FindByCategory(ctx context.Context, category string) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := r.DB.WithContext(ctx).Where("category = ?", category).Order("id asc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list menu by category: %w", err)
	}
	return items, nil
}

func (r *MenuRepository) FindByID(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.DB.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, notFound(err, "menu item", id)
	}
	return &item, nil
}
