package database

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-orders/models"
)

// Migrate creates or updates the schema for every persisted model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func sampleMenu() []models.MenuItem {
	return []models.MenuItem{
		{Name: "Margherita Pizza", Description: "Classic cheese and tomato", Price: decimal.RequireFromString("12.99"), Category: models.CategoryMainCourse},
		{Name: "Caesar Salad", Description: "Fresh greens with Caesar dressing", Price: decimal.RequireFromString("8.99"), Category: models.CategoryAppetizer},
		{Name: "Chocolate Cake", Description: "Rich chocolate dessert", Price: decimal.RequireFromString("6.99"), Category: models.CategoryDessert},
		{Name: "Iced Tea", Description: "Refreshing beverage", Price: decimal.RequireFromString("2.99"), Category: models.CategoryBeverage},
	}
}

// Seed fills an empty menu with the sample items.
func Seed(ctx context.Context, db *gorm.DB, logger *logrus.Logger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.MenuItem{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count menu items: %w", err)
	}
	if count > 0 {
		return nil
	}

	items := sampleMenu()
	if err := db.WithContext(ctx).Create(&items).Error; err != nil {
		return fmt.Errorf("seed menu: %w", err)
	}
	if logger != nil {
		logger.WithField("items", len(items)).Info("Seeded sample menu")
	}
	return nil
}
