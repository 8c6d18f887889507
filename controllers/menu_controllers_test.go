package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/restaurant-orders/controllers"
	"github.com/yeremiapane/restaurant-orders/models"
)

func TestGetMenus(t *testing.T) {
	s := setupServer(t, nil)

	w, env := s.do(t, http.MethodGet, "/api/menu", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	menu := decode[[]controllers.MenuItemResponse](t, env.Data)
	require.Len(t, menu, 4)
	assert.Equal(t, "Margherita Pizza", menu[0].Name)
	assert.Equal(t, 12.99, menu[0].Price)

	w, env = s.do(t, http.MethodGet, "/api/menu/category/beverage", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	drinks := decode[[]controllers.MenuItemResponse](t, env.Data)
	require.Len(t, drinks, 1)
	assert.Equal(t, models.CategoryBeverage, drinks[0].Category)

	w, env = s.do(t, http.MethodGet, "/api/menu/category/SNACKS", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "category")
}
