package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-orders/services"
	"github.com/yeremiapane/restaurant-orders/utils"
)

type MenuController struct {
	Catalog *services.MenuCatalog
}

func NewMenuController(catalog *services.MenuCatalog) *MenuController {
	return &MenuController{Catalog: catalog}
}

func (mc *MenuController) GetAllMenus(c *gin.Context) {
	items, err := mc.Catalog.ListAll(c.Request.Context())
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menus", NewMenuItemResponses(items))
}

func (mc *MenuController) GetMenusByCategory(c *gin.Context) {
	items, err := mc.Catalog.ListByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menus", NewMenuItemResponses(items))
}
