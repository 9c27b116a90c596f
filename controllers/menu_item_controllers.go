package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"restaurant-orders/repository"
	"restaurant-orders/utils"
)

type MenuItemController struct {
	Repo *repository.MenuItemRepository
}

func NewMenuItemController(db *gorm.DB) *MenuItemController {
	return &MenuItemController{Repo: repository.NewMenuItemRepository(db)}
}

// GetAllMenuItems -> list the whole menu
func (mc *MenuItemController) GetAllMenuItems(c *gin.Context) {
	items, err := mc.Repo.List()
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menu items", items)
}

// CreateMenuItem -> POST /items
func (mc *MenuItemController) CreateMenuItem(c *gin.Context) {
	var req struct {
		DishName string   `json:"dish_name" binding:"required"`
		Price    *float64 `json:"price" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, err := mc.Repo.Create(req.DishName, *req.Price)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	utils.InfoLogger.Printf("Menu item created (ID=%d)", item.ID)
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

// GetMenuItemByID -> GET /items/:item_id
func (mc *MenuItemController) GetMenuItemByID(c *gin.Context) {
	id, ok := paramID(c, "item_id")
	if !ok {
		return
	}

	item, err := mc.Repo.GetByID(id)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item detail", item)
}

// UpdateMenuItem -> PUT /items/:item_id, fields optional
func (mc *MenuItemController) UpdateMenuItem(c *gin.Context) {
	id, ok := paramID(c, "item_id")
	if !ok {
		return
	}

	var req struct {
		DishName *string  `json:"dish_name"`
		Price    *float64 `json:"price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, err := mc.Repo.Update(id, req.DishName, req.Price)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

// DeleteMenuItem -> DELETE /items/:item_id
func (mc *MenuItemController) DeleteMenuItem(c *gin.Context) {
	id, ok := paramID(c, "item_id")
	if !ok {
		return
	}

	if err := mc.Repo.Delete(id); err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
