package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"restaurant-orders/models"
	"restaurant-orders/utils"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// GetSummary -> GET /admin/summary, row counts plus total revenue
func (ac *AdminController) GetSummary(c *gin.Context) {
	var summary struct {
		Customers    int64   `json:"customers"`
		MenuItems    int64   `json:"menu_items"`
		Orders       int64   `json:"orders"`
		OrderedItems int64   `json:"ordered_items"`
		Revenue      float64 `json:"revenue"`
	}

	if err := ac.DB.Model(&models.Customer{}).Count(&summary.Customers).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := ac.DB.Model(&models.MenuItem{}).Count(&summary.MenuItems).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := ac.DB.Model(&models.Order{}).Count(&summary.Orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := ac.DB.Model(&models.OrderLine{}).Count(&summary.OrderedItems).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// Each line is one unit, so revenue is the plain sum of line prices.
	row := ac.DB.Raw(`
		SELECT COALESCE(SUM(m.price), 0)
		FROM ordered_items oi
		JOIN menu_items m ON oi.menu_item_id = m.id
	`).Row()
	if err := row.Scan(&summary.Revenue); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Summary", summary)
}
