package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"restaurant-orders/services"
	"restaurant-orders/utils"
)

type OrderController struct {
	Service *services.OrderService
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{Service: services.NewOrderService(db)}
}

// GetAllOrders -> list orders with resolved items
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := oc.Service.List()
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// CreateOrder -> POST /orders, order plus all lines in one transaction
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req struct {
		CustomerID uint   `json:"customer_id" binding:"required"`
		OrderNotes string `json:"order_notes"`
		ItemIDs    []uint `json:"item_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Service.Create(req.CustomerID, req.OrderNotes, req.ItemIDs)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order created (ID=%d, customer=%d, lines=%d)",
		order.ID, order.CustomerID, len(order.Items))
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetOrderByID -> GET /orders/:order_id
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, ok := paramID(c, "order_id")
	if !ok {
		return
	}

	order, err := oc.Service.Get(id)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateOrder -> PUT /orders/:order_id. item_ids, when present, replaces the
// whole line set.
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	id, ok := paramID(c, "order_id")
	if !ok {
		return
	}

	var req struct {
		OrderNotes *string `json:"order_notes"`
		ItemIDs    *[]uint `json:"item_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Service.Update(id, req.OrderNotes, req.ItemIDs)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order updated", order)
}

// DeleteOrder -> DELETE /orders/:order_id, removes order and lines together
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, ok := paramID(c, "order_id")
	if !ok {
		return
	}

	if err := oc.Service.Delete(id); err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
