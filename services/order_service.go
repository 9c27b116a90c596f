package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"restaurant-orders/models"
	"restaurant-orders/utils"
)

// OrderService owns every multi-row write on orders. Each operation runs in a
// single transaction: either the order row and all of its lines change
// together, or nothing is persisted.
type OrderService struct {
	DB *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{DB: db}
}

type ItemSummary struct {
	ID       uint    `json:"id"`
	DishName string  `json:"dish_name"`
	Price    float64 `json:"price"`
}

type OrderDetail struct {
	ID         uint          `json:"id"`
	CustomerID uint          `json:"customer_id"`
	OrderNotes string        `json:"order_notes"`
	OrderTime  time.Time     `json:"timestamp"`
	Items      []ItemSummary `json:"items"`
}

// Create validates the customer and every menu item id, then inserts the
// order plus one line per requested id. Duplicate ids in the input produce
// duplicate lines; multiplicity is part of the order's meaning.
func (s *OrderService) Create(customerID uint, notes string, itemIDs []uint) (*OrderDetail, error) {
	if len(itemIDs) == 0 {
		return nil, utils.Validationf("item_ids must not be empty")
	}

	var detail *OrderDetail
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, customerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFoundf("customer %d not found", customerID)
			}
			return err
		}

		itemsByID, err := resolveMenuItems(tx, itemIDs)
		if err != nil {
			return err
		}

		order := models.Order{
			CustomerID: customerID,
			OrderNotes: notes,
			OrderTime:  time.Now(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		if err := insertLines(tx, order.ID, itemIDs); err != nil {
			return err
		}

		detail = buildDetail(&order, itemIDs, itemsByID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// Get returns the order with its lines resolved to menu item summaries, in
// line insertion order.
func (s *OrderService) Get(orderID uint) (*OrderDetail, error) {
	var order models.Order
	if err := s.DB.Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("ordered_items.id asc")
	}).Preload("Lines.MenuItem").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("order %d not found", orderID)
		}
		return nil, err
	}
	return detailFromModel(&order), nil
}

// Update changes the notes and/or replaces the whole line set. The delete-all
// then reinsert happens in the same transaction as the notes update, so a
// reader never observes a mixed old/new item set.
func (s *OrderService) Update(orderID uint, notes *string, itemIDs *[]uint) (*OrderDetail, error) {
	if itemIDs != nil && len(*itemIDs) == 0 {
		return nil, utils.Validationf("item_ids must not be empty when supplied")
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFoundf("order %d not found", orderID)
			}
			return err
		}

		if notes != nil {
			if err := tx.Model(&order).Update("order_notes", *notes).Error; err != nil {
				return err
			}
		}

		if itemIDs != nil {
			if _, err := resolveMenuItems(tx, *itemIDs); err != nil {
				return err
			}
			if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderLine{}).Error; err != nil {
				return err
			}
			if err := insertLines(tx, orderID, *itemIDs); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(orderID)
}

// Delete removes the order and all of its lines atomically.
func (s *OrderService) Delete(orderID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFoundf("order %d not found", orderID)
			}
			return err
		}
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderLine{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
}

func (s *OrderService) List() ([]OrderDetail, error) {
	var orders []models.Order
	if err := s.DB.Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("ordered_items.id asc")
	}).Preload("Lines.MenuItem").Order("id asc").Find(&orders).Error; err != nil {
		return nil, err
	}

	details := make([]OrderDetail, 0, len(orders))
	for i := range orders {
		details = append(details, *detailFromModel(&orders[i]))
	}
	return details, nil
}

// resolveMenuItems loads every distinct id and reports all unknown ids at
// once, not just the first.
func resolveMenuItems(tx *gorm.DB, itemIDs []uint) (map[uint]models.MenuItem, error) {
	distinct := make([]uint, 0, len(itemIDs))
	seen := make(map[uint]bool, len(itemIDs))
	for _, id := range itemIDs {
		if !seen[id] {
			seen[id] = true
			distinct = append(distinct, id)
		}
	}

	var items []models.MenuItem
	if err := tx.Where("id IN ?", distinct).Find(&items).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]models.MenuItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	var missing []uint
	for _, id := range distinct {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
		parts := make([]string, 0, len(missing))
		for _, id := range missing {
			parts = append(parts, fmt.Sprintf("%d", id))
		}
		return nil, utils.Validationf("unknown menu item id(s): %s", strings.Join(parts, ", "))
	}

	return byID, nil
}

func insertLines(tx *gorm.DB, orderID uint, itemIDs []uint) error {
	lines := make([]models.OrderLine, 0, len(itemIDs))
	for _, id := range itemIDs {
		lines = append(lines, models.OrderLine{OrderID: orderID, MenuItemID: id})
	}
	return tx.Create(&lines).Error
}

func buildDetail(order *models.Order, itemIDs []uint, itemsByID map[uint]models.MenuItem) *OrderDetail {
	items := make([]ItemSummary, 0, len(itemIDs))
	for _, id := range itemIDs {
		item := itemsByID[id]
		items = append(items, ItemSummary{ID: item.ID, DishName: item.DishName, Price: item.Price})
	}
	return &OrderDetail{
		ID:         order.ID,
		CustomerID: order.CustomerID,
		OrderNotes: order.OrderNotes,
		OrderTime:  order.OrderTime,
		Items:      items,
	}
}

func detailFromModel(order *models.Order) *OrderDetail {
	items := make([]ItemSummary, 0, len(order.Lines))
	for _, line := range order.Lines {
		items = append(items, ItemSummary{
			ID:       line.MenuItem.ID,
			DishName: line.MenuItem.DishName,
			Price:    line.MenuItem.Price,
		})
	}
	return &OrderDetail{
		ID:         order.ID,
		CustomerID: order.CustomerID,
		OrderNotes: order.OrderNotes,
		OrderTime:  order.OrderTime,
		Items:      items,
	}
}
