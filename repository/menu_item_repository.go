package repository

import (
	"errors"

	"gorm.io/gorm"

	"restaurant-orders/models"
	"restaurant-orders/utils"
)

type MenuItemRepository struct {
	DB *gorm.DB
}

func NewMenuItemRepository(db *gorm.DB) *MenuItemRepository {
	return &MenuItemRepository{DB: db}
}

func (r *MenuItemRepository) Create(dishName string, price float64) (*models.MenuItem, error) {
	if price < 0 {
		return nil, utils.Validationf("price must not be negative")
	}
	item := models.MenuItem{DishName: dishName, Price: price}

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.MenuItem{}).Where("dish_name = ?", dishName).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return utils.Conflictf("menu item with dish_name %q already exists", dishName)
		}
		return tx.Create(&item).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.Conflictf("menu item with dish_name %q already exists", dishName)
		}
		return nil, err
	}
	return &item, nil
}

func (r *MenuItemRepository) GetByID(id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("menu item %d not found", id)
		}
		return nil, err
	}
	return &item, nil
}

func (r *MenuItemRepository) Update(id uint, dishName *string, price *float64) (*models.MenuItem, error) {
	var item models.MenuItem

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFoundf("menu item %d not found", id)
			}
			return err
		}

		if dishName != nil {
			if *dishName == "" {
				return utils.Validationf("dish_name must not be empty")
			}
			var count int64
			if err := tx.Model(&models.MenuItem{}).
				Where("dish_name = ? AND id <> ?", *dishName, id).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return utils.Conflictf("menu item with dish_name %q already exists", *dishName)
			}
			item.DishName = *dishName
		}
		if price != nil {
			if *price < 0 {
				return utils.Validationf("price must not be negative")
			}
			item.Price = *price
		}

		return tx.Save(&item).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.Conflictf("dish_name already in use")
		}
		return nil, err
	}
	return &item, nil
}

// Delete rejects removal of items still referenced by order lines, so
// historical orders keep resolving.
func (r *MenuItemRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var item models.MenuItem
		if err := tx.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFoundf("menu item %d not found", id)
			}
			return err
		}

		var lines int64
		if err := tx.Model(&models.OrderLine{}).Where("menu_item_id = ?", id).Count(&lines).Error; err != nil {
			return err
		}
		if lines > 0 {
			return utils.Conflictf("menu item %d is referenced by %d order line(s)", id, lines)
		}

		return tx.Delete(&item).Error
	})
}

func (r *MenuItemRepository) List() ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := r.DB.Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
