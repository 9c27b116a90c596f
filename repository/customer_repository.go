package repository

import (
	"errors"

	"gorm.io/gorm"

	"restaurant-orders/models"
	"restaurant-orders/utils"
)

type CustomerRepository struct {
	DB *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

func (r *CustomerRepository) Create(name, phone string) (*models.Customer, error) {
	customer := models.Customer{Name: name, Phone: phone}

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Customer{}).Where("phone = ?", phone).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return utils.Conflictf("customer with phone %q already exists", phone)
		}
		return tx.Create(&customer).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.Conflictf("customer with phone %q already exists", phone)
		}
		return nil, err
	}
	return &customer, nil
}

func (r *CustomerRepository) GetByID(id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.DB.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("customer %d not found", id)
		}
		return nil, err
	}
	return &customer, nil
}

// Update applies the supplied fields only; nil means keep the current value.
func (r *CustomerRepository) Update(id uint, name, phone *string) (*models.Customer, error) {
	var customer models.Customer

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&customer, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFoundf("customer %d not found", id)
			}
			return err
		}

		if name != nil {
			if *name == "" {
				return utils.Validationf("name must not be empty")
			}
			customer.Name = *name
		}
		if phone != nil {
			if *phone == "" {
				return utils.Validationf("phone must not be empty")
			}
			var count int64
			if err := tx.Model(&models.Customer{}).
				Where("phone = ? AND id <> ?", *phone, id).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return utils.Conflictf("customer with phone %q already exists", *phone)
			}
			customer.Phone = *phone
		}

		return tx.Save(&customer).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.Conflictf("phone already in use")
		}
		return nil, err
	}
	return &customer, nil
}

// Delete enforces the restrict policy: a customer with existing orders
// cannot be removed.
func (r *CustomerRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFoundf("customer %d not found", id)
			}
			return err
		}

		var orders int64
		if err := tx.Model(&models.Order{}).Where("customer_id = ?", id).Count(&orders).Error; err != nil {
			return err
		}
		if orders > 0 {
			return utils.Conflictf("customer %d has %d existing order(s)", id, orders)
		}

		return tx.Delete(&customer).Error
	})
}

func (r *CustomerRepository) List() ([]models.Customer, error) {
	var customers []models.Customer
	if err := r.DB.Order("id asc").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}
