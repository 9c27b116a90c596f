package repository_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"restaurant-orders/models"
	"restaurant-orders/repository"
	"restaurant-orders/utils"
)

func setupRepoTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.Customer{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderLine{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestCustomerCreateAndGet(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := repository.NewCustomerRepository(db)

	customer, err := repo.Create("Al", "555-1")
	assert.NoError(t, err)
	assert.NotZero(t, customer.ID)

	got, err := repo.GetByID(customer.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Al", got.Name)
	assert.Equal(t, "555-1", got.Phone)
}

func TestCustomerPhoneUniqueness(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := repository.NewCustomerRepository(db)

	_, err := repo.Create("Al", "555-1")
	assert.NoError(t, err)

	_, err = repo.Create("Bea", "555-1")
	assert.Error(t, err)
	assert.True(t, utils.IsConflict(err))
	assert.Contains(t, err.Error(), "phone")

	// exactly one row survived
	var count int64
	db.Model(&models.Customer{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCustomerPartialUpdate(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := repository.NewCustomerRepository(db)

	customer, err := repo.Create("Al", "555-1")
	assert.NoError(t, err)

	newName := "Albert"
	updated, err := repo.Update(customer.ID, &newName, nil)
	assert.NoError(t, err)
	assert.Equal(t, "Albert", updated.Name)
	assert.Equal(t, "555-1", updated.Phone)

	newPhone := "555-2"
	updated, err = repo.Update(customer.ID, nil, &newPhone)
	assert.NoError(t, err)
	assert.Equal(t, "Albert", updated.Name)
	assert.Equal(t, "555-2", updated.Phone)
}

func TestCustomerUpdatePhoneConflict(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := repository.NewCustomerRepository(db)

	_, err := repo.Create("Al", "555-1")
	assert.NoError(t, err)
	bea, err := repo.Create("Bea", "555-2")
	assert.NoError(t, err)

	taken := "555-1"
	_, err = repo.Update(bea.ID, nil, &taken)
	assert.True(t, utils.IsConflict(err))
}

func TestCustomerUpdateNotFound(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := repository.NewCustomerRepository(db)

	name := "Ghost"
	_, err := repo.Update(999, &name, nil)
	assert.True(t, utils.IsNotFound(err))
}

func TestCustomerDeleteRestrictedByOrders(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := repository.NewCustomerRepository(db)

	customer, err := repo.Create("Al", "555-1")
	assert.NoError(t, err)

	db.Create(&models.Order{CustomerID: customer.ID, OrderTime: time.Now()})

	err = repo.Delete(customer.ID)
	assert.True(t, utils.IsConflict(err))

	// customer row is still there
	_, err = repo.GetByID(customer.ID)
	assert.NoError(t, err)
}

func TestCustomerDeleteWithoutOrders(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := repository.NewCustomerRepository(db)

	customer, err := repo.Create("Al", "555-1")
	assert.NoError(t, err)

	assert.NoError(t, repo.Delete(customer.ID))

	_, err = repo.GetByID(customer.ID)
	assert.True(t, utils.IsNotFound(err))

	err = repo.Delete(customer.ID)
	assert.True(t, utils.IsNotFound(err))
}
