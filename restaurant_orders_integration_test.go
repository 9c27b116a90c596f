package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"restaurant-orders/models"
	"restaurant-orders/router"
	"restaurant-orders/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
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

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		buf = bytes.NewBuffer(b)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal envelope: %v, body=%s", err, w.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("unmarshal data: %v, body=%s", err, w.Body.String())
		}
	}
}

// TestOrderLifecycle walks the main flow: create customer and menu item,
// place an order with a duplicated item, read it back, replace the line set,
// and delete everything in reverse order.
func TestOrderLifecycle(t *testing.T) {
	db := setupTestDB(t)
	r := router.SetupRouter(db)

	// POST /customers
	w := doJSON(t, r, http.MethodPost, "/customers", map[string]interface{}{
		"name": "Al", "phone": "555-1",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create customer: want 201, got %d, body=%s", w.Code, w.Body.String())
	}
	var customer struct {
		ID uint `json:"id"`
	}
	parseEnvelope(t, w, &customer)
	if customer.ID == 0 {
		t.Fatalf("create customer: id not set")
	}

	// POST /items
	w = doJSON(t, r, http.MethodPost, "/items", map[string]interface{}{
		"dish_name": "Soup", "price": 5.0,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create item: want 201, got %d, body=%s", w.Code, w.Body.String())
	}
	var soup struct {
		ID uint `json:"id"`
	}
	parseEnvelope(t, w, &soup)

	w = doJSON(t, r, http.MethodPost, "/items", map[string]interface{}{
		"dish_name": "Salad", "price": 4.0,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create second item: want 201, got %d", w.Code)
	}
	var salad struct {
		ID uint `json:"id"`
	}
	parseEnvelope(t, w, &salad)

	// POST /orders with a duplicated item id
	w = doJSON(t, r, http.MethodPost, "/orders", map[string]interface{}{
		"customer_id": customer.ID,
		"order_notes": "table by the window",
		"item_ids":    []uint{soup.ID, soup.ID},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create order: want 201, got %d, body=%s", w.Code, w.Body.String())
	}
	var order struct {
		ID        uint   `json:"id"`
		Timestamp string `json:"timestamp"`
		Items     []struct {
			ID       uint    `json:"id"`
			DishName string  `json:"dish_name"`
			Price    float64 `json:"price"`
		} `json:"items"`
	}
	parseEnvelope(t, w, &order)
	if order.Timestamp == "" {
		t.Fatalf("create order: timestamp not set")
	}
	if len(order.Items) != 2 {
		t.Fatalf("create order: want 2 resolved items, got %d", len(order.Items))
	}
	for _, item := range order.Items {
		if item.DishName != "Soup" || item.Price != 5.0 {
			t.Fatalf("create order: unexpected item %+v", item)
		}
	}

	// GET /orders/:id
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/orders/%d", order.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get order: want 200, got %d", w.Code)
	}

	// PUT /orders/:id replaces the line set
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/orders/%d", order.ID), map[string]interface{}{
		"item_ids": []uint{salad.ID},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update order: want 200, got %d, body=%s", w.Code, w.Body.String())
	}
	var updated struct {
		Items []struct {
			DishName string `json:"dish_name"`
		} `json:"items"`
	}
	parseEnvelope(t, w, &updated)
	if len(updated.Items) != 1 || updated.Items[0].DishName != "Salad" {
		t.Fatalf("update order: line set not replaced, body=%s", w.Body.String())
	}

	// Customer with an order cannot be deleted (restrict policy)
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/customers/%d", customer.ID), nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("delete referenced customer: want 409, got %d", w.Code)
	}

	// DELETE /orders/:id
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/orders/%d", order.ID), nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete order: want 204, got %d", w.Code)
	}

	// Order is gone
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/orders/%d", order.ID), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get deleted order: want 404, got %d", w.Code)
	}

	// Now the customer can go too
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/customers/%d", customer.ID), nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete customer: want 204, got %d", w.Code)
	}
}

func TestDuplicatePhoneConflict(t *testing.T) {
	db := setupTestDB(t)
	r := router.SetupRouter(db)

	w := doJSON(t, r, http.MethodPost, "/customers", map[string]interface{}{
		"name": "Al", "phone": "555-1",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("first create: want 201, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/customers", map[string]interface{}{
		"name": "Bea", "phone": "555-1",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate phone: want 409, got %d, body=%s", w.Code, w.Body.String())
	}
}

func TestOrderValidationErrors(t *testing.T) {
	db := setupTestDB(t)
	r := router.SetupRouter(db)

	// unknown customer
	w := doJSON(t, r, http.MethodPost, "/orders", map[string]interface{}{
		"customer_id": 999,
		"item_ids":    []uint{1},
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown customer: want 404, got %d", w.Code)
	}

	doJSON(t, r, http.MethodPost, "/customers", map[string]interface{}{
		"name": "Al", "phone": "555-1",
	})

	// unknown menu items -> 422 naming every bad id
	w = doJSON(t, r, http.MethodPost, "/orders", map[string]interface{}{
		"customer_id": 1,
		"item_ids":    []uint{777, 888},
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unknown items: want 422, got %d, body=%s", w.Code, w.Body.String())
	}
	var env envelope
	json.Unmarshal(w.Body.Bytes(), &env)
	if !bytes.Contains([]byte(env.Message), []byte("777")) || !bytes.Contains([]byte(env.Message), []byte("888")) {
		t.Fatalf("unknown items: message should list every bad id, got %q", env.Message)
	}

	// missing body fields -> 400
	w = doJSON(t, r, http.MethodPost, "/orders", map[string]interface{}{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing fields: want 400, got %d", w.Code)
	}
}

func TestAdminSummaryRequiresToken(t *testing.T) {
	db := setupTestDB(t)
	r := router.SetupRouter(db)

	w := doJSON(t, r, http.MethodGet, "/admin/summary", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: want 401, got %d", w.Code)
	}

	// register + login
	w = doJSON(t, r, http.MethodPost, "/register", map[string]interface{}{
		"name": "Boss", "email": "boss@example.com", "password": "secret123", "role": "admin",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: want 201, got %d, body=%s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/login", map[string]interface{}{
		"email": "boss@example.com", "password": "secret123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: want 200, got %d, body=%s", w.Code, w.Body.String())
	}
	var login struct {
		Token string `json:"token"`
	}
	parseEnvelope(t, w, &login)
	if login.Token == "" {
		t.Fatalf("login: empty token")
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/summary", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary with token: want 200, got %d, body=%s", rec.Code, rec.Body.String())
	}

	var summary struct {
		Customers int64 `json:"customers"`
		Revenue   float64
	}
	parseEnvelope(t, rec, &summary)
	if summary.Customers != 0 {
		t.Fatalf("summary: want 0 customers in fresh db, got %d", summary.Customers)
	}
}
