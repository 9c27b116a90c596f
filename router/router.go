package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"restaurant-orders/controllers"
	"restaurant-orders/middlewares"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(db)
	customerCtrl := controllers.NewCustomerController(db)
	itemCtrl := controllers.NewMenuItemController(db)
	orderCtrl := controllers.NewOrderController(db)
	adminCtrl := controllers.NewAdminController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Stricter limit on account endpoints
	auth := r.Group("/")
	auth.Use(middlewares.NewRateLimiter(5, 60).RateLimit())
	{
		auth.POST("/register", userCtrl.Register)
		auth.POST("/login", userCtrl.Login)
	}

	// -- CUSTOMERS --
	r.GET("/customers", customerCtrl.GetAllCustomers)
	r.POST("/customers", customerCtrl.CreateCustomer)
	r.GET("/customers/:customer_id", customerCtrl.GetCustomerByID)
	r.PUT("/customers/:customer_id", customerCtrl.UpdateCustomer)
	r.DELETE("/customers/:customer_id", customerCtrl.DeleteCustomer)

	// -- MENU ITEMS --
	r.GET("/items", itemCtrl.GetAllMenuItems)
	r.POST("/items", itemCtrl.CreateMenuItem)
	r.GET("/items/:item_id", itemCtrl.GetMenuItemByID)
	r.PUT("/items/:item_id", itemCtrl.UpdateMenuItem)
	r.DELETE("/items/:item_id", itemCtrl.DeleteMenuItem)

	// -- ORDERS --
	r.GET("/orders", orderCtrl.GetAllOrders)
	r.POST("/orders", orderCtrl.CreateOrder)
	r.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	r.PUT("/orders/:order_id", orderCtrl.UpdateOrder)
	r.DELETE("/orders/:order_id", orderCtrl.DeleteOrder)

	// -- ADMIN (JWT protected) --
	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware())
	{
		admin.GET("/summary", adminCtrl.GetSummary)
	}

	return r
}
