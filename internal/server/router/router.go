package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/autobase/webfront/internal/domain/models"
	"github.com/autobase/webfront/internal/server/handlers"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// New wires the Gin engine with the page routes and middlewares.
func New(h *handlers.Handler, html render.HTMLRender, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.HTMLRender = html
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	pages := r.Group("/", h.Identify())
	pages.GET("/", h.Home)
	pages.GET("/login", h.LoginPage)
	pages.POST("/login", h.Login)
	pages.POST("/logout", h.Logout)
	pages.GET("/vehicles", h.AvailableVehicles)
	pages.POST("/vehicles/:vin/buy", h.Require(models.RoleCustomer), h.BuyVehicle)
	pages.GET("/orders/mine", h.Require(models.RoleCustomer, models.RoleEmployee, models.RoleManager), h.MyOrders)

	customer := pages.Group("/customer", h.Require(models.RoleCustomer))
	customer.GET("", h.CustomerProfile)
	customer.POST("/profile", h.SaveCustomerProfile)
	customer.GET("/vehicles", h.CustomerVehicles)

	employee := pages.Group("/employee", h.Require(models.RoleEmployee, models.RoleManager))
	employee.GET("/sales-orders", h.SalesOrders)
	employee.POST("/sales-orders/assign", h.AssignSalesOrder)
	employee.GET("/tools", h.EmployeeTools)

	manager := pages.Group("/manager", h.Require(models.RoleManager))
	manager.GET("", h.ManagerDashboard)
	manager.GET("/reports/:file", h.ExportReport)

	r.NoRoute(h.Identify(), h.NotFound)

	logger.Info("router initialized")

	return r
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDHeader, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("request_id", c.GetString(RequestIDHeader)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
