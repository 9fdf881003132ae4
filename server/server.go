// Package server exposes the HTTP API: auth, stores, products, orders and
// admin endpoints over the gin engine.
package server

import (
	"net/http"
	"time"

	"github.com/example/tuuze/pkg/auth"
	"github.com/example/tuuze/pkg/config"
	"github.com/example/tuuze/pkg/repository"
	"github.com/example/tuuze/pkg/workflow"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type Deps struct {
	Users    repository.UserRepository
	Stores   repository.StoreRepository
	Products repository.ProductRepository
	Orders   repository.OrderRepository
	Engine   *workflow.Engine
	Tokens   *auth.TokenManager

	// Cache is optional; a nil cache disables stats caching and the
	// logout denylist.
	Cache *repository.RedisRepository
}

type Server struct {
	config   *config.Config
	logger   *zap.Logger
	router   *gin.Engine
	users    repository.UserRepository
	stores   repository.StoreRepository
	products repository.ProductRepository
	orders   repository.OrderRepository
	engine   *workflow.Engine
	tokens   *auth.TokenManager
	cache    *repository.RedisRepository
}

func NewServer(cfg *config.Config, logger *zap.Logger, deps Deps) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger))

	s := &Server{
		config:   cfg,
		logger:   logger,
		router:   router,
		users:    deps.Users,
		stores:   deps.Stores,
		products: deps.Products,
		orders:   deps.Orders,
		engine:   deps.Engine,
		tokens:   deps.Tokens,
		cache:    deps.Cache,
	}
	s.router.Use(s.corsMiddleware())
	return s
}

func (s *Server) Router() *gin.Engine { return s.router }

func (s *Server) SetupRoutes() {
	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger
	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := s.router.Group("/api")

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", s.register)
		authRoutes.POST("/login", s.login)
		authRoutes.POST("/logout", s.logout)
		authRoutes.POST("/forgot-password", s.forgotPassword)
		authRoutes.PATCH("/reset-password/:token", s.resetPassword)

		protected := authRoutes.Group("", s.protect())
		protected.GET("/me", s.getCurrentUser)
		protected.PATCH("/update-password", s.updatePassword)
	}

	stores := api.Group("/stores")
	{
		stores.GET("/nearby", s.getNearbyStores)
		stores.GET("/:id", s.getStore)

		protected := stores.Group("", s.protect())
		protected.POST("", s.createStore)
		protected.GET("/me/store", s.getMyStore)
		protected.PATCH("/me/store", s.updateMyStore)
		protected.PATCH("/me/store/deactivate", s.deactivateStore)

		admin := stores.Group("", s.protect(), s.restrictTo(rolesAdmin...))
		admin.GET("", s.listStores)
		admin.PATCH("/:id/verify", s.verifyStore)
	}

	products := api.Group("/products")
	{
		products.GET("/search", s.searchProducts)
		products.GET("/store/:storeId", s.getStoreProducts)
		products.GET("/:id", s.getProduct)

		vendor := products.Group("", s.protect(), s.restrictTo(rolesVendor...))
		vendor.GET("/me/products", s.getMyProducts)
		vendor.POST("", s.createProduct)
		vendor.PATCH("/:id", s.updateProduct)
		vendor.DELETE("/:id", s.deleteProduct)
	}

	orders := api.Group("/orders", s.protect())
	{
		orders.POST("", s.createOrder)
		orders.GET("/me", s.getMyOrders)
		orders.PATCH("/:id/cancel", s.cancelOrder)

		vendor := orders.Group("", s.restrictTo(rolesVendor...))
		vendor.GET("/store", s.getStoreOrders)
		vendor.PATCH("/:id/status", s.updateOrderStatus)

		orders.GET("/:id", s.getOrder)
	}

	admin := api.Group("/admin", s.protect(), s.restrictTo(rolesAdmin...))
	{
		admin.GET("/stats", s.getStats)
		admin.GET("/users", s.listUsers)
		admin.PATCH("/users/:id/role", s.updateUserRole)
		admin.PATCH("/users/:id/status", s.updateUserStatus)
		admin.GET("/stores", s.listStores)
	}
}

func (s *Server) Start() error {
	addr := s.config.Server.Addr()
	s.logger.Info("HTTP server starting", zap.String("address", addr))
	return s.router.Run(addr)
}

func (s *Server) corsMiddleware() gin.HandlerFunc {
	origin := s.config.Server.CORSOrigin
	return func(c *gin.Context) {
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
