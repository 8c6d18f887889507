package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-orders/config"
	"github.com/yeremiapane/restaurant-orders/controllers"
	"github.com/yeremiapane/restaurant-orders/database"
	"github.com/yeremiapane/restaurant-orders/kds"
	"github.com/yeremiapane/restaurant-orders/metrics"
	"github.com/yeremiapane/restaurant-orders/middlewares"
	"github.com/yeremiapane/restaurant-orders/models"
	"github.com/yeremiapane/restaurant-orders/services"
	"github.com/yeremiapane/restaurant-orders/utils"
)

// Deps are the long-lived objects the HTTP surface is built from.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Logger   *logrus.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.ServerMetrics
	Tokens   *utils.TokenIssuer
	Revoked  *utils.RevocationList
	Hub      *kds.Hub
	// AuthLimiter throttles register and login per client IP.
	AuthLimiter *middlewares.RateLimiter
}

func NewDeps(cfg *config.Config, db *gorm.DB, logger *logrus.Logger) *Deps {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewServerMetrics(reg)

	return &Deps{
		Config:   cfg,
		DB:       db,
		Logger:   logger,
		Registry: reg,
		Metrics:  m,
		Tokens:   utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL),
		Revoked:  utils.NewRevocationList(cfg.JWTTTL),
		Hub:      kds.NewHub(logger, m),

		AuthLimiter: middlewares.NewRateLimiter(cfg.AuthRateLimit),
	}
}

func transitionPolicy(cfg *config.Config) models.TransitionPolicy {
	if cfg.StrictTransitions {
		return models.WorkflowPolicy{}
	}
	return models.PermissivePolicy{}
}

func SetupRouter(d *Deps) *gin.Engine {
	cfg := d.Config

	users := database.NewUserRepository(d.DB)
	orders := database.NewOrderRepository(d.DB)
	catalog := services.NewMenuCatalog(database.NewMenuRepository(d.DB))
	resolver := services.NewIdentityResolver(users)

	orderService := services.NewOrderService(orders, users, catalog, transitionPolicy(cfg), d.Hub)
	lookup := services.NewOrderLookupService(resolver, orders, cfg.LookupTimeout, d.Metrics)
	auth := services.NewAuthService(users, resolver, d.Tokens, utils.NewPasswordHasher(), d.Revoked)

	orderController := controllers.NewOrderController(orderService, lookup)
	menuController := controllers.NewMenuController(catalog)
	userController := controllers.NewUserController(auth)
	kdsController := controllers.NewKDSController(d.Hub, cfg.CORSAllowedOrigins)

	authn := middlewares.NewAuthenticator(d.Tokens, d.Revoked)
	authLimiter := d.AuthLimiter

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware(d.Logger, d.Metrics))
	r.Use(middlewares.CORSMiddlewares(middlewares.CORSOptions{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   cfg.CORSAllowedMethods,
		AllowedHeaders:   cfg.CORSAllowedHeaders,
		AllowCredentials: cfg.CORSAllowCredentials,
	}))
	r.Use(middlewares.SecurityHeaders())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler(d.Registry)))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authLimiter.RateLimit(), userController.Register)
		authGroup.POST("/login", authLimiter.RateLimit(), userController.Login)
		authGroup.POST("/logout", authn.RequireAuth(), userController.Logout)
	}

	menu := api.Group("/menu")
	{
		menu.GET("", menuController.GetAllMenus)
		menu.GET("/category/:category", menuController.GetMenusByCategory)
	}

	orderGroup := api.Group("/orders")
	{
		orderGroup.POST("", authn.OptionalAuth(), orderController.CreateOrder)

		secured := orderGroup.Group("")
		secured.Use(authn.RequireAuth())
		secured.GET("", orderController.GetAllOrders)
		secured.GET("/my-orders", orderController.GetMyOrders)
		secured.GET("/user/:user_id", orderController.GetOrdersByUserID)
		secured.GET("/user/email/:email", orderController.GetOrdersByUserEmail)
		secured.GET("/user/phone/:phone", orderController.GetOrdersByUserPhone)
		secured.GET("/:order_id", orderController.GetOrderByID)
		secured.PUT("/:order_id/status", orderController.UpdateOrderStatus)
		secured.POST("/:order_id/items", orderController.AddOrderItem)
		secured.DELETE("/:order_id/items/:item_id", orderController.RemoveOrderItem)
		secured.DELETE("/:order_id", middlewares.RequireRoles(models.RoleStaff, models.RoleAdmin), orderController.DeleteOrder)
	}

	r.GET("/ws/orders", authn.WebSocketAuth(), kdsController.KDSHandler)

	return r
}
