package main

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/HarshwardhanZalte/NearBasket-backend/internal/handler"
	mid "github.com/HarshwardhanZalte/NearBasket-backend/internal/middleware"
	"github.com/HarshwardhanZalte/NearBasket-backend/internal/model"
	"github.com/HarshwardhanZalte/NearBasket-backend/internal/notify"
	"github.com/HarshwardhanZalte/NearBasket-backend/internal/service"
	"github.com/HarshwardhanZalte/NearBasket-backend/internal/store"
	"github.com/HarshwardhanZalte/NearBasket-backend/pkg/config"
	"github.com/HarshwardhanZalte/NearBasket-backend/pkg/database"
	"github.com/HarshwardhanZalte/NearBasket-backend/pkg/jwtutil"
	"github.com/HarshwardhanZalte/NearBasket-backend/pkg/logger"
	"github.com/HarshwardhanZalte/NearBasket-backend/prometheus"
)

func main() {
	// Load configuration
	appConfig, err := config.Load("nearbasket")
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting nearbasket",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	db, err := database.InitDB(&appConfig.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	err = database.MigrateModels(
		&model.User{},
		&model.OTP{},
		&model.Shop{},
		&model.ShopCustomer{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Wire the services with explicit dependencies
	jwt := jwtutil.NewJWTUtil(&appConfig.JWT)
	st := store.NewGormStore(db)
	sender := notify.NewLogSender(log)

	authService := service.NewAuthService(service.AuthServiceConfig{
		Store:  st,
		Clock:  time.Now,
		Sender: sender,
		JWT:    jwt,
		OTPTTL: appConfig.OTP.TTL,
		Logger: log,
	})
	shopService := service.NewShopService(st, log)
	productService := service.NewProductService(st, log)
	orderService := service.NewOrderService(st, log)

	authHandler := handler.NewAuthHandler(authService)
	shopHandler := handler.NewShopHandler(shopService)
	productHandler := handler.NewProductHandler(productService)
	orderHandler := handler.NewOrderHandler(orderService)

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomw.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public user routes
	users := e.Group("/api/users")
	users.POST("/register", authHandler.Register)
	users.POST("/send-otp", authHandler.SendOTP)
	users.POST("/verify-otp", authHandler.VerifyOTP)

	auth := mid.AuthMiddleware(jwt)

	// Profile routes
	me := e.Group("/api/users/me", auth)
	me.GET("", authHandler.GetProfile)
	me.PUT("", authHandler.UpdateProfile)

	// Shop and membership routes
	shops := e.Group("/api/shops", auth)
	shops.GET("", shopHandler.ListShops)
	shops.POST("", shopHandler.CreateShop)
	shops.GET("/:id", shopHandler.GetShop)
	shops.PUT("/:id", shopHandler.UpdateShop)
	shops.DELETE("/:id", shopHandler.DeleteShop)
	shops.POST("/join/:code", shopHandler.JoinShop)
	shops.GET("/:id/customers", shopHandler.ListCustomers)
	shops.POST("/:id/customers", shopHandler.AddCustomer)
	shops.DELETE("/:id/customers/:userID", shopHandler.RemoveCustomer)

	// Catalog routes
	shops.GET("/:id/products", productHandler.ListProducts)
	shops.POST("/:id/products", productHandler.CreateProduct)
	shops.GET("/:id/products/:productID", productHandler.GetProduct)
	shops.PUT("/:id/products/:productID", productHandler.UpdateProduct)
	shops.DELETE("/:id/products/:productID", productHandler.DeleteProduct)

	// Order routes
	shops.POST("/:id/orders", orderHandler.CreateOrder)
	shops.GET("/:id/orders", orderHandler.ShopOrders)
	orders := e.Group("/api/orders", auth)
	orders.GET("", orderHandler.MyOrders)
	orders.GET("/:id", orderHandler.GetOrder)
	orders.PUT("/:id/status", orderHandler.UpdateOrderStatus)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
