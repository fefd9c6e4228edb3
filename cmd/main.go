package main

import (
	"log"

	"github.com/Cheesenoice/funiture-website-fullstack-sub000/configs"
	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/handlers"
	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/middleware"
	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/models"
	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/repositories"
	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/services"
	"github.com/Cheesenoice/funiture-website-fullstack-sub000/pkg/auth"
	"github.com/Cheesenoice/funiture-website-fullstack-sub000/pkg/cache"
	"github.com/Cheesenoice/funiture-website-fullstack-sub000/pkg/database"
	"github.com/Cheesenoice/funiture-website-fullstack-sub000/pkg/messaging"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	config := configs.LoadConfig()

	// Set Gin mode
	gin.SetMode(config.Server.Mode)

	// Initialize database connections
	db, err := database.NewDatabase(config.Database.PostgresURL, config.Database.MongoURL, config.Database.MongoDBName)
	if err != nil {
		log.Fatal("Failed to connect to databases:", err)
	}
	defer db.Close()

	// Auto-migrate PostgreSQL tables
	if err := autoMigratePostgres(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis cache
	redisCache := cache.NewRedisCache(config.Redis.URL, config.Redis.Password, config.Redis.DB)
	if redisCache == nil {
		log.Fatal("Failed to connect to Redis")
	}
	defer redisCache.Close()

	// Initialize Kafka
	kafkaProducer := messaging.NewKafkaProducer(config.Kafka.Brokers)
	defer kafkaProducer.Close()

	// Initialize JWT manager (access: configurable, refresh: 30 days)
	jwtManager := auth.NewJWTManager(config.JWT.SecretKey, config.JWT.ExpiryHours, 30)

	// PostgreSQL repositories
	userRepo := repositories.NewUserRepository(db.Postgres)
	addressRepo := repositories.NewAddressRepository(db.Postgres)
	cartRepo := repositories.NewCartRepository(db.Postgres)
	orderRepo := repositories.NewOrderRepository(db.Postgres)
	paymentRepo := repositories.NewPaymentRepository(db.Postgres)
	shippingRepo := repositories.NewShippingFeeRepository(db.Postgres)

	// MongoDB repositories
	productRepo := repositories.NewProductRepository(db.MongoDB)
	categoryRepo := repositories.NewProductCategoryRepository(db.MongoDB)
	articleRepo := repositories.NewArticleRepository(db.MongoDB)

	// Initialize services
	authService := services.NewAuthService(userRepo, addressRepo, jwtManager)
	addressService := services.NewAddressService(addressRepo, userRepo)
	cartService := services.NewCartService(cartRepo, productRepo, redisCache)
	shippingService := services.NewShippingService(shippingRepo)
	productService := services.NewProductService(productRepo, categoryRepo, redisCache, kafkaProducer, config.Kafka.Brokers)
	categoryService := services.NewCategoryService(categoryRepo, productRepo, redisCache)
	articleService := services.NewArticleService(articleRepo, kafkaProducer, config.Kafka.Brokers)
	orderService := services.NewOrderService(orderRepo, paymentRepo, kafkaProducer, config.Kafka.Brokers)

	momoService := services.NewMoMoService(config.MoMo, paymentRepo, orderRepo, kafkaProducer, config.Kafka.Brokers)
	checkoutService := services.NewCheckoutService(
		cartService,
		shippingService,
		addressRepo,
		orderRepo,
		paymentRepo,
		productRepo,
		momoService,
		redisCache,
		kafkaProducer,
		config.Kafka.Brokers,
	)

	// Background sweeper for abandoned MoMo payments (cutoff: 30 minutes)
	paymentSweeper := services.NewPaymentSweeper(orderRepo, paymentRepo, kafkaProducer, config.Kafka.Brokers, 30)
	paymentSweeper.Start()
	defer paymentSweeper.Stop()

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	addressHandler := handlers.NewAddressHandler(addressService)
	cartHandler := handlers.NewCartHandler(cartService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, momoService)
	productHandler := handlers.NewProductHandler(productService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	articleHandler := handlers.NewArticleHandler(articleService)
	orderHandler := handlers.NewOrderHandler(orderService)
	shippingHandler := handlers.NewShippingHandler(shippingService)

	// Initialize Gin router
	router := gin.New()

	// Global middleware
	router.Use(middleware.CORSMiddleware(nil))
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestIDMiddleware())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "funiture-store-backend",
		})
	})

	// API routes
	api := router.Group("/api/v1")

	// Register routes
	authHandler.RegisterRoutes(api, authMiddleware)
	addressHandler.RegisterRoutes(api, authMiddleware)
	cartHandler.RegisterRoutes(api, authMiddleware)
	checkoutHandler.RegisterRoutes(api, authMiddleware)
	productHandler.RegisterRoutes(api, authMiddleware)
	categoryHandler.RegisterRoutes(api, authMiddleware)
	articleHandler.RegisterRoutes(api, authMiddleware)
	orderHandler.RegisterRoutes(api, authMiddleware)
	shippingHandler.RegisterRoutes(api, authMiddleware)

	log.Printf("Server starting on port %s", config.Server.Port)
	log.Fatal(router.Run(":" + config.Server.Port))
}

func autoMigratePostgres(db *database.Database) error {
	return db.Postgres.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Cart{},
		&models.Order{},
		&models.Payment{},
		&models.ShippingFee{},
	)
}
