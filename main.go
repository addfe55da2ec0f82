package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"lapgalaxy/internal/config"
	"lapgalaxy/internal/handlers"
	"lapgalaxy/internal/middleware"
	"lapgalaxy/internal/models"
	"lapgalaxy/internal/repositories"
	"lapgalaxy/internal/services"
	"lapgalaxy/pkg/filestore"
	"lapgalaxy/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	// --- Database ---
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.HeroImage{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- File storage ---
	store, err := filestore.New(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize upload directory: %v", err)
	}

	// --- RabbitMQ ---
	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
	}
	defer mqClient.Close()

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	heroRepo := repositories.NewGORMHeroImageRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, cfg.JWTSecret)
	userService := services.NewUserService(userRepo)
	productService := services.NewProductService(productRepo, cartRepo, store, cfg)
	cartService := services.NewCartService(cartRepo, productRepo, userRepo, cfg)
	orderService := services.NewOrderService(orderRepo, productRepo, cartService, mqClient, cfg)
	heroService := services.NewHeroImageService(heroRepo, store, cfg)

	seedAdminUser(userRepo)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(authService, userService)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	heroHandler := handlers.NewHeroImageHandler(heroService)

	// --- Middleware ---
	authRequired := middleware.AuthRequired(authService)
	optionalAuth := middleware.OptionalAuth(authService)
	adminOnly := middleware.RequireRoles(string(models.RoleAdmin))

	// --- Fiber App ---
	app := fiber.New()
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.CORSOrigins, ","),
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Uploaded images are served directly from disk.
	app.Static("/uploads", cfg.UploadDir, fiber.Static{
		MaxAge: 3600,
	})

	// --- API Routes ---
	api := app.Group("/api")
	authHandler.RegisterRoutes(api)
	userHandler.RegisterRoutes(api, authRequired, adminOnly)
	productHandler.RegisterRoutes(api, authRequired, adminOnly)
	cartHandler.RegisterRoutes(api, optionalAuth, authRequired)
	orderHandler.RegisterRoutes(api, optionalAuth, authRequired, adminOnly)
	heroHandler.RegisterRoutes(api, authRequired, adminOnly)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Order event consumer ---
	go func() {
		log.Println("Starting order event consumer...")
		handler := func(msg amqp.Delivery) error {
			log.Printf("Received order event (tag %d): %s", msg.DeliveryTag, string(msg.Body))
			return nil
		}
		if consumerErr := mqClient.ConsumeOrderEvents(handler); consumerErr != nil {
			log.Printf("Failed to start order event consumer: %v", consumerErr)
		}
	}()

	// --- Start HTTP Server ---
	log.Printf("Starting server on %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// seedAdminUser ensures a default admin account exists so a fresh install
// can be managed immediately. The password must be changed after first
// login.
func seedAdminUser(userRepo repositories.UserRepository) {
	if _, err := userRepo.GetByUsername("admin"); err == nil {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing admin password: %v", err)
		return
	}
	admin := &models.User{
		ID:       uuid.New().String(),
		Username: "admin",
		Email:    "admin@lapgalaxy.local",
		Password: string(hash),
		Role:     models.RoleAdmin,
		Active:   true,
	}
	if err := userRepo.Create(admin); err != nil {
		log.Printf("Error seeding admin user: %v", err)
		return
	}
	log.Println("Seeded default admin user")
}
