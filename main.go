package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"teashop/internal/config"
	"teashop/internal/handlers"
	"teashop/internal/middleware"
	"teashop/internal/models"
	"teashop/internal/repositories"
	"teashop/internal/services"
	"teashop/pkg/database"
	"teashop/pkg/rabbitmq"
	"teashop/views"
)

func main() {
	cfg := config.Load()

	// --- Product store ---
	productRepo, closeStore, err := openRepository(cfg)
	if err != nil {
		log.Fatalf("Failed to open product store: %v", err)
	}
	defer closeStore()

	if cfg.SeedData {
		seedProducts(productRepo)
	}

	// --- Catalog events (optional) ---
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Exchange: cfg.RabbitMQExch})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		publisher = mqClient
	} else {
		log.Println("RABBITMQ_URL not set, catalog events disabled")
	}

	productService := services.NewProductService(productRepo, publisher)
	app := newApp(cfg, productService)

	log.Printf("Starting server on port %s", cfg.AppPort)

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
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// newApp builds the Fiber app with middleware, views and every route registered.
func newApp(cfg config.Config, productService *services.ProductService) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		Views:        views.NewEngine(),
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${method} ${path} ${latency}\n",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	handlers.NewProductHandler(productService, cfg.DefaultPageSize).RegisterRoutes(app)
	handlers.NewAPIHandler(productService, cfg.DefaultPageSize).RegisterRoutes(app.Group("/api/v1"))

	return app
}

// openRepository returns the product store selected by DB_DRIVER and a function releasing it.
func openRepository(cfg config.Config) (repositories.ProductRepository, func(), error) {
	if strings.EqualFold(cfg.DBDriver, "memory") {
		return repositories.NewMemoryProductRepository(), func() {}, nil
	}

	db, err := database.Connect(database.Config{
		Driver:          cfg.DBDriver,
		DSN:             cfg.DatabaseDSN,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnMaxLife,
		LogLevel:        cfg.DBLogLevel,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		database.Close(db)
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	closeDB := func() {
		if err := database.Close(db); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}
	return repositories.NewGORMProductRepository(db), closeDB, nil
}

// seedProducts populates an empty store with a starter catalog.
func seedProducts(repo repositories.ProductRepository) {
	page, err := repo.FindPage(models.ProductFilter{}, models.PageRequest{Size: 1})
	if err != nil {
		log.Printf("Error checking product store before seeding: %v", err)
		return
	}
	if page.TotalElements > 0 {
		return
	}

	products := []models.Product{
		{Name: "Sencha", TeaType: "Vert", Origin: "Japon", Price: decimal.RequireFromString("12.50"), StockQuantity: 20},
		{Name: "Gyokuro", TeaType: "Vert", Origin: "Japon", Price: decimal.RequireFromString("34.90"), StockQuantity: 8},
		{Name: "Darjeeling First Flush", TeaType: "Noir", Origin: "Inde", Price: decimal.RequireFromString("18.00"), StockQuantity: 15},
		{Name: "Assam", TeaType: "Noir", Origin: "Inde", Price: decimal.RequireFromString("9.90"), StockQuantity: 40},
		{Name: "Tie Guan Yin", TeaType: "Oolong", Origin: "Chine", Price: decimal.RequireFromString("22.00"), StockQuantity: 12},
		{Name: "Dong Ding", TeaType: "Oolong", Origin: "Taiwan", Price: decimal.RequireFromString("27.50"), StockQuantity: 6},
		{Name: "Bai Mu Dan", TeaType: "Blanc", Origin: "Chine", Price: decimal.RequireFromString("19.90"), StockQuantity: 10},
		{Name: "Shou Pu-erh 2015", TeaType: "Pu-erh", Origin: "Chine", Price: decimal.RequireFromString("45.00"), StockQuantity: 4},
		{Name: "Ceylan Orange Pekoe", TeaType: "Noir", Origin: "Sri Lanka", Price: decimal.RequireFromString("8.50"), StockQuantity: 30},
	}

	for i := range products {
		if err := repo.Create(&products[i]); err != nil {
			log.Printf("Error seeding product %s: %v", products[i].Name, err)
		} else {
			log.Printf("Seeded product: %s (ID: %d)", products[i].Name, products[i].ID)
		}
	}
}
