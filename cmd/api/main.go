package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-office-ledger/internal/config"
	"go-office-ledger/internal/handler"
	"go-office-ledger/internal/middleware"
	"go-office-ledger/internal/model"
	"go-office-ledger/internal/repository"
	"go-office-ledger/internal/service"
	"go-office-ledger/internal/ws"
	"go-office-ledger/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg := config.Load()

	// 2. Setup Database
	db := database.Connect(cfg.DatabaseDSN)
	db.AutoMigrate(&model.Item{}, &model.Movement{}, &model.User{})

	// 3. Seed default admin user
	seedAdmin(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	itemRepo := repository.NewItemRepo(db)
	movementRepo := repository.NewMovementRepo(db)
	userRepo := repository.NewUserRepo(db)

	ledgerService := service.NewLedgerService(itemRepo, movementRepo, db, wsHub)
	authService := service.NewAuthService(userRepo)
	exportService := service.NewExportService()

	if err := os.MkdirAll(cfg.ImageDir, 0o755); err != nil {
		log.Fatalf("Failed to create image directory %s: %v", cfg.ImageDir, err)
	}

	ledgerHandler := handler.NewLedgerHandler(ledgerService, cfg.ImageDir)
	authHandler := handler.NewAuthHandler(authService)
	exportHandler := handler.NewExportHandler(ledgerService, exportService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Office Supplies Ledger v1.0",
	})

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	// Serve stored item images
	app.Static("/images", cfg.ImageDir)

	// 7. Routes
	api := app.Group("/api/v1")

	// Public
	api.Post("/auth/login", authHandler.Login)

	// Everything else requires a valid session
	protected := api.Group("", middleware.RequireAuth(userRepo))

	protected.Get("/items", ledgerHandler.GetItems)
	protected.Post("/items", ledgerHandler.RegisterItem)

	protected.Get("/history", ledgerHandler.GetHistory)
	protected.Get("/history/:id", ledgerHandler.GetMovement)
	protected.Post("/movements", ledgerHandler.ApplyMovement)

	protected.Get("/summary", ledgerHandler.GetSummary)

	protected.Get("/export/items.xlsx", exportHandler.ItemsSpreadsheet)
	protected.Get("/export/history.xlsx", exportHandler.HistorySpreadsheet)
	protected.Get("/export/items.pdf", exportHandler.ItemsPDF)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.HTTPPort); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
	wsHub.Stop()

	log.Println("Server exited")
}

// seedAdmin creates a default admin user if no user exists yet.
func seedAdmin(db *gorm.DB) {
	userRepo := repository.NewUserRepo(db)

	if _, err := userRepo.FindByEmail("admin@example.com"); err == nil {
		return
	}

	admin := &model.User{
		Email:    "admin@example.com",
		FullName: "Administrator",
		IsActive: true,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}
	if err := admin.SetPassword(password); err != nil {
		log.Printf("Warning: Failed to hash admin password: %v", err)
		return
	}

	if err := userRepo.Create(admin); err != nil {
		log.Printf("Warning: Failed to create admin user: %v", err)
	} else {
		log.Println("Admin user created: admin@example.com")
	}
}
