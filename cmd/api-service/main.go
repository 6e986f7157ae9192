package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/gearswap/gearswap-api/internal/config"
	"github.com/gearswap/gearswap-api/internal/middleware"
	"github.com/gearswap/gearswap-api/internal/services/auth"
	"github.com/gearswap/gearswap-api/internal/services/chat"
	"github.com/gearswap/gearswap-api/internal/services/item"
	"github.com/gearswap/gearswap-api/internal/services/trade"
	"github.com/gearswap/gearswap-api/internal/services/user"
	"github.com/gearswap/gearswap-api/internal/session"
	"github.com/gearswap/gearswap-api/internal/storage"
	"github.com/gearswap/gearswap-api/internal/utils"
)

func main() {
	cfg := config.LoadConfig()
	ctx := context.Background()

	pool, err := storage.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	defer pool.Close()

	store := storage.NewPostgresStorage(pool)
	if err := store.Migrate(ctx); err != nil {
		log.Fatalf("database migrate: %v", err)
	}

	rdb, err := session.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis init: %v", err)
	}
	defer rdb.Close()
	sessions := session.NewRedisStore(rdb)

	app := fiber.New(fiber.Config{
		AppName:      "GearSwap API",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowCredentials: false,
	}))

	jwtService := utils.NewJWTService(cfg.JWTSecret)
	authMiddleware := middleware.AuthMiddleware(jwtService, sessions)

	authService := auth.NewAuthService(store, sessions, jwtService)
	userService := user.NewUserService(store)
	itemService := item.NewItemService(store)
	tradeService := trade.NewTradeService(store)
	chatService := chat.NewChatService(store)

	authService.SetupRoutes(app, authMiddleware)
	userService.SetupRoutes(app, authMiddleware)
	itemService.SetupRoutes(app, authMiddleware)
	tradeService.SetupRoutes(app, authMiddleware)
	chatService.SetupRoutes(app, authMiddleware)

	log.Printf("GearSwap API listening on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

// errorHandler maps unhandled Fiber errors to JSON.
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
