package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/utils"

	"phqa_backend/internals/configs"
	"phqa_backend/internals/constants"
	database "phqa_backend/internals/databases"
	helper "phqa_backend/internals/helpers"
	"phqa_backend/internals/helpers/cache"
	"phqa_backend/internals/helpers/logger"
	helperOSS "phqa_backend/internals/helpers/oss"
	middlewares "phqa_backend/internals/middlewares"
	routes "phqa_backend/internals/route"
)

func main() {
	if err := configs.InitLogger(); err != nil {
		panic(err)
	}
	defer logger.Sync()

	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		BodyLimit:               int(constants.MaxWorksheetSize) + 1<<20, // file + overhead multipart
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return helper.FromFiberError(c, err)
		},
	})

	// ⚙️ middleware dasar + performa
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// 🔎 Request-ID + timing
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUIDv4()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		start := time.Now()
		err := c.Next()
		logger.Debug("[REQ]", "id", id, "method", c.Method(), "url", c.OriginalURL(),
			"status", c.Response().StatusCode(), "dur", time.Since(start))
		return err
	})

	middlewares.SetupMiddlewares(app)

	// 🔌 DB connect + pool + migrate
	database.ConnectDB()
	database.TunePool()
	if err := database.AutoMigrate(database.DB); err != nil {
		logger.Fatal("❌ AutoMigrate gagal", "error", err)
	}
	database.WarmUpQueries()

	ctx := context.Background()

	// 📦 storage worksheet
	blob, err := helperOSS.NewBlobServiceFromEnv(ctx)
	if err != nil {
		logger.Fatal("❌ Storage worksheet tidak siap", "driver", configs.StorageDriver, "error", err)
	}

	// 🧠 cache analitik (Redis → fallback memori)
	store := cache.NewStoreFromEnv(ctx)
	analyticsCache := cache.NewAnalyticsCache(store, configs.AnalyticsTTL)

	// ✅ Routes
	routes.SetupRoutes(app, routes.Deps{
		DB:    database.DB,
		Blob:  blob,
		Cache: analyticsCache,
	})

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 30 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")

	go func() {
		logger.Info("✅ Listening", "port", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			logger.Fatal("server error", "error", err)
		}
	}()

	// graceful shutdown + tutup pool DB & cache
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("⏳ Shutting down...")

	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(sctx)

	if err := store.Close(); err != nil {
		logger.Warn("cache close err", "error", err)
	}
	if closer, ok := blob.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
