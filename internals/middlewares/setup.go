package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"phqa_backend/internals/configs"
	mwLogger "phqa_backend/internals/middlewares/logger"
)

func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	if configs.AppEnv != "test" {
		app.Use(mwLogger.LoggerMiddleware())
	}
	app.Use(GlobalRateLimiter())
}
