// file: internals/route/index.go
package routes

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"phqa_backend/internals/configs"
	"phqa_backend/internals/helpers/cache"
	"phqa_backend/internals/helpers/logger"
	helperOSS "phqa_backend/internals/helpers/oss"
	authMiddleware "phqa_backend/internals/middlewares/auth"
	routeDetails "phqa_backend/internals/route/details"
)

var startTime time.Time

type Deps struct {
	DB    *gorm.DB
	Blob  helperOSS.BlobService
	Cache *cache.AnalyticsCache
}

func SetupRoutes(app *fiber.App, d Deps) {
	startTime = time.Now()

	logger.Info("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, d.DB)

	// ===================== PRIVATE =====================
	logger.Info("[INFO] Setting up PRIVATE group (JWT)...")
	jwt := authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
		Secret:              configs.JWTSecret,
		AllowCookieFallback: true,
	})
	api := app.Group("/api", jwt)

	// worksheet lokal (STORAGE_DRIVER=local), tetap di balik JWT (cookie untuk <img>)
	if configs.StorageDriver == "local" && strings.HasPrefix(configs.StoragePublicBaseURL, "/") {
		app.Group(configs.StoragePublicBaseURL, jwt).Static("/", configs.StorageLocalDir, fiber.Static{
			ByteRange: true,
		})
	}

	svcs := routeDetails.NewServices(d.DB, d.Blob, d.Cache)

	// ===================== MOUNT ROUTES =====================
	logger.Info("[INFO] Mounting Screening routes...")
	routeDetails.ScreeningRoutes(api, svcs)

	logger.Info("[INFO] Mounting School admin routes...")
	routeDetails.SchoolAdminRoutes(api, svcs)
}
