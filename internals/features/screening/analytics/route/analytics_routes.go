package route

import (
	"github.com/gofiber/fiber/v2"

	"phqa_backend/internals/features/screening/analytics/controller"
	"phqa_backend/internals/features/screening/analytics/service"
)

func AnalyticsRoutes(r fiber.Router, svc *service.AnalyticsService) {
	ctl := controller.NewAnalyticsController(svc)
	r.Get("/analytics/summary", ctl.Summary) // GET /api/analytics/summary?school_id=&class_name=
}
