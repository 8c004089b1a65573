// file: internals/features/screening/phq/route/phq_routes.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"phqa_backend/internals/features/screening/phq/controller"
	"phqa_backend/internals/features/screening/phq/service"
	"phqa_backend/internals/middlewares"
)

/*
Mount: PhqRoutes(api, svc) dengan api = app.Group("/api", AuthJWT)
*/
func PhqRoutes(r fiber.Router, svc *service.PhqService) {
	ctl := controller.NewPhqController(svc)

	r.Post("/phq/import", middlewares.UploadRateLimiter(), ctl.Import) // POST /api/phq/import

	r.Get("/students/:student_id/phq-results", ctl.ListByStudent) // GET /api/students/:student_id/phq-results

	results := r.Group("/phq-results")
	results.Get("/:id", ctl.Get) // GET /api/phq-results/:id
	results.Patch("/:id/hospital-referral", ctl.UpdateHospitalReferral) // PATCH /api/phq-results/:id/hospital-referral
}
