// file: internals/features/screening/activities/route/activity_routes.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"phqa_backend/internals/features/screening/activities/controller"
	"phqa_backend/internals/features/screening/activities/service"
	"phqa_backend/internals/middlewares"
)

func ActivityRoutes(r fiber.Router, svc *service.ActivityService) {
	ctl := controller.NewActivityController(svc)

	r.Get("/students/:student_id/activities", ctl.GetStudentActivities) // GET /api/students/:student_id/activities

	acts := r.Group("/activities")
	acts.Post("/:id/worksheets", middlewares.UploadRateLimiter(), ctl.UploadWorksheet) // POST  /api/activities/:id/worksheets
	acts.Patch("/:id/assessment", ctl.SubmitAssessment)                                // PATCH /api/activities/:id/assessment
	acts.Patch("/:id/schedule", ctl.Schedule)                                          // PATCH /api/activities/:id/schedule
	acts.Patch("/:id/notes", ctl.UpdateNotes)                                          // PATCH /api/activities/:id/notes
	acts.Patch("/:id/scheduled-date", ctl.UpdateScheduledDate)                         // PATCH /api/activities/:id/scheduled-date
}
