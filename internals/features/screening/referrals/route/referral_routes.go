package route

import (
	"github.com/gofiber/fiber/v2"

	"phqa_backend/internals/features/screening/referrals/controller"
	"phqa_backend/internals/features/screening/referrals/service"
)

func ReferralRoutes(r fiber.Router, svc *service.ReferralService) {
	ctl := controller.NewReferralController(svc)

	refs := r.Group("/referrals")
	refs.Post("/", ctl.Create)       // POST   /api/referrals
	refs.Get("/", ctl.ListMine)      // GET    /api/referrals
	refs.Delete("/:id", ctl.Cancel) // DELETE /api/referrals/:id

	r.Get("/students/:student_id/referral", ctl.GetByStudent) // GET /api/students/:student_id/referral
}
