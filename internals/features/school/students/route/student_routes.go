package route

import (
	"github.com/gofiber/fiber/v2"

	"phqa_backend/internals/constants"
	"phqa_backend/internals/features/school/students/controller"
	"phqa_backend/internals/features/school/students/service"
	authMiddleware "phqa_backend/internals/middlewares/auth"
)

func StudentRoutes(r fiber.Router, svc *service.StudentService) {
	ctl := &controller.StudentController{Svc: svc}

	r.Delete("/students/:student_id",
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("hapus siswa"), constants.AdminRoles...),
		ctl.Delete,
	) // DELETE /api/students/:student_id
}
