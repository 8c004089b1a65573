// file: internals/route/details/school_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"

	studentRoutes "phqa_backend/internals/features/school/students/route"
	userRoutes "phqa_backend/internals/features/users/user/route"
)

/* ===================== SCHOOL ADMIN ===================== */
// Hapus siswa & kelola user (role middleware dipasang di masing-masing route)
func SchoolAdminRoutes(r fiber.Router, s *Services) {
	studentRoutes.StudentRoutes(r, s.Students)
	userRoutes.UserAdminRoutes(r, s.Users)
}
