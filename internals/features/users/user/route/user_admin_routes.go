package route

import (
	"github.com/gofiber/fiber/v2"

	"phqa_backend/internals/constants"
	"phqa_backend/internals/features/users/user/controller"
	"phqa_backend/internals/features/users/user/service"
	authMiddleware "phqa_backend/internals/middlewares/auth"
)

/*
Admin routes: kelola role & hapus user.
Mount contoh: UserAdminRoutes(app.Group("/api", AuthJWT), svc)
*/
func UserAdminRoutes(r fiber.Router, svc *service.UserAdminService) {
	ctl := controller.NewUserAdminController(svc)

	users := r.Group("/users",
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("manajemen user"), constants.AdminRoles...),
	)
	users.Patch("/:id/role", ctl.ChangeRole) // PATCH  /api/users/:id/role
	users.Delete("/:id", ctl.DeleteUser)     // DELETE /api/users/:id
}
