package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"phqa_backend/internals/constants"
	"phqa_backend/internals/features/users/user/dto"
	"phqa_backend/internals/features/users/user/service"
	helper "phqa_backend/internals/helpers"
	helperAuth "phqa_backend/internals/helpers/auth"
)

type UserAdminController struct {
	Svc       *service.UserAdminService
	Validator *validator.Validate
}

func NewUserAdminController(svc *service.UserAdminService) *UserAdminController {
	return &UserAdminController{Svc: svc, Validator: validator.New()}
}

// PATCH /api/users/:id/role
func (ac *UserAdminController) ChangeRole(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid UUID format")
	}
	var req dto.ChangeRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	if err := ac.Validator.Struct(req); err != nil {
		return helper.FromFiberError(c, err)
	}

	u, err := ac.Svc.ChangeUserRole(c.Context(), actor, id, constants.Role(req.Role))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Role user diperbarui", u)
}

// DELETE /api/users/:id
func (ac *UserAdminController) DeleteUser(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid UUID format")
	}
	if err := ac.Svc.DeleteUser(c.Context(), actor, id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "User deleted successfully", fiber.Map{"id": id})
}
