package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"phqa_backend/internals/features/school/students/service"
	helper "phqa_backend/internals/helpers"
	helperAuth "phqa_backend/internals/helpers/auth"
)

type StudentController struct {
	Svc *service.StudentService
}

// DELETE /api/students/:student_id
func (h *StudentController) Delete(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := uuid.Parse(c.Params("student_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "student_id tidak valid")
	}
	res, err := h.Svc.DeleteStudent(c.Context(), actor, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "Data siswa berhasil dihapus", res)
}
