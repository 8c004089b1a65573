package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"phqa_backend/internals/features/screening/referrals/dto"
	"phqa_backend/internals/features/screening/referrals/service"
	helper "phqa_backend/internals/helpers"
	helperAuth "phqa_backend/internals/helpers/auth"
)

type ReferralController struct {
	Svc       *service.ReferralService
	Validator *validator.Validate
}

func NewReferralController(svc *service.ReferralService) *ReferralController {
	return &ReferralController{Svc: svc, Validator: validator.New()}
}

// POST /api/referrals
func (h *ReferralController) Create(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.CreateReferralRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.FromFiberError(c, err)
	}
	ref, err := h.Svc.CreateReferral(c.Context(), actor,
		uuid.MustParse(req.StudentID), uuid.MustParse(req.ToUserID), req.Note)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Siswa berhasil dirujuk", ref)
}

// GET /api/referrals
func (h *ReferralController) ListMine(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	out, err := h.Svc.ListMyReferrals(c.Context(), actor)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}

// GET /api/students/:student_id/referral
func (h *ReferralController) GetByStudent(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	studentID, err := uuid.Parse(c.Params("student_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "student_id tidak valid")
	}
	ref, err := h.Svc.GetStudentReferral(c.Context(), actor, studentID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", ref)
}

// DELETE /api/referrals/:id
func (h *ReferralController) Cancel(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id tidak valid")
	}
	if err := h.Svc.CancelReferral(c.Context(), actor, id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "Rujukan dibatalkan", fiber.Map{"id": id})
}
