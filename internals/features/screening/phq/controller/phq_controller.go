// file: internals/features/screening/phq/controller/phq_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"phqa_backend/internals/features/screening/phq/dto"
	"phqa_backend/internals/features/screening/phq/service"
	helper "phqa_backend/internals/helpers"
	helperAuth "phqa_backend/internals/helpers/auth"
)

type PhqController struct {
	Svc       *service.PhqService
	Validator *validator.Validate
}

func NewPhqController(svc *service.PhqService) *PhqController {
	return &PhqController{Svc: svc, Validator: validator.New()}
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, name+" tidak valid")
	}
	return id, nil
}

// POST /api/phq/import
func (h *PhqController) Import(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.ImportPhqRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.FromFiberError(c, err)
	}

	sum, err := h.Svc.ImportPhqResults(c.Context(), actor, req.ToService())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Import hasil PHQ selesai", sum)
}

// GET /api/students/:student_id/phq-results
func (h *PhqController) ListByStudent(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	studentID, err := parseUUIDParam(c, "student_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	list, err := h.Svc.ListStudentResults(c.Context(), actor, studentID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "ok", list, len(list))
}

// GET /api/phq-results/:id
func (h *PhqController) Get(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	r, err := h.Svc.GetResult(c.Context(), actor, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", r)
}

// PATCH /api/phq-results/:id/hospital-referral
func (h *PhqController) UpdateHospitalReferral(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.HospitalReferralRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.FromFiberError(c, err)
	}
	r, err := h.Svc.UpdateHospitalReferral(c.Context(), actor, id, *req.Referred)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Status rujukan rumah sakit diperbarui", r)
}
