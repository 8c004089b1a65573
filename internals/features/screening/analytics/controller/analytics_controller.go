package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"phqa_backend/internals/features/screening/analytics/dto"
	"phqa_backend/internals/features/screening/analytics/service"
	helper "phqa_backend/internals/helpers"
	helperAuth "phqa_backend/internals/helpers/auth"
)

type AnalyticsController struct {
	Svc       *service.AnalyticsService
	Validator *validator.Validate
}

func NewAnalyticsController(svc *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{Svc: svc, Validator: validator.New()}
}

// GET /api/analytics/summary?school_id=&class_name=
func (h *AnalyticsController) Summary(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var q dto.SummaryQuery
	if raw := strings.TrimSpace(c.Query("school_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "school_id tidak valid")
		}
		q.SchoolID = &id
	}
	q.ClassName = strings.TrimSpace(c.Query("class_name"))
	if err := h.Validator.Struct(q); err != nil {
		return helper.FromFiberError(c, err)
	}

	snap, err := h.Svc.GetAnalyticsSummary(c.Context(), actor, q.SchoolID, q.ClassName)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if snap == nil {
		return helper.JsonOK(c, "Sekolah belum ditentukan", nil)
	}
	return helper.JsonOK(c, "ok", snap)
}
