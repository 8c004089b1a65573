// file: internals/features/screening/activities/controller/activity_controller.go
package controller

import (
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"phqa_backend/internals/constants"
	"phqa_backend/internals/features/screening/activities/dto"
	"phqa_backend/internals/features/screening/activities/service"
	helper "phqa_backend/internals/helpers"
	helperAuth "phqa_backend/internals/helpers/auth"
)

type ActivityController struct {
	Svc       *service.ActivityService
	Validator *validator.Validate
}

func NewActivityController(svc *service.ActivityService) *ActivityController {
	return &ActivityController{Svc: svc, Validator: validator.New()}
}

// actorAndID: ActorContext + UUID dari path param.
func actorAndID(c *fiber.Ctx, param string) (helperAuth.ActorContext, uuid.UUID, error) {
	actor, err := helperAuth.ActorFromLocals(c)
	if err != nil {
		return actor, uuid.Nil, err
	}
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return actor, uuid.Nil, fiber.NewError(fiber.StatusBadRequest, param+" tidak valid")
	}
	return actor, id, nil
}

func (h *ActivityController) bind(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	return h.Validator.Struct(out)
}

// GET /api/students/:student_id/activities
func (h *ActivityController) GetStudentActivities(c *fiber.Ctx) error {
	actor, studentID, err := actorAndID(c, "student_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	out, err := h.Svc.GetActivityProgress(c.Context(), actor, studentID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}

// POST /api/activities/:id/worksheets (multipart: file)
func (h *ActivityController) UploadWorksheet(c *fiber.Ctx) error {
	actor, id, err := actorAndID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "File worksheet wajib diunggah (field: file)")
	}
	if fh.Size > constants.MaxWorksheetSize {
		return helper.FromFiberError(c, service.ErrFileTooLarge)
	}
	f, err := fh.Open()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "File tidak bisa dibaca")
	}
	defer f.Close()
	// +1 byte supaya file yang lebih besar dari batas tetap terdeteksi
	data, err := io.ReadAll(io.LimitReader(f, constants.MaxWorksheetSize+1))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "File tidak bisa dibaca")
	}

	out, err := h.Svc.UploadWorksheet(c.Context(), actor, id, service.WorksheetFile{
		Bytes:               data,
		DeclaredContentType: fh.Header.Get(fiber.HeaderContentType),
		FileName:            fh.Filename,
		Size:                int64(len(data)),
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	msg := "Worksheet berhasil diunggah"
	if out.Completed {
		msg = "Worksheet berhasil diunggah, aktivitas selesai 🎉"
	}
	return helper.JsonCreated(c, msg, out)
}

// PATCH /api/activities/:id/assessment
func (h *ActivityController) SubmitAssessment(c *fiber.Ctx) error {
	actor, id, err := actorAndID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.AssessmentRequest
	if err := h.bind(c, &req); err != nil {
		return helper.FromFiberError(c, err)
	}
	rec, err := h.Svc.SubmitTeacherAssessment(c.Context(), actor, id, service.AssessmentInput{
		InternalProblems: req.InternalProblems,
		ExternalProblems: req.ExternalProblems,
		ProblemType:      req.ProblemType,
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Asesmen guru tersimpan", rec)
}

// PATCH /api/activities/:id/schedule
func (h *ActivityController) Schedule(c *fiber.Ctx) error {
	actor, id, err := actorAndID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.ScheduleRequest
	if err := h.bind(c, &req); err != nil {
		return helper.FromFiberError(c, err)
	}
	date, err := req.ParseDate()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format tanggal harus YYYY-MM-DD")
	}
	rec, err := h.Svc.ScheduleActivity(c.Context(), actor, id, date)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Aktivitas dijadwalkan", rec)
}

// PATCH /api/activities/:id/notes
func (h *ActivityController) UpdateNotes(c *fiber.Ctx) error {
	actor, id, err := actorAndID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.NotesRequest
	if err := h.bind(c, &req); err != nil {
		return helper.FromFiberError(c, err)
	}
	rec, err := h.Svc.UpdateTeacherNotes(c.Context(), actor, id, req.Notes)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Catatan guru tersimpan", rec)
}

// PATCH /api/activities/:id/scheduled-date
func (h *ActivityController) UpdateScheduledDate(c *fiber.Ctx) error {
	actor, id, err := actorAndID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.ScheduledDateRequest
	if err := h.bind(c, &req); err != nil {
		return helper.FromFiberError(c, err)
	}
	date, err := req.ParseDate()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format tanggal harus YYYY-MM-DD")
	}
	rec, err := h.Svc.UpdateScheduledDate(c.Context(), actor, id, date)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Tanggal jadwal diperbarui", rec)
}
