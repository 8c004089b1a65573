// file: internals/features/screening/activities/service/activity_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	model "phqa_backend/internals/features/screening/activities/model"
	phqModel "phqa_backend/internals/features/screening/phq/model"
	helperAuth "phqa_backend/internals/helpers/auth"
	"phqa_backend/internals/helpers/cache"
	helperOSS "phqa_backend/internals/helpers/oss"
)

var (
	ErrActivityNotFound = fiber.NewError(fiber.StatusNotFound, "Aktivitas tidak ditemukan")
	ErrInvalidState     = fiber.NewError(fiber.StatusConflict, "Asesmen hanya bisa diisi untuk aktivitas yang sudah selesai atau menunggu asesmen")
	ErrLockedActivity   = fiber.NewError(fiber.StatusConflict, "Aktivitas masih terkunci")
)

type ActivityService struct {
	DB    *gorm.DB
	Blob  helperOSS.BlobService
	Cache cache.SchoolInvalidator
	Now   func() time.Time
}

func NewActivityService(db *gorm.DB, blob helperOSS.BlobService, inv cache.SchoolInvalidator) *ActivityService {
	if inv == nil {
		inv = cache.NopInvalidator{}
	}
	return &ActivityService{DB: db, Blob: blob, Cache: inv, Now: time.Now}
}

func (s *ActivityService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

/* =========================
   Initialize / unlock
========================= */

// InitializeProgress membuat record aktivitas untuk hasil PHQ baru.
// Aktivitas pertama in_progress, sisanya locked. Duplikat (student, phq, nomor) di-skip.
// Harus dipanggil di dalam transaksi pemanggil (tx).
func (s *ActivityService) InitializeProgress(tx *gorm.DB, studentID, phqResultID uuid.UUID, level phqModel.RiskLevel) (int, error) {
	numbers := EligibleActivities(level)
	if len(numbers) == 0 {
		return 0, nil
	}

	now := s.now()
	rows := make([]model.ActivityProgressModel, 0, len(numbers))
	for i, n := range numbers {
		r := model.ActivityProgressModel{
			ActivityProgressStudentID:   studentID,
			ActivityProgressPhqResultID: phqResultID,
			ActivityProgressNumber:      n,
			ActivityProgressStatus:      model.ActivityLocked,
		}
		if i == 0 {
			r.ActivityProgressStatus = model.ActivityInProgress
			r.ActivityProgressUnlockedAt = &now
		}
		rows = append(rows, r)
	}

	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows)
	if res.Error != nil {
		return 0, fmt.Errorf("initialize activity progress: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}

// UnlockNextActivity membuka aktivitas locked bernomor terkecil setelah current.
// Tidak ada → no-op (urutan selesai).
func (s *ActivityService) UnlockNextActivity(tx *gorm.DB, studentID, phqResultID uuid.UUID, current int) error {
	var next model.ActivityProgressModel
	err := tx.
		Where("activity_progress_student_id = ? AND activity_progress_phq_result_id = ?", studentID, phqResultID).
		Where("activity_progress_number > ? AND activity_progress_status = ?", current, model.ActivityLocked).
		Order("activity_progress_number ASC").
		Take(&next).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("find next activity: %w", err)
	}

	now := s.now()
	return tx.Model(&next).Updates(map[string]any{
		"activity_progress_status":      model.ActivityInProgress,
		"activity_progress_unlocked_at": now,
	}).Error
}

/* =========================
   Teacher actions
========================= */

type AssessmentInput struct {
	InternalProblems string
	ExternalProblems string
	ProblemType      string
}

// loadForActor: record + cek akses siswa. Record tidak ada → ErrActivityNotFound.
func (s *ActivityService) loadForActor(ctx context.Context, actor helperAuth.ActorContext, id uuid.UUID) (*model.ActivityProgressModel, helperAuth.StudentScope, error) {
	var rec model.ActivityProgressModel
	err := s.DB.WithContext(ctx).Where("activity_progress_id = ?", id).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helperAuth.StudentScope{}, ErrActivityNotFound
	}
	if err != nil {
		return nil, helperAuth.StudentScope{}, fmt.Errorf("load activity progress: %w", err)
	}
	scope, err := helperAuth.EnsureStudentAccess(ctx, s.DB, actor, rec.ActivityProgressStudentID)
	if err != nil {
		return nil, helperAuth.StudentScope{}, err
	}
	return &rec, scope, nil
}

func (s *ActivityService) update(ctx context.Context, rec *model.ActivityProgressModel, schoolID uuid.UUID, fields map[string]any) (*model.ActivityProgressModel, error) {
	if err := s.DB.WithContext(ctx).Model(rec).Updates(fields).Error; err != nil {
		return nil, fmt.Errorf("update activity progress: %w", err)
	}
	var fresh model.ActivityProgressModel
	if err := s.DB.WithContext(ctx).Where("activity_progress_id = ?", rec.ActivityProgressID).Take(&fresh).Error; err != nil {
		return nil, fmt.Errorf("reload activity progress: %w", err)
	}
	s.Cache.InvalidateSchool(ctx, schoolID)
	return &fresh, nil
}

// SubmitTeacherAssessment hanya untuk status pending_assessment / completed; status tidak berubah.
func (s *ActivityService) SubmitTeacherAssessment(ctx context.Context, actor helperAuth.ActorContext, id uuid.UUID, in AssessmentInput) (*model.ActivityProgressModel, error) {
	rec, scope, err := s.loadForActor(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	switch rec.ActivityProgressStatus {
	case model.ActivityPendingAssessment, model.ActivityCompleted:
	default:
		return nil, ErrInvalidState
	}
	return s.update(ctx, rec, scope.SchoolID, map[string]any{
		"activity_progress_internal_problems": in.InternalProblems,
		"activity_progress_external_problems": in.ExternalProblems,
		"activity_progress_problem_type":      in.ProblemType,
		"activity_progress_assessed_at":       s.now(),
	})
}

func (s *ActivityService) withTeacher(rec *model.ActivityProgressModel, actor helperAuth.ActorContext, fields map[string]any) map[string]any {
	if rec.ActivityProgressTeacherID == nil {
		fields["activity_progress_teacher_id"] = actor.UserID
	}
	return fields
}

func (s *ActivityService) ScheduleActivity(ctx context.Context, actor helperAuth.ActorContext, id uuid.UUID, date time.Time) (*model.ActivityProgressModel, error) {
	rec, scope, err := s.loadForActor(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	d := datatypes.Date(date)
	return s.update(ctx, rec, scope.SchoolID, s.withTeacher(rec, actor, map[string]any{
		"activity_progress_scheduled_date": &d,
	}))
}

func (s *ActivityService) UpdateTeacherNotes(ctx context.Context, actor helperAuth.ActorContext, id uuid.UUID, notes string) (*model.ActivityProgressModel, error) {
	rec, scope, err := s.loadForActor(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, rec, scope.SchoolID, s.withTeacher(rec, actor, map[string]any{
		"activity_progress_teacher_notes": notes,
	}))
}

// UpdateScheduledDate: nil menghapus jadwal. Aktivitas locked tidak bisa dijadwalkan.
func (s *ActivityService) UpdateScheduledDate(ctx context.Context, actor helperAuth.ActorContext, id uuid.UUID, date *time.Time) (*model.ActivityProgressModel, error) {
	rec, scope, err := s.loadForActor(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if rec.ActivityProgressStatus == model.ActivityLocked {
		return nil, ErrLockedActivity
	}
	var val any
	if date != nil {
		d := datatypes.Date(*date)
		val = &d
	}
	return s.update(ctx, rec, scope.SchoolID, map[string]any{
		"activity_progress_scheduled_date": val,
	})
}

/* =========================
   Read
========================= */

type ActivityWithUploads struct {
	model.ActivityProgressModel
	RequiredCount int                          `json:"required_count"`
	UploadedCount int                          `json:"uploaded_count"`
	Uploads       []model.WorksheetUploadModel `json:"uploads"`
}

type StudentActivities struct {
	StudentID   uuid.UUID             `json:"student_id"`
	PhqResultID *uuid.UUID            `json:"phq_result_id,omitempty"`
	RiskLevel   *phqModel.RiskLevel   `json:"risk_level,omitempty"`
	Activities  []ActivityWithUploads `json:"activities"`
}

// GetActivityProgress: aktivitas milik hasil PHQ terbaru siswa + upload-nya.
func (s *ActivityService) GetActivityProgress(ctx context.Context, actor helperAuth.ActorContext, studentID uuid.UUID) (*StudentActivities, error) {
	if _, err := helperAuth.EnsureStudentAccess(ctx, s.DB, actor, studentID); err != nil {
		return nil, err
	}
	out := &StudentActivities{StudentID: studentID, Activities: []ActivityWithUploads{}}

	var latest phqModel.PhqResultModel
	err := s.DB.WithContext(ctx).
		Where("phq_result_student_id = ?", studentID).
		Order("phq_result_created_at DESC, phq_result_id DESC").
		Take(&latest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load latest phq result: %w", err)
	}
	out.PhqResultID = &latest.PhqResultID
	out.RiskLevel = &latest.PhqResultRiskLevel

	var recs []model.ActivityProgressModel
	if err := s.DB.WithContext(ctx).
		Where("activity_progress_student_id = ? AND activity_progress_phq_result_id = ?", studentID, latest.PhqResultID).
		Order("activity_progress_number ASC").
		Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list activity progress: %w", err)
	}
	if len(recs) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.ActivityProgressID)
	}
	var ups []model.WorksheetUploadModel
	if err := s.DB.WithContext(ctx).
		Where("worksheet_upload_activity_progress_id IN ?", ids).
		Order("worksheet_upload_order ASC").
		Find(&ups).Error; err != nil {
		return nil, fmt.Errorf("list worksheet uploads: %w", err)
	}
	byActivity := make(map[uuid.UUID][]model.WorksheetUploadModel, len(recs))
	for _, u := range ups {
		byActivity[u.WorksheetUploadActivityProgressID] = append(byActivity[u.WorksheetUploadActivityProgressID], u)
	}

	for _, r := range recs {
		list := byActivity[r.ActivityProgressID]
		if list == nil {
			list = []model.WorksheetUploadModel{}
		}
		out.Activities = append(out.Activities, ActivityWithUploads{
			ActivityProgressModel: r,
			RequiredCount:         RequiredUploads(r.ActivityProgressNumber),
			UploadedCount:         len(list),
			Uploads:               list,
		})
	}
	return out, nil
}
