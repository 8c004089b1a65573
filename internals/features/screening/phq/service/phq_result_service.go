// file: internals/features/screening/phq/service/phq_result_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	model "phqa_backend/internals/features/screening/phq/model"
	helperAuth "phqa_backend/internals/helpers/auth"
)

var ErrPhqResultNotFound = fiber.NewError(fiber.StatusNotFound, "Hasil PHQ tidak ditemukan")

// ListStudentResults: riwayat hasil PHQ seorang siswa, terbaru dulu.
func (s *PhqService) ListStudentResults(ctx context.Context, actor helperAuth.ActorContext, studentID uuid.UUID) ([]model.PhqResultModel, error) {
	if _, err := helperAuth.EnsureStudentAccess(ctx, s.DB, actor, studentID); err != nil {
		return nil, err
	}
	var out []model.PhqResultModel
	if err := s.DB.WithContext(ctx).
		Where("phq_result_student_id = ?", studentID).
		Order("phq_result_created_at DESC").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list phq results: %w", err)
	}
	return out, nil
}

func (s *PhqService) GetResult(ctx context.Context, actor helperAuth.ActorContext, id uuid.UUID) (*model.PhqResultModel, error) {
	var r model.PhqResultModel
	err := s.DB.WithContext(ctx).Where("phq_result_id = ?", id).Take(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPhqResultNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load phq result: %w", err)
	}
	if _, err := helperAuth.EnsureStudentAccess(ctx, s.DB, actor, r.PhqResultStudentID); err != nil {
		return nil, err
	}
	return &r, nil
}

// UpdateHospitalReferral: satu-satunya field hasil PHQ yang boleh diubah.
func (s *PhqService) UpdateHospitalReferral(ctx context.Context, actor helperAuth.ActorContext, id uuid.UUID, referred bool) (*model.PhqResultModel, error) {
	r, err := s.GetResult(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(r).
		Update("phq_result_referred_to_hospital", referred).Error; err != nil {
		return nil, fmt.Errorf("update hospital referral: %w", err)
	}
	r.PhqResultReferredToHospital = referred
	s.Cache.InvalidateSchool(ctx, r.PhqResultSchoolID)
	return r, nil
}
