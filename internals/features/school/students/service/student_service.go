// file: internals/features/school/students/service/student_service.go
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"phqa_backend/internals/constants"
	studentModel "phqa_backend/internals/features/school/students/model"
	activityModel "phqa_backend/internals/features/screening/activities/model"
	phqModel "phqa_backend/internals/features/screening/phq/model"
	referralModel "phqa_backend/internals/features/screening/referrals/model"
	helperAuth "phqa_backend/internals/helpers/auth"
	"phqa_backend/internals/helpers/cache"
	"phqa_backend/internals/helpers/logger"
	helperOSS "phqa_backend/internals/helpers/oss"
)

type StudentService struct {
	DB    *gorm.DB
	Blob  helperOSS.BlobService
	Cache cache.SchoolInvalidator
}

func NewStudentService(db *gorm.DB, blob helperOSS.BlobService, inv cache.SchoolInvalidator) *StudentService {
	if inv == nil {
		inv = cache.NopInvalidator{}
	}
	return &StudentService{DB: db, Blob: blob, Cache: inv}
}

type DeleteResult struct {
	StudentID        uuid.UUID `json:"student_id"`
	PhqResults       int64     `json:"phq_results"`
	Activities       int64     `json:"activities"`
	Uploads          int64     `json:"uploads"`
	Referrals        int64     `json:"referrals"`
	ObjectsRemoved   int       `json:"objects_removed"`
	ObjectsRemaining int       `json:"objects_remaining"`
}

// DeleteStudent menghapus siswa beserta seluruh turunannya dalam satu transaksi.
// File worksheet dihapus dari storage setelah commit.
func (s *StudentService) DeleteStudent(ctx context.Context, actor helperAuth.ActorContext, studentID uuid.UUID) (*DeleteResult, error) {
	switch actor.Role {
	case constants.RoleSystemAdmin, constants.RoleSchoolAdmin:
	case constants.RoleClassTeacher:
		return nil, helperAuth.ErrForbidden
	default:
		return nil, helperAuth.ErrForbidden
	}
	scope, err := helperAuth.EnsureStudentAccess(ctx, s.DB, actor, studentID)
	if err != nil {
		return nil, err
	}

	res := &DeleteResult{StudentID: studentID}
	var keys []string
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		activityIDs := tx.Model(&activityModel.ActivityProgressModel{}).
			Select("activity_progress_id").
			Where("activity_progress_student_id = ?", studentID)

		if err := tx.Model(&activityModel.WorksheetUploadModel{}).
			Where("worksheet_upload_activity_progress_id IN (?)", activityIDs).
			Pluck("worksheet_upload_object_key", &keys).Error; err != nil {
			return fmt.Errorf("collect worksheet keys: %w", err)
		}

		del := tx.Where("worksheet_upload_activity_progress_id IN (?)", activityIDs).
			Delete(&activityModel.WorksheetUploadModel{})
		if del.Error != nil {
			return fmt.Errorf("delete worksheet uploads: %w", del.Error)
		}
		res.Uploads = del.RowsAffected

		del = tx.Where("activity_progress_student_id = ?", studentID).Delete(&activityModel.ActivityProgressModel{})
		if del.Error != nil {
			return fmt.Errorf("delete activity progress: %w", del.Error)
		}
		res.Activities = del.RowsAffected

		del = tx.Where("phq_result_student_id = ?", studentID).Delete(&phqModel.PhqResultModel{})
		if del.Error != nil {
			return fmt.Errorf("delete phq results: %w", del.Error)
		}
		res.PhqResults = del.RowsAffected

		del = tx.Where("student_referral_student_id = ?", studentID).Delete(&referralModel.StudentReferralModel{})
		if del.Error != nil {
			return fmt.Errorf("delete referral: %w", del.Error)
		}
		res.Referrals = del.RowsAffected

		if err := tx.Where("student_id = ?", studentID).Delete(&studentModel.StudentModel{}).Error; err != nil {
			return fmt.Errorf("delete student: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Cache.InvalidateSchool(ctx, scope.SchoolID)

	// storage dibersihkan setelah commit; gagal hapus hanya dicatat
	if s.Blob != nil {
		bctx := context.WithoutCancel(ctx)
		for _, k := range keys {
			if err := s.Blob.Delete(bctx, k); err != nil {
				res.ObjectsRemaining++
				logger.Warn("hapus file worksheet gagal", "key", k, "error", err)
				continue
			}
			res.ObjectsRemoved++
		}
	} else {
		res.ObjectsRemaining = len(keys)
	}

	logger.Info("🗑️ student deleted",
		"student_id", studentID, "by", actor.UserID,
		"phq_results", res.PhqResults, "activities", res.Activities, "uploads", res.Uploads)
	return res, nil
}
