// file: internals/features/screening/referrals/service/referral_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"phqa_backend/internals/constants"
	model "phqa_backend/internals/features/screening/referrals/model"
	userModel "phqa_backend/internals/features/users/user/model"
	helperAuth "phqa_backend/internals/helpers/auth"
	"phqa_backend/internals/helpers/logger"
)

var (
	ErrReferralNotFound = fiber.NewError(fiber.StatusNotFound, "Rujukan tidak ditemukan")
	ErrSelfReferral     = fiber.NewError(fiber.StatusConflict, "Tidak bisa merujuk siswa ke diri sendiri")
	ErrInvalidTarget    = fiber.NewError(fiber.StatusUnprocessableEntity, "Guru tujuan harus class teacher / admin di sekolah yang sama")
)

type ReferralService struct {
	DB *gorm.DB
}

func NewReferralService(db *gorm.DB) *ReferralService {
	return &ReferralService{DB: db}
}

// ReferralView: rujukan + identitas singkat siswa untuk daftar.
type ReferralView struct {
	model.StudentReferralModel
	StudentCode      string  `json:"student_code"`
	StudentFirstName string  `json:"student_first_name"`
	StudentLastName  string  `json:"student_last_name"`
	ClassName        *string `json:"class_name,omitempty"`
}

type MyReferrals struct {
	Incoming []ReferralView `json:"incoming"`
	Outgoing []ReferralView `json:"outgoing"`
}

// validTarget: tujuan rujukan harus class_teacher / school_admin di sekolah siswa.
func validTarget(u userModel.UserModel, schoolID uuid.UUID) bool {
	switch u.UserRole {
	case constants.RoleClassTeacher, constants.RoleSchoolAdmin:
		return u.UserSchoolID != nil && *u.UserSchoolID == schoolID
	case constants.RoleSystemAdmin:
		return false
	default:
		return false
	}
}

// CreateReferral: upsert di student_id; rujukan lama diganti, tidak menumpuk.
func (s *ReferralService) CreateReferral(ctx context.Context, actor helperAuth.ActorContext, studentID, toUserID uuid.UUID, note *string) (*model.StudentReferralModel, error) {
	if toUserID == actor.UserID {
		return nil, ErrSelfReferral
	}
	scope, err := helperAuth.EnsureStudentAccess(ctx, s.DB, actor, studentID)
	if err != nil {
		return nil, err
	}

	var target userModel.UserModel
	err = s.DB.WithContext(ctx).Where("user_id = ?", toUserID).Take(&target).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidTarget
	}
	if err != nil {
		return nil, fmt.Errorf("load referral target: %w", err)
	}
	if !validTarget(target, scope.SchoolID) {
		return nil, ErrInvalidTarget
	}

	if note != nil {
		n := strings.TrimSpace(*note)
		if n == "" {
			note = nil
		} else {
			note = &n
		}
	}

	var out model.StudentReferralModel
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ref := model.StudentReferralModel{
			StudentReferralStudentID:  studentID,
			StudentReferralFromUserID: actor.UserID,
			StudentReferralToUserID:   toUserID,
			StudentReferralNote:       note,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "student_referral_student_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"student_referral_from_user_id",
				"student_referral_to_user_id",
				"student_referral_note",
				"student_referral_updated_at",
			}),
		}).Create(&ref).Error; err != nil {
			return fmt.Errorf("upsert referral: %w", err)
		}
		return tx.Where("student_referral_student_id = ?", studentID).Take(&out).Error
	})
	if err != nil {
		return nil, err
	}
	logger.Info("student referred", "student_id", studentID, "from", actor.UserID, "to", toUserID)
	return &out, nil
}

// GetStudentReferral: nil bila siswa belum dirujuk.
func (s *ReferralService) GetStudentReferral(ctx context.Context, actor helperAuth.ActorContext, studentID uuid.UUID) (*model.StudentReferralModel, error) {
	if _, err := helperAuth.EnsureStudentAccess(ctx, s.DB, actor, studentID); err != nil {
		return nil, err
	}
	var ref model.StudentReferralModel
	err := s.DB.WithContext(ctx).Where("student_referral_student_id = ?", studentID).Take(&ref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load referral: %w", err)
	}
	return &ref, nil
}

func (s *ReferralService) listViews(ctx context.Context, column string, userID uuid.UUID) ([]ReferralView, error) {
	out := []ReferralView{}
	err := s.DB.WithContext(ctx).
		Table("student_referrals r").
		Select(`r.*,
			s.student_code AS student_code,
			s.student_first_name AS student_first_name,
			s.student_last_name AS student_last_name,
			c.class_name AS class_name`).
		Joins("JOIN students s ON s.student_id = r.student_referral_student_id").
		Joins("LEFT JOIN classes c ON c.class_id = s.student_class_id").
		Where("r."+column+" = ?", userID).
		Order("r.student_referral_updated_at DESC").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list referrals: %w", err)
	}
	return out, nil
}

// ListMyReferrals: rujukan masuk (to = saya) dan keluar (from = saya).
func (s *ReferralService) ListMyReferrals(ctx context.Context, actor helperAuth.ActorContext) (*MyReferrals, error) {
	in, err := s.listViews(ctx, "student_referral_to_user_id", actor.UserID)
	if err != nil {
		return nil, err
	}
	out, err := s.listViews(ctx, "student_referral_from_user_id", actor.UserID)
	if err != nil {
		return nil, err
	}
	return &MyReferrals{Incoming: in, Outgoing: out}, nil
}

// CancelReferral: boleh oleh guru asal/tujuan, admin sekolah siswa, atau system admin.
func (s *ReferralService) CancelReferral(ctx context.Context, actor helperAuth.ActorContext, referralID uuid.UUID) error {
	var ref model.StudentReferralModel
	err := s.DB.WithContext(ctx).Where("student_referral_id = ?", referralID).Take(&ref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrReferralNotFound
	}
	if err != nil {
		return fmt.Errorf("load referral: %w", err)
	}

	allowed := ref.StudentReferralFromUserID == actor.UserID || ref.StudentReferralToUserID == actor.UserID
	if !allowed {
		switch actor.Role {
		case constants.RoleSystemAdmin, constants.RoleSchoolAdmin:
			if _, err := helperAuth.EnsureStudentAccess(ctx, s.DB, actor, ref.StudentReferralStudentID); err != nil {
				return err
			}
		case constants.RoleClassTeacher:
			return helperAuth.ErrForbidden
		default:
			return helperAuth.ErrForbidden
		}
	}

	if err := s.DB.WithContext(ctx).Delete(&model.StudentReferralModel{}, "student_referral_id = ?", referralID).Error; err != nil {
		return fmt.Errorf("delete referral: %w", err)
	}
	logger.Info("referral cancelled", "referral_id", referralID, "by", actor.UserID)
	return nil
}
