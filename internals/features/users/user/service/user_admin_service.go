// file: internals/features/users/user/service/user_admin_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"phqa_backend/internals/constants"
	classModel "phqa_backend/internals/features/school/classes/model"
	activityModel "phqa_backend/internals/features/screening/activities/model"
	phqModel "phqa_backend/internals/features/screening/phq/model"
	referralModel "phqa_backend/internals/features/screening/referrals/model"
	"phqa_backend/internals/features/users/user/model"
	helperAuth "phqa_backend/internals/helpers/auth"
	"phqa_backend/internals/helpers/logger"
)

var (
	ErrUserNotFound      = fiber.NewError(fiber.StatusNotFound, "User tidak ditemukan")
	ErrSelfModification  = fiber.NewError(fiber.StatusForbidden, "Tidak bisa mengubah akun sendiri")
	ErrSystemAdminTarget = fiber.NewError(fiber.StatusForbidden, "Akun admin sistem tidak bisa diubah")
	ErrRoleNotAssignable = fiber.NewError(fiber.StatusUnprocessableEntity, "Role tujuan tidak bisa diberikan")
	ErrCannotChangeRoles = fiber.NewError(fiber.StatusForbidden, "Hanya admin sistem atau admin sekolah utama yang boleh mengubah role")
	ErrCannotDeleteUsers = fiber.NewError(fiber.StatusForbidden, "Hanya admin yang boleh menghapus user")
)

type UserAdminService struct {
	DB *gorm.DB
}

func NewUserAdminService(db *gorm.DB) *UserAdminService {
	return &UserAdminService{DB: db}
}

// loadTarget: user target + aturan umum (bukan diri sendiri, bukan system_admin, satu sekolah).
func (s *UserAdminService) loadTarget(ctx context.Context, actor helperAuth.ActorContext, targetID uuid.UUID) (*model.UserModel, error) {
	if targetID == actor.UserID {
		return nil, ErrSelfModification
	}
	var u model.UserModel
	err := s.DB.WithContext(ctx).Where("user_id = ?", targetID).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	switch u.UserRole {
	case constants.RoleSystemAdmin:
		return nil, ErrSystemAdminTarget
	case constants.RoleSchoolAdmin, constants.RoleClassTeacher:
	default:
		return nil, ErrUserNotFound
	}

	switch actor.Role {
	case constants.RoleSystemAdmin:
	case constants.RoleSchoolAdmin:
		if u.UserSchoolID == nil || !actor.InSchool(*u.UserSchoolID) {
			return nil, helperAuth.ErrForbidden
		}
	case constants.RoleClassTeacher:
		return nil, helperAuth.ErrForbidden
	default:
		return nil, helperAuth.ErrForbidden
	}
	return &u, nil
}

// ChangeUserRole: ganti role + bersihkan penugasan kelas dalam satu transaksi.
// Promosi ke system_admin tidak lewat jalur ini.
func (s *UserAdminService) ChangeUserRole(ctx context.Context, actor helperAuth.ActorContext, targetID uuid.UUID, role constants.Role) (*model.UserModel, error) {
	if !actor.CanChangeRoles() {
		return nil, ErrCannotChangeRoles
	}
	switch role {
	case constants.RoleSchoolAdmin, constants.RoleClassTeacher:
	case constants.RoleSystemAdmin:
		return nil, ErrRoleNotAssignable
	default:
		return nil, ErrRoleNotAssignable
	}

	u, err := s.loadTarget(ctx, actor, targetID)
	if err != nil {
		return nil, err
	}
	if u.UserRole == role {
		return u, nil
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fields := map[string]any{"user_role": role}
		if role != constants.RoleSchoolAdmin {
			fields["user_is_primary"] = false
		}
		if err := tx.Model(u).Updates(fields).Error; err != nil {
			return fmt.Errorf("update role: %w", err)
		}
		if role != constants.RoleClassTeacher {
			if err := tx.Where("class_teacher_user_id = ?", u.UserID).
				Delete(&classModel.ClassTeacherModel{}).Error; err != nil {
				return fmt.Errorf("clear class assignments: %w", err)
			}
		}
		return tx.Where("user_id = ?", u.UserID).Take(u).Error
	})
	if err != nil {
		return nil, err
	}
	logger.Info("user role changed", "user_id", u.UserID, "role", role, "by", actor.UserID)
	return u, nil
}

// DeleteUser: hapus user + bersihkan rujukan, penugasan kelas, dan teacher_id aktivitas.
func (s *UserAdminService) DeleteUser(ctx context.Context, actor helperAuth.ActorContext, targetID uuid.UUID) error {
	switch actor.Role {
	case constants.RoleSystemAdmin, constants.RoleSchoolAdmin:
	case constants.RoleClassTeacher:
		return ErrCannotDeleteUsers
	default:
		return ErrCannotDeleteUsers
	}
	u, err := s.loadTarget(ctx, actor, targetID)
	if err != nil {
		return err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_referral_from_user_id = ? OR student_referral_to_user_id = ?", u.UserID, u.UserID).
			Delete(&referralModel.StudentReferralModel{}).Error; err != nil {
			return fmt.Errorf("delete referrals: %w", err)
		}
		if err := tx.Where("class_teacher_user_id = ?", u.UserID).
			Delete(&classModel.ClassTeacherModel{}).Error; err != nil {
			return fmt.Errorf("delete class assignments: %w", err)
		}
		if err := tx.Model(&activityModel.ActivityProgressModel{}).
			Where("activity_progress_teacher_id = ?", u.UserID).
			Update("activity_progress_teacher_id", nil).Error; err != nil {
			return fmt.Errorf("clear activity teacher: %w", err)
		}
		if err := tx.Model(&phqModel.PhqResultModel{}).
			Where("phq_result_imported_by = ?", u.UserID).
			Update("phq_result_imported_by", nil).Error; err != nil {
			return fmt.Errorf("clear import author: %w", err)
		}
		if err := tx.Where("user_id = ?", u.UserID).Delete(&model.UserModel{}).Error; err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info("🗑️ user deleted", "user_id", u.UserID, "by", actor.UserID)
	return nil
}
