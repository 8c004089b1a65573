// file: internals/helpers/auth/student_access.go
package helper

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"phqa_backend/internals/constants"
)

var (
	ErrStudentNotFound = fiber.NewError(fiber.StatusNotFound, "Siswa tidak ditemukan")
	ErrForbidden       = fiber.NewError(fiber.StatusForbidden, "Anda tidak memiliki akses ke data ini")
)

// StudentScope: data minimum siswa untuk keputusan akses.
type StudentScope struct {
	StudentID uuid.UUID
	SchoolID  uuid.UUID
	ClassID   *uuid.UUID
}

// EnsureStudentAccess:
//   - system_admin → semua siswa
//   - school_admin → siswa di sekolahnya
//   - class_teacher → siswa di kelas yang diampu + siswa yang dirujuk kepadanya
func EnsureStudentAccess(ctx context.Context, db *gorm.DB, actor ActorContext, studentID uuid.UUID) (StudentScope, error) {
	var sc StudentScope
	err := db.WithContext(ctx).
		Table("students").
		Select("student_id, student_school_id AS school_id, student_class_id AS class_id").
		Where("student_id = ?", studentID).
		Take(&sc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return StudentScope{}, ErrStudentNotFound
	}
	if err != nil {
		return StudentScope{}, fmt.Errorf("load student scope: %w", err)
	}

	ok, err := canAccess(ctx, db, actor, sc)
	if err != nil {
		return StudentScope{}, err
	}
	if !ok {
		return StudentScope{}, ErrForbidden
	}
	return sc, nil
}

func canAccess(ctx context.Context, db *gorm.DB, actor ActorContext, sc StudentScope) (bool, error) {
	switch actor.Role {
	case constants.RoleSystemAdmin:
		return true, nil
	case constants.RoleSchoolAdmin:
		return actor.InSchool(sc.SchoolID), nil
	case constants.RoleClassTeacher:
		if !actor.InSchool(sc.SchoolID) {
			return false, nil
		}
		var n int64
		q := db.WithContext(ctx).Table("student_referrals").
			Where("student_referral_student_id = ? AND student_referral_to_user_id = ?", sc.StudentID, actor.UserID)
		if sc.ClassID != nil {
			q = db.WithContext(ctx).Raw(`
				SELECT COUNT(*) FROM (
					SELECT 1 FROM class_teachers
					WHERE class_teacher_class_id = ? AND class_teacher_user_id = ?
					UNION ALL
					SELECT 1 FROM student_referrals
					WHERE student_referral_student_id = ? AND student_referral_to_user_id = ?
				) t`, *sc.ClassID, actor.UserID, sc.StudentID, actor.UserID)
			if err := q.Scan(&n).Error; err != nil {
				return false, fmt.Errorf("check class teacher access: %w", err)
			}
			return n > 0, nil
		}
		if err := q.Count(&n).Error; err != nil {
			return false, fmt.Errorf("check referral access: %w", err)
		}
		return n > 0, nil
	default:
		return false, nil
	}
}

// TeacherClassIDs: kelas yang diampu seorang class teacher.
func TeacherClassIDs(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := db.WithContext(ctx).Table("class_teachers").
		Where("class_teacher_user_id = ?", userID).
		Pluck("class_teacher_class_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("load teacher classes: %w", err)
	}
	return ids, nil
}
