package database

import (
	"fmt"

	"gorm.io/gorm"

	classModel "phqa_backend/internals/features/school/classes/model"
	schoolModel "phqa_backend/internals/features/school/schools/model"
	studentModel "phqa_backend/internals/features/school/students/model"
	activityModel "phqa_backend/internals/features/screening/activities/model"
	phqModel "phqa_backend/internals/features/screening/phq/model"
	referralModel "phqa_backend/internals/features/screening/referrals/model"
	userModel "phqa_backend/internals/features/users/user/model"
	"phqa_backend/internals/helpers/logger"
)

// Models: urutan migrasi
func Models() []any {
	return []any{
		&schoolModel.SchoolModel{},
		&userModel.UserModel{},
		&classModel.ClassModel{},
		&classModel.ClassTeacherModel{},
		&studentModel.StudentModel{},
		&phqModel.PhqResultModel{},
		&activityModel.ActivityProgressModel{},
		&activityModel.WorksheetUploadModel{},
		&referralModel.StudentReferralModel{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	logger.Info("✅ AutoMigrate selesai", "tables", len(Models()))
	return nil
}
