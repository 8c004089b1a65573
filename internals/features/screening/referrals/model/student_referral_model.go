package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudentReferralModel: paling banyak satu rujukan aktif per siswa (upsert di student_id).
type StudentReferralModel struct {
	StudentReferralID         uuid.UUID `gorm:"type:uuid;primaryKey;column:student_referral_id" json:"student_referral_id"`
	StudentReferralStudentID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:student_referral_student_id" json:"student_referral_student_id"`
	StudentReferralFromUserID uuid.UUID `gorm:"type:uuid;not null;index;column:student_referral_from_user_id" json:"student_referral_from_user_id"`
	StudentReferralToUserID   uuid.UUID `gorm:"type:uuid;not null;index;column:student_referral_to_user_id" json:"student_referral_to_user_id"`
	StudentReferralNote       *string   `gorm:"type:text;column:student_referral_note" json:"student_referral_note,omitempty"`

	StudentReferralCreatedAt time.Time `gorm:"column:student_referral_created_at;autoCreateTime" json:"student_referral_created_at"`
	StudentReferralUpdatedAt time.Time `gorm:"column:student_referral_updated_at;autoUpdateTime" json:"student_referral_updated_at"`
}

func (StudentReferralModel) TableName() string { return "student_referrals" }

func (m *StudentReferralModel) BeforeCreate(*gorm.DB) error {
	if m.StudentReferralID == uuid.Nil {
		m.StudentReferralID = uuid.New()
	}
	return nil
}
