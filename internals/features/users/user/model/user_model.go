package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"phqa_backend/internals/constants"
)

// UserModel: akun staf (admin sistem, admin sekolah, guru kelas).
// Kredensial dikelola layanan login; tabel ini hanya menyimpan profil & role.
type UserModel struct {
	UserID        uuid.UUID      `gorm:"type:uuid;primaryKey;column:user_id" json:"user_id"`
	UserFullName  string         `gorm:"type:varchar(120);not null;column:user_full_name" json:"user_full_name"`
	UserEmail     string         `gorm:"type:varchar(255);not null;uniqueIndex;column:user_email" json:"user_email"`
	UserRole      constants.Role `gorm:"type:varchar(20);not null;column:user_role" json:"user_role"`
	UserSchoolID  *uuid.UUID     `gorm:"type:uuid;index;column:user_school_id" json:"user_school_id,omitempty"`
	UserIsPrimary bool           `gorm:"not null;default:false;column:user_is_primary" json:"user_is_primary"`

	UserCreatedAt time.Time `gorm:"column:user_created_at;autoCreateTime" json:"user_created_at"`
	UserUpdatedAt time.Time `gorm:"column:user_updated_at;autoUpdateTime" json:"user_updated_at"`
}

func (UserModel) TableName() string { return "users" }

func (m *UserModel) BeforeCreate(*gorm.DB) error {
	if m.UserID == uuid.Nil {
		m.UserID = uuid.New()
	}
	return nil
}
