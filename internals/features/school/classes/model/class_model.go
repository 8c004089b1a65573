package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClassModel: satu rombel, nama mengikuti format "ม.5/1" (tingkat/rombel)
type ClassModel struct {
	ClassID       uuid.UUID `gorm:"type:uuid;primaryKey;column:class_id" json:"class_id"`
	ClassSchoolID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_classes_school_name,priority:1;column:class_school_id" json:"class_school_id"`
	ClassName     string    `gorm:"type:varchar(50);not null;uniqueIndex:uq_classes_school_name,priority:2;column:class_name" json:"class_name"`

	ClassCreatedAt time.Time `gorm:"column:class_created_at;autoCreateTime" json:"class_created_at"`
	ClassUpdatedAt time.Time `gorm:"column:class_updated_at;autoUpdateTime" json:"class_updated_at"`
}

func (ClassModel) TableName() string { return "classes" }

func (m *ClassModel) BeforeCreate(*gorm.DB) error {
	if m.ClassID == uuid.Nil {
		m.ClassID = uuid.New()
	}
	return nil
}

// ClassTeacherModel: kelas yang diampu seorang class teacher
type ClassTeacherModel struct {
	ClassTeacherID      uuid.UUID `gorm:"type:uuid;primaryKey;column:class_teacher_id" json:"class_teacher_id"`
	ClassTeacherClassID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_class_teachers,priority:1;column:class_teacher_class_id" json:"class_teacher_class_id"`
	ClassTeacherUserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_class_teachers,priority:2;index;column:class_teacher_user_id" json:"class_teacher_user_id"`

	ClassTeacherCreatedAt time.Time `gorm:"column:class_teacher_created_at;autoCreateTime" json:"class_teacher_created_at"`
}

func (ClassTeacherModel) TableName() string { return "class_teachers" }

func (m *ClassTeacherModel) BeforeCreate(*gorm.DB) error {
	if m.ClassTeacherID == uuid.Nil {
		m.ClassTeacherID = uuid.New()
	}
	return nil
}
