package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudentModel struct {
	StudentID       uuid.UUID  `gorm:"type:uuid;primaryKey;column:student_id" json:"student_id"`
	StudentSchoolID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_students_school_code,priority:1;column:student_school_id" json:"student_school_id"`
	StudentClassID  *uuid.UUID `gorm:"type:uuid;index;column:student_class_id" json:"student_class_id,omitempty"`

	StudentCode      string `gorm:"type:varchar(50);not null;uniqueIndex:uq_students_school_code,priority:2;column:student_code" json:"student_code"`
	StudentFirstName string `gorm:"type:varchar(100);not null;column:student_first_name" json:"student_first_name"`
	StudentLastName  string `gorm:"type:varchar(100);column:student_last_name" json:"student_last_name"`

	StudentCreatedAt time.Time `gorm:"column:student_created_at;autoCreateTime" json:"student_created_at"`
	StudentUpdatedAt time.Time `gorm:"column:student_updated_at;autoUpdateTime" json:"student_updated_at"`
}

func (StudentModel) TableName() string { return "students" }

func (m *StudentModel) BeforeCreate(*gorm.DB) error {
	if m.StudentID == uuid.Nil {
		m.StudentID = uuid.New()
	}
	return nil
}
