package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ActivityStatus string

const (
	ActivityLocked            ActivityStatus = "locked"
	ActivityInProgress        ActivityStatus = "in_progress"
	ActivityPendingAssessment ActivityStatus = "pending_assessment"
	ActivityCompleted         ActivityStatus = "completed"
)

// ActivityProgressModel: satu baris per (siswa, hasil PHQ, nomor aktivitas).
type ActivityProgressModel struct {
	ActivityProgressID          uuid.UUID `gorm:"type:uuid;primaryKey;column:activity_progress_id" json:"activity_progress_id"`
	ActivityProgressStudentID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_activity_progress_key,priority:1;column:activity_progress_student_id" json:"activity_progress_student_id"`
	ActivityProgressPhqResultID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_activity_progress_key,priority:2;index;column:activity_progress_phq_result_id" json:"activity_progress_phq_result_id"`
	ActivityProgressNumber      int       `gorm:"not null;uniqueIndex:uq_activity_progress_key,priority:3;column:activity_progress_number" json:"activity_progress_number"`

	ActivityProgressStatus      ActivityStatus `gorm:"type:varchar(24);not null;default:'locked';column:activity_progress_status" json:"activity_progress_status"`
	ActivityProgressUnlockedAt  *time.Time     `gorm:"column:activity_progress_unlocked_at" json:"activity_progress_unlocked_at,omitempty"`
	ActivityProgressCompletedAt *time.Time     `gorm:"column:activity_progress_completed_at" json:"activity_progress_completed_at,omitempty"`

	ActivityProgressTeacherID     *uuid.UUID      `gorm:"type:uuid;index;column:activity_progress_teacher_id" json:"activity_progress_teacher_id,omitempty"`
	ActivityProgressTeacherNotes  *string         `gorm:"type:text;column:activity_progress_teacher_notes" json:"activity_progress_teacher_notes,omitempty"`
	ActivityProgressScheduledDate *datatypes.Date `gorm:"column:activity_progress_scheduled_date" json:"activity_progress_scheduled_date,omitempty"`

	// Asesmen guru
	ActivityProgressInternalProblems *string    `gorm:"type:text;column:activity_progress_internal_problems" json:"activity_progress_internal_problems,omitempty"`
	ActivityProgressExternalProblems *string    `gorm:"type:text;column:activity_progress_external_problems" json:"activity_progress_external_problems,omitempty"`
	ActivityProgressProblemType      *string    `gorm:"type:varchar(80);column:activity_progress_problem_type" json:"activity_progress_problem_type,omitempty"`
	ActivityProgressAssessedAt       *time.Time `gorm:"column:activity_progress_assessed_at" json:"activity_progress_assessed_at,omitempty"`

	ActivityProgressCreatedAt time.Time `gorm:"column:activity_progress_created_at;autoCreateTime" json:"activity_progress_created_at"`
	ActivityProgressUpdatedAt time.Time `gorm:"column:activity_progress_updated_at;autoUpdateTime" json:"activity_progress_updated_at"`
}

func (ActivityProgressModel) TableName() string { return "activity_progress" }

func (m *ActivityProgressModel) BeforeCreate(*gorm.DB) error {
	if m.ActivityProgressID == uuid.Nil {
		m.ActivityProgressID = uuid.New()
	}
	return nil
}
