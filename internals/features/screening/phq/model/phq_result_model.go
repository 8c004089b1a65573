package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PhqResultModel: satu set jawaban PHQ-A + skor turunannya.
// Jawaban tidak pernah diubah setelah insert; hanya referred_to_hospital yang mutable.
type PhqResultModel struct {
	PhqResultID        uuid.UUID `gorm:"type:uuid;primaryKey;column:phq_result_id" json:"phq_result_id"`
	PhqResultStudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_phq_results_student_period,priority:1;column:phq_result_student_id" json:"phq_result_student_id"`
	PhqResultSchoolID  uuid.UUID `gorm:"type:uuid;not null;index;column:phq_result_school_id" json:"phq_result_school_id"`

	PhqResultAcademicYear int `gorm:"not null;uniqueIndex:uq_phq_results_student_period,priority:2;column:phq_result_academic_year" json:"phq_result_academic_year"`
	PhqResultSemester     int `gorm:"not null;column:phq_result_semester" json:"phq_result_semester"`
	PhqResultRound        int `gorm:"not null;uniqueIndex:uq_phq_results_student_period,priority:3;column:phq_result_round" json:"phq_result_round"`

	PhqResultQ1  int  `gorm:"not null;column:phq_result_q1" json:"phq_result_q1"`
	PhqResultQ2  int  `gorm:"not null;column:phq_result_q2" json:"phq_result_q2"`
	PhqResultQ3  int  `gorm:"not null;column:phq_result_q3" json:"phq_result_q3"`
	PhqResultQ4  int  `gorm:"not null;column:phq_result_q4" json:"phq_result_q4"`
	PhqResultQ5  int  `gorm:"not null;column:phq_result_q5" json:"phq_result_q5"`
	PhqResultQ6  int  `gorm:"not null;column:phq_result_q6" json:"phq_result_q6"`
	PhqResultQ7  int  `gorm:"not null;column:phq_result_q7" json:"phq_result_q7"`
	PhqResultQ8  int  `gorm:"not null;column:phq_result_q8" json:"phq_result_q8"`
	PhqResultQ9  int  `gorm:"not null;column:phq_result_q9" json:"phq_result_q9"`
	PhqResultQ9a bool `gorm:"not null;default:false;column:phq_result_q9a" json:"phq_result_q9a"`
	PhqResultQ9b bool `gorm:"not null;default:false;column:phq_result_q9b" json:"phq_result_q9b"`

	PhqResultTotalScore int       `gorm:"not null;column:phq_result_total_score" json:"phq_result_total_score"`
	PhqResultRiskLevel  RiskLevel `gorm:"type:varchar(10);not null;index;column:phq_result_risk_level" json:"phq_result_risk_level"`

	PhqResultReferredToHospital bool `gorm:"not null;default:false;column:phq_result_referred_to_hospital" json:"phq_result_referred_to_hospital"`

	// Baris sumber dari spreadsheet (apa adanya) untuk audit
	PhqResultSourceRow datatypes.JSON `gorm:"column:phq_result_source_row" json:"phq_result_source_row,omitempty"`
	PhqResultImportedBy *uuid.UUID    `gorm:"type:uuid;column:phq_result_imported_by" json:"phq_result_imported_by,omitempty"`

	PhqResultCreatedAt time.Time `gorm:"column:phq_result_created_at;autoCreateTime;index" json:"phq_result_created_at"`
	PhqResultUpdatedAt time.Time `gorm:"column:phq_result_updated_at;autoUpdateTime" json:"phq_result_updated_at"`
}

func (PhqResultModel) TableName() string { return "phq_results" }

func (m *PhqResultModel) BeforeCreate(*gorm.DB) error {
	if m.PhqResultID == uuid.Nil {
		m.PhqResultID = uuid.New()
	}
	return nil
}

// SetAnswers menyalin jawaban + skor ke kolom; dipakai hanya saat insert.
func (m *PhqResultModel) SetAnswers(a PhqAnswers, score RiskScore) {
	m.PhqResultQ1, m.PhqResultQ2, m.PhqResultQ3 = a.Items[0], a.Items[1], a.Items[2]
	m.PhqResultQ4, m.PhqResultQ5, m.PhqResultQ6 = a.Items[3], a.Items[4], a.Items[5]
	m.PhqResultQ7, m.PhqResultQ8, m.PhqResultQ9 = a.Items[6], a.Items[7], a.Items[8]
	m.PhqResultQ9a = a.Q9a
	m.PhqResultQ9b = a.Q9b
	m.PhqResultTotalScore = score.TotalScore
	m.PhqResultRiskLevel = score.RiskLevel
}
