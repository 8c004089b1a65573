package dto

import (
	"time"

	"github.com/google/uuid"

	phqModel "phqa_backend/internals/features/screening/phq/model"
)

type SummaryQuery struct {
	SchoolID  *uuid.UUID `query:"school_id"`
	ClassName string     `query:"class_name" validate:"omitempty,max=50"`
}

type RiskLevelCount struct {
	RiskLevel          phqModel.RiskLevel `json:"risk_level"`
	Label              string             `json:"label"`
	Count              int                `json:"count"`
	Percentage         float64            `json:"percentage"`
	ReferredToHospital int                `json:"referred_to_hospital"`
}

type RiskDistribution struct {
	TotalStudents    int              `json:"total_students"`
	AssessedStudents int              `json:"assessed_students"`
	NoAssessment     int              `json:"no_assessment"`
	Levels           []RiskLevelCount `json:"levels"`
}

type TrendPoint struct {
	AcademicYear int                        `json:"academic_year"`
	Semester     int                        `json:"semester"`
	Round        int                        `json:"round"`
	Label        string                     `json:"label"`
	Total        int                        `json:"total"`
	Counts       map[phqModel.RiskLevel]int `json:"counts"`
}

type GradeBreakdown struct {
	Grade  string                     `json:"grade"`
	Total  int                        `json:"total"`
	Counts map[phqModel.RiskLevel]int `json:"counts"`
}

type ActivityCompletion struct {
	RiskLevel     phqModel.RiskLevel `json:"risk_level"`
	TotalStudents int                `json:"total_students"`
	// nomor aktivitas (1–5) → jumlah siswa distinct yang menyelesaikan
	Completed  map[int]int `json:"completed"`
	NoActivity int         `json:"no_activity"`
}

type GradeReferral struct {
	Grade string `json:"grade"`
	Count int    `json:"count"`
}

type AnalyticsSnapshot struct {
	SchoolID           uuid.UUID            `json:"school_id"`
	ClassName          string               `json:"class_name,omitempty"`
	Distribution       RiskDistribution     `json:"distribution"`
	Trend              []TrendPoint         `json:"trend"`
	Grades             []GradeBreakdown     `json:"grades"`
	ActivityCompletion []ActivityCompletion `json:"activity_completion"`
	HospitalReferrals  []GradeReferral      `json:"hospital_referrals"`
	GeneratedAt        time.Time            `json:"generated_at"`
}
