package dto

import (
	"github.com/google/uuid"

	"phqa_backend/internals/features/screening/phq/service"
)

type ImportRowRequest struct {
	StudentCode string `json:"student_code" validate:"required,max=50"`
	FirstName   string `json:"first_name" validate:"required,max=100"`
	LastName    string `json:"last_name" validate:"omitempty,max=100"`
	ClassName   string `json:"class_name" validate:"required,max=50"`
	Q1          int    `json:"q1" validate:"min=0,max=3"`
	Q2          int    `json:"q2" validate:"min=0,max=3"`
	Q3          int    `json:"q3" validate:"min=0,max=3"`
	Q4          int    `json:"q4" validate:"min=0,max=3"`
	Q5          int    `json:"q5" validate:"min=0,max=3"`
	Q6          int    `json:"q6" validate:"min=0,max=3"`
	Q7          int    `json:"q7" validate:"min=0,max=3"`
	Q8          int    `json:"q8" validate:"min=0,max=3"`
	Q9          int    `json:"q9" validate:"min=0,max=3"`
	Q9a         bool   `json:"q9a"`
	Q9b         bool   `json:"q9b"`
}

// ImportPhqRequest: baris tidak divalidasi di sini (dive) supaya
// baris rusak dilaporkan per-baris oleh service, bukan menggagalkan semuanya.
type ImportPhqRequest struct {
	SchoolID     *uuid.UUID         `json:"school_id"`
	AcademicYear int                `json:"academic_year" validate:"required,min=2000,max=3000"`
	Semester     int                `json:"semester" validate:"required,oneof=1 2"`
	Round        int                `json:"round" validate:"required,oneof=1 2"`
	Rows         []ImportRowRequest `json:"rows" validate:"required,min=1,max=2000"`
}

func (r ImportPhqRequest) ToService() service.ImportRequest {
	rows := make([]service.ImportRow, 0, len(r.Rows))
	for _, x := range r.Rows {
		rows = append(rows, service.ImportRow{
			StudentCode: x.StudentCode,
			FirstName:   x.FirstName,
			LastName:    x.LastName,
			ClassName:   x.ClassName,
			Answers:     [9]int{x.Q1, x.Q2, x.Q3, x.Q4, x.Q5, x.Q6, x.Q7, x.Q8, x.Q9},
			Q9a:         x.Q9a,
			Q9b:         x.Q9b,
		})
	}
	return service.ImportRequest{
		SchoolID:     r.SchoolID,
		AcademicYear: r.AcademicYear,
		Semester:     r.Semester,
		Round:        r.Round,
		Rows:         rows,
	}
}

type HospitalReferralRequest struct {
	Referred *bool `json:"referred_to_hospital" validate:"required"`
}
