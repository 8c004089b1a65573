package dto

import (
	"time"

	"phqa_backend/internals/helpers/dbtime"
)

type AssessmentRequest struct {
	InternalProblems string `json:"internal_problems" validate:"max=2000"`
	ExternalProblems string `json:"external_problems" validate:"max=2000"`
	ProblemType      string `json:"problem_type" validate:"required,max=100"`
}

type ScheduleRequest struct {
	// format YYYY-MM-DD (zona waktu sekolah)
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

func (r ScheduleRequest) ParseDate() (time.Time, error) {
	return dbtime.ParseSchoolDate(r.Date)
}

type NotesRequest struct {
	Notes string `json:"notes" validate:"max=5000"`
}

// ScheduledDateRequest: date null/kosong = hapus jadwal.
type ScheduledDateRequest struct {
	Date *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func (r ScheduledDateRequest) ParseDate() (*time.Time, error) {
	if r.Date == nil || *r.Date == "" {
		return nil, nil
	}
	t, err := dbtime.ParseSchoolDate(*r.Date)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
