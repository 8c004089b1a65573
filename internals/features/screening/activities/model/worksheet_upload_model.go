package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorksheetUploadModel: append-only, satu baris per file lembar kerja.
type WorksheetUploadModel struct {
	WorksheetUploadID                 uuid.UUID `gorm:"type:uuid;primaryKey;column:worksheet_upload_id" json:"worksheet_upload_id"`
	WorksheetUploadActivityProgressID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_worksheet_upload_order,priority:1;column:worksheet_upload_activity_progress_id" json:"worksheet_upload_activity_progress_id"`
	WorksheetUploadOrder              int       `gorm:"not null;uniqueIndex:uq_worksheet_upload_order,priority:2;column:worksheet_upload_order" json:"worksheet_upload_order"`

	WorksheetUploadFileURL      string    `gorm:"type:text;not null;column:worksheet_upload_file_url" json:"worksheet_upload_file_url"`
	WorksheetUploadObjectKey    string    `gorm:"type:text;not null;column:worksheet_upload_object_key" json:"-"`
	WorksheetUploadFileName     string    `gorm:"type:varchar(255);column:worksheet_upload_file_name" json:"worksheet_upload_file_name"`
	WorksheetUploadDeclaredType string    `gorm:"type:varchar(100);column:worksheet_upload_declared_type" json:"worksheet_upload_declared_type"`
	WorksheetUploadVerifiedType string    `gorm:"type:varchar(100);column:worksheet_upload_verified_type" json:"worksheet_upload_verified_type"`
	WorksheetUploadFileSize     int64     `gorm:"not null;column:worksheet_upload_file_size" json:"worksheet_upload_file_size"`
	WorksheetUploadUploadedBy   uuid.UUID `gorm:"type:uuid;not null;column:worksheet_upload_uploaded_by" json:"worksheet_upload_uploaded_by"`

	WorksheetUploadCreatedAt time.Time `gorm:"column:worksheet_upload_created_at;autoCreateTime" json:"worksheet_upload_created_at"`
}

func (WorksheetUploadModel) TableName() string { return "worksheet_uploads" }

func (m *WorksheetUploadModel) BeforeCreate(*gorm.DB) error {
	if m.WorksheetUploadID == uuid.Nil {
		m.WorksheetUploadID = uuid.New()
	}
	return nil
}
