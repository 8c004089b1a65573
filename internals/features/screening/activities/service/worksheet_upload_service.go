package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"phqa_backend/internals/constants"
	model "phqa_backend/internals/features/screening/activities/model"
	helperAuth "phqa_backend/internals/helpers/auth"
	"phqa_backend/internals/helpers/logger"
)

var (
	ErrInvalidFileType = fiber.NewError(fiber.StatusBadRequest, "Tipe file tidak didukung (hanya JPG, PNG, atau PDF)")
	ErrFileTooLarge    = fiber.NewError(fiber.StatusRequestEntityTooLarge, "Ukuran file maksimal 10 MB")
)

type WorksheetFile struct {
	Bytes               []byte
	DeclaredContentType string
	FileName            string
	Size                int64
}

type UploadOutcome struct {
	UploadedCount int                         `json:"uploaded_count"`
	RequiredCount int                         `json:"required_count"`
	Completed     bool                        `json:"completed"`
	Status        model.ActivityStatus        `json:"status"`
	Upload        *model.WorksheetUploadModel `json:"upload"`
}

// validateWorksheet: tipe yang dideklarasikan, ukuran, lalu tipe hasil deteksi isi file.
func validateWorksheet(f WorksheetFile) (verified string, err error) {
	if !constants.IsAllowedWorksheetType(f.DeclaredContentType) {
		return "", ErrInvalidFileType
	}
	size := f.Size
	if n := int64(len(f.Bytes)); n > size {
		size = n
	}
	if size > constants.MaxWorksheetSize {
		return "", ErrFileTooLarge
	}
	if len(f.Bytes) == 0 {
		return "", ErrInvalidFileType
	}
	verified = mimetype.Detect(f.Bytes).String()
	if !constants.IsAllowedWorksheetType(verified) {
		return "", ErrInvalidFileType
	}
	return verified, nil
}

// UploadWorksheet menyimpan file lalu, dalam satu transaksi dengan row lock pada record aktivitas,
// mencatat upload berurutan dan menyelesaikan aktivitas begitu jumlah upload memenuhi syarat.
func (s *ActivityService) UploadWorksheet(ctx context.Context, actor helperAuth.ActorContext, id uuid.UUID, f WorksheetFile) (*UploadOutcome, error) {
	verified, err := validateWorksheet(f)
	if err != nil {
		return nil, err
	}

	rec, scope, err := s.loadForActor(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if rec.ActivityProgressStatus == model.ActivityLocked {
		return nil, ErrLockedActivity
	}

	now := s.now()
	key := fmt.Sprintf("worksheets/%s_activity%d_%d%s",
		rec.ActivityProgressStudentID, rec.ActivityProgressNumber, now.UnixNano(),
		constants.WorksheetExt(f.FileName, verified))

	url, err := s.Blob.Put(ctx, key, verified, f.Bytes)
	if err != nil {
		logger.Error("worksheet store failed", "activity_progress_id", id, "key", key, "error", err)
		return nil, fmt.Errorf("store worksheet: %w", err)
	}

	required := RequiredUploads(rec.ActivityProgressNumber)
	out := &UploadOutcome{RequiredCount: required}

	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked model.ActivityProgressModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("activity_progress_id = ?", id).
			Take(&locked).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrActivityNotFound
			}
			return err
		}
		if locked.ActivityProgressStatus == model.ActivityLocked {
			return ErrLockedActivity
		}

		var prior int64
		if err := tx.Model(&model.WorksheetUploadModel{}).
			Where("worksheet_upload_activity_progress_id = ?", id).
			Count(&prior).Error; err != nil {
			return err
		}

		up := &model.WorksheetUploadModel{
			WorksheetUploadActivityProgressID: id,
			WorksheetUploadOrder:              int(prior) + 1,
			WorksheetUploadFileURL:            url,
			WorksheetUploadObjectKey:          key,
			WorksheetUploadFileName:           f.FileName,
			WorksheetUploadDeclaredType:       f.DeclaredContentType,
			WorksheetUploadVerifiedType:       verified,
			WorksheetUploadFileSize:           int64(len(f.Bytes)),
			WorksheetUploadUploadedBy:         actor.UserID,
		}
		if err := tx.Create(up).Error; err != nil {
			return err
		}
		out.Upload = up

		fields := map[string]any{}
		if locked.ActivityProgressTeacherID == nil {
			fields["activity_progress_teacher_id"] = actor.UserID
		}

		var count int64
		if err := tx.Model(&model.WorksheetUploadModel{}).
			Where("worksheet_upload_activity_progress_id = ?", id).
			Count(&count).Error; err != nil {
			return err
		}
		out.UploadedCount = int(count)
		out.Status = locked.ActivityProgressStatus

		completes := locked.ActivityProgressStatus != model.ActivityCompleted && int(count) >= required
		if completes {
			fields["activity_progress_status"] = model.ActivityCompleted
			fields["activity_progress_completed_at"] = now
		}
		if len(fields) > 0 {
			if err := tx.Model(&locked).Updates(fields).Error; err != nil {
				return err
			}
		}
		if completes {
			if err := s.UnlockNextActivity(tx, locked.ActivityProgressStudentID, locked.ActivityProgressPhqResultID, locked.ActivityProgressNumber); err != nil {
				return err
			}
			out.Completed = true
			out.Status = model.ActivityCompleted
		}
		return nil
	})
	if txErr != nil {
		// object sudah tersimpan tapi tidak tercatat → hapus (best effort)
		if derr := s.Blob.Delete(context.WithoutCancel(ctx), key); derr != nil {
			logger.Warn("orphan worksheet cleanup failed", "key", key, "error", derr)
		}
		var fe *fiber.Error
		if errors.As(txErr, &fe) {
			return nil, txErr
		}
		logger.Error("worksheet upload tx failed", "activity_progress_id", id, "error", txErr)
		return nil, fmt.Errorf("record worksheet upload: %w", txErr)
	}

	s.Cache.InvalidateSchool(ctx, scope.SchoolID)
	return out, nil
}
