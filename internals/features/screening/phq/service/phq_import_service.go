// file: internals/features/screening/phq/service/phq_import_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"phqa_backend/internals/constants"
	classModel "phqa_backend/internals/features/school/classes/model"
	studentModel "phqa_backend/internals/features/school/students/model"
	activityService "phqa_backend/internals/features/screening/activities/service"
	model "phqa_backend/internals/features/screening/phq/model"
	helperAuth "phqa_backend/internals/helpers/auth"
	"phqa_backend/internals/helpers/cache"
	"phqa_backend/internals/helpers/logger"
)

var (
	ErrImportEmpty       = fiber.NewError(fiber.StatusBadRequest, "Tidak ada baris untuk diimport")
	ErrImportSchoolUnset = fiber.NewError(fiber.StatusBadRequest, "school_id wajib diisi untuk admin sistem")
)

type ImportRowStatus string

const (
	RowImported ImportRowStatus = "imported"
	RowSkipped  ImportRowStatus = "skipped"
	RowFailed   ImportRowStatus = "failed"
)

// ImportRow: satu baris spreadsheet yang sudah di-parse di hulu.
type ImportRow struct {
	StudentCode string `json:"student_code"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	ClassName   string `json:"class_name"`
	Answers     [9]int `json:"answers"`
	Q9a         bool   `json:"q9a"`
	Q9b         bool   `json:"q9b"`
}

type ImportRequest struct {
	SchoolID     *uuid.UUID
	AcademicYear int
	Semester     int
	Round        int
	Rows         []ImportRow
}

type ImportRowResult struct {
	Row               int              `json:"row"`
	StudentCode       string           `json:"student_code"`
	Status            ImportRowStatus  `json:"status"`
	Message           string           `json:"message,omitempty"`
	PhqResultID       *uuid.UUID       `json:"phq_result_id,omitempty"`
	TotalScore        *int             `json:"total_score,omitempty"`
	RiskLevel         *model.RiskLevel `json:"risk_level,omitempty"`
	ActivitiesCreated int              `json:"activities_created"`
}

type ImportSummary struct {
	Imported int               `json:"imported"`
	Skipped  int               `json:"skipped"`
	Failed   int               `json:"failed"`
	Rows     []ImportRowResult `json:"rows"`
}

type PhqService struct {
	DB         *gorm.DB
	Activities *activityService.ActivityService
	Cache      cache.SchoolInvalidator
}

func NewPhqService(db *gorm.DB, activities *activityService.ActivityService, inv cache.SchoolInvalidator) *PhqService {
	if inv == nil {
		inv = cache.NopInvalidator{}
	}
	return &PhqService{DB: db, Activities: activities, Cache: inv}
}

// resolveImportSchool: system_admin wajib memilih sekolah, selain itu sekolah actor.
func resolveImportSchool(actor helperAuth.ActorContext, requested *uuid.UUID) (uuid.UUID, error) {
	switch actor.Role {
	case constants.RoleSystemAdmin:
		if requested == nil || *requested == uuid.Nil {
			return uuid.Nil, ErrImportSchoolUnset
		}
		return *requested, nil
	case constants.RoleSchoolAdmin, constants.RoleClassTeacher:
		if actor.SchoolID == nil {
			return uuid.Nil, helperAuth.ErrForbidden
		}
		if requested != nil && *requested != uuid.Nil && *requested != *actor.SchoolID {
			return uuid.Nil, helperAuth.ErrForbidden
		}
		return *actor.SchoolID, nil
	default:
		return uuid.Nil, helperAuth.ErrForbidden
	}
}

// ImportPhqResults memproses baris satu per satu, masing-masing dalam transaksi sendiri.
// Duplikat (siswa, tahun ajaran, ronde) dilaporkan sebagai skipped.
func (s *PhqService) ImportPhqResults(ctx context.Context, actor helperAuth.ActorContext, req ImportRequest) (*ImportSummary, error) {
	if len(req.Rows) == 0 {
		return nil, ErrImportEmpty
	}
	schoolID, err := resolveImportSchool(actor, req.SchoolID)
	if err != nil {
		return nil, err
	}

	var teacherClasses map[uuid.UUID]bool
	if actor.Role == constants.RoleClassTeacher {
		ids, err := helperAuth.TeacherClassIDs(ctx, s.DB, actor.UserID)
		if err != nil {
			return nil, err
		}
		teacherClasses = make(map[uuid.UUID]bool, len(ids))
		for _, id := range ids {
			teacherClasses[id] = true
		}
	}

	sum := &ImportSummary{Rows: make([]ImportRowResult, 0, len(req.Rows))}
	for i, row := range req.Rows {
		res := s.importRow(ctx, actor, schoolID, teacherClasses, req, i+1, row)
		switch res.Status {
		case RowImported:
			sum.Imported++
		case RowSkipped:
			sum.Skipped++
		case RowFailed:
			sum.Failed++
		}
		sum.Rows = append(sum.Rows, res)
	}

	if sum.Imported > 0 {
		s.Cache.InvalidateSchool(ctx, schoolID)
	}
	logger.Info("phq import selesai",
		"school_id", schoolID, "user_id", actor.UserID,
		"imported", sum.Imported, "skipped", sum.Skipped, "failed", sum.Failed)
	return sum, nil
}

var (
	errDuplicateResult = errors.New("duplicate phq result")
	// siswa lama yang kelasnya tidak diampu importer
	errStudentOutOfScope = fmt.Errorf("student in another class: %w", helperAuth.ErrForbidden)
)

func (s *PhqService) importRow(
	ctx context.Context,
	actor helperAuth.ActorContext,
	schoolID uuid.UUID,
	teacherClasses map[uuid.UUID]bool,
	req ImportRequest,
	rowNum int,
	row ImportRow,
) ImportRowResult {
	res := ImportRowResult{Row: rowNum, StudentCode: strings.TrimSpace(row.StudentCode)}
	fail := func(msg string) ImportRowResult {
		res.Status = RowFailed
		res.Message = msg
		return res
	}

	answers := model.PhqAnswers{Items: row.Answers, Q9a: row.Q9a, Q9b: row.Q9b}
	if err := answers.Validate(); err != nil {
		return fail(err.Error())
	}
	if res.StudentCode == "" {
		return fail("student_code wajib diisi")
	}
	if strings.TrimSpace(row.FirstName) == "" {
		return fail("first_name wajib diisi")
	}
	className := strings.TrimSpace(row.ClassName)
	if _, _, ok := classModel.ParseClassName(className); !ok {
		return fail(fmt.Sprintf("format nama kelas tidak valid: %q", row.ClassName))
	}

	score := CalculateRiskLevel(answers)
	snapshot, _ := sonic.Marshal(row)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		class, err := upsertClass(tx, schoolID, className)
		if err != nil {
			return err
		}
		if teacherClasses != nil && !teacherClasses[class.ClassID] {
			return helperAuth.ErrForbidden
		}
		student, err := upsertStudent(tx, schoolID, class.ClassID, teacherClasses, row)
		if err != nil {
			return err
		}

		result := model.PhqResultModel{
			PhqResultStudentID:    student.StudentID,
			PhqResultSchoolID:     schoolID,
			PhqResultAcademicYear: req.AcademicYear,
			PhqResultSemester:     req.Semester,
			PhqResultRound:        req.Round,
			PhqResultSourceRow:    datatypes.JSON(snapshot),
			PhqResultImportedBy:   &actor.UserID,
		}
		result.SetAnswers(answers, score)

		ins := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&result)
		if ins.Error != nil {
			return ins.Error
		}
		if ins.RowsAffected == 0 {
			return errDuplicateResult
		}

		created, err := s.Activities.InitializeProgress(tx, student.StudentID, result.PhqResultID, score.RiskLevel)
		if err != nil {
			return err
		}
		res.PhqResultID = &result.PhqResultID
		res.ActivitiesCreated = created
		return nil
	})

	switch {
	case err == nil:
		res.Status = RowImported
		res.TotalScore = &score.TotalScore
		res.RiskLevel = &score.RiskLevel
		return res
	case errors.Is(err, errDuplicateResult):
		res.Status = RowSkipped
		res.Message = "hasil untuk tahun ajaran & ronde ini sudah ada"
		return res
	case errors.Is(err, errStudentOutOfScope):
		return fail("siswa " + res.StudentCode + " terdaftar di kelas yang tidak Anda ampu")
	case errors.Is(err, helperAuth.ErrForbidden):
		return fail("Anda tidak mengampu kelas " + className)
	default:
		logger.Error("phq import row failed", "row", rowNum, "student_code", res.StudentCode, "error", err)
		return fail("gagal menyimpan baris")
	}
}

func upsertClass(tx *gorm.DB, schoolID uuid.UUID, name string) (*classModel.ClassModel, error) {
	c := classModel.ClassModel{ClassSchoolID: schoolID, ClassName: name}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&c).Error; err != nil {
		return nil, fmt.Errorf("upsert class: %w", err)
	}
	var got classModel.ClassModel
	if err := tx.Where("class_school_id = ? AND class_name = ?", schoolID, name).Take(&got).Error; err != nil {
		return nil, fmt.Errorf("load class: %w", err)
	}
	return &got, nil
}

// upsertStudent: teacherClasses != nil berarti importer class teacher; siswa lama
// hanya boleh dipindah bila kelasnya sekarang juga diampu importer.
func upsertStudent(tx *gorm.DB, schoolID, classID uuid.UUID, teacherClasses map[uuid.UUID]bool, row ImportRow) (*studentModel.StudentModel, error) {
	code := strings.TrimSpace(row.StudentCode)
	var st studentModel.StudentModel
	err := tx.Where("student_school_id = ? AND student_code = ?", schoolID, code).Take(&st).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		st = studentModel.StudentModel{
			StudentSchoolID:  schoolID,
			StudentClassID:   &classID,
			StudentCode:      code,
			StudentFirstName: strings.TrimSpace(row.FirstName),
			StudentLastName:  strings.TrimSpace(row.LastName),
		}
		if err := tx.Create(&st).Error; err != nil {
			return nil, fmt.Errorf("create student: %w", err)
		}
		return &st, nil
	case err != nil:
		return nil, fmt.Errorf("load student: %w", err)
	}
	if teacherClasses != nil && (st.StudentClassID == nil || !teacherClasses[*st.StudentClassID]) {
		return nil, errStudentOutOfScope
	}

	// siswa lama: ikuti kelas & nama terbaru dari spreadsheet
	if err := tx.Model(&st).Updates(map[string]any{
		"student_class_id":   classID,
		"student_first_name": strings.TrimSpace(row.FirstName),
		"student_last_name":  strings.TrimSpace(row.LastName),
	}).Error; err != nil {
		return nil, fmt.Errorf("update student: %w", err)
	}
	st.StudentClassID = &classID
	return &st, nil
}
