// file: internals/features/screening/analytics/service/analytics_service.go
package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"phqa_backend/internals/constants"
	activityModel "phqa_backend/internals/features/screening/activities/model"
	"phqa_backend/internals/features/screening/analytics/dto"
	helperAuth "phqa_backend/internals/helpers/auth"
	"phqa_backend/internals/helpers/cache"
	"phqa_backend/internals/helpers/logger"
)

type AnalyticsService struct {
	DB    *gorm.DB
	Cache *cache.AnalyticsCache // nil = tanpa cache
	Now   func() time.Time

	group singleflight.Group
}

func NewAnalyticsService(db *gorm.DB, c *cache.AnalyticsCache) *AnalyticsService {
	return &AnalyticsService{DB: db, Cache: c, Now: time.Now}
}

// scope: siswa yang dihitung. classIDs != nil → dibatasi ke kelas tsb (class teacher).
type scope struct {
	schoolID  uuid.UUID
	className string
	classIDs  []uuid.UUID
}

// where: kondisi atas alias s (students) dan c (classes).
func (sc scope) where() (string, []any) {
	sql := "s.student_school_id = ?"
	args := []any{sc.schoolID}
	if sc.className != "" {
		sql += " AND c.class_name = ?"
		args = append(args, sc.className)
	}
	if sc.classIDs != nil {
		sql += " AND s.student_class_id IN ?"
		args = append(args, sc.classIDs)
	}
	return sql, args
}

// resolveSchool: (schoolID, ok). ok=false → sekolah tidak bisa ditentukan, snapshot nil.
func resolveSchool(actor helperAuth.ActorContext, requested *uuid.UUID) (uuid.UUID, bool, error) {
	switch actor.Role {
	case constants.RoleSystemAdmin:
		if requested == nil || *requested == uuid.Nil {
			return uuid.Nil, false, nil
		}
		return *requested, true, nil
	case constants.RoleSchoolAdmin, constants.RoleClassTeacher:
		if actor.SchoolID == nil {
			return uuid.Nil, false, nil
		}
		if requested != nil && *requested != uuid.Nil && *requested != *actor.SchoolID {
			return uuid.Nil, false, helperAuth.ErrForbidden
		}
		return *actor.SchoolID, true, nil
	default:
		return uuid.Nil, false, helperAuth.ErrForbidden
	}
}

// GetAnalyticsSummary menghitung (atau mengambil dari cache) ringkasan analitik sekolah.
// Mengembalikan nil tanpa error bila sekolah actor tidak bisa ditentukan.
func (s *AnalyticsService) GetAnalyticsSummary(ctx context.Context, actor helperAuth.ActorContext, schoolID *uuid.UUID, className string) (*dto.AnalyticsSnapshot, error) {
	sid, ok, err := resolveSchool(actor, schoolID)
	if err != nil || !ok {
		return nil, err
	}

	sc := scope{schoolID: sid, className: className}
	key := cache.AnalyticsKey{SchoolID: sid, ClassName: className, Role: string(actor.Role)}
	if actor.Role == constants.RoleClassTeacher {
		uid := actor.UserID
		key.UserID = &uid
	}

	var entry string
	if s.Cache != nil {
		var (
			b   []byte
			hit bool
		)
		entry, b, hit = s.Cache.Lookup(ctx, key)
		if hit {
			var snap dto.AnalyticsSnapshot
			if err := sonic.Unmarshal(b, &snap); err == nil {
				return &snap, nil
			}
			logger.Warn("analytics cache entry rusak, hitung ulang", "key", entry)
		}
	}

	// flight terversi: request setelah invalidasi tidak ikut hitungan versi lama
	flight := entry
	if flight == "" {
		flight = key.String()
	}
	v, err, _ := s.group.Do(flight, func() (any, error) {
		// hitungan dipakai bersama; jangan ikut batal bila request pertama putus
		cctx := context.WithoutCancel(ctx)
		if actor.Role == constants.RoleClassTeacher {
			ids, err := helperAuth.TeacherClassIDs(cctx, s.DB, actor.UserID)
			if err != nil {
				return nil, err
			}
			if ids == nil {
				ids = []uuid.UUID{}
			}
			sc.classIDs = ids
		}

		snap, err := s.compute(cctx, sc)
		if err != nil {
			return nil, err
		}
		if s.Cache != nil {
			if b, err := sonic.Marshal(snap); err == nil {
				s.Cache.Store(cctx, entry, b)
			} else {
				logger.Warn("analytics snapshot marshal failed", "error", err)
			}
		}
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*dto.AnalyticsSnapshot), nil
}

func (s *AnalyticsService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

/* =========================
   Query
========================= */

// latestCTE: hasil PHQ terbaru per siswa (rn = 1) di satu sekolah.
const latestCTE = `
WITH latest AS (
	SELECT
		p.phq_result_id,
		p.phq_result_student_id,
		p.phq_result_risk_level,
		p.phq_result_referred_to_hospital,
		ROW_NUMBER() OVER (
			PARTITION BY p.phq_result_student_id
			ORDER BY p.phq_result_created_at DESC, p.phq_result_id DESC
		) AS rn
	FROM phq_results p
	WHERE p.phq_result_school_id = ?
)`

type classLevelRow struct {
	ClassName *string
	RiskLevel *string
	Students  int64
	Referred  int64
}

type trendRow struct {
	AcademicYear    int
	Semester        int
	AssessmentRound int
	RiskLevel       string
	Students        int64
}

type completionRow struct {
	RiskLevel      string
	ActivityNumber int
	Students       int64
}

// compute: tiga scan dalam satu transaksi baca supaya semua bagian snapshot konsisten.
func (s *AnalyticsService) compute(ctx context.Context, sc scope) (*dto.AnalyticsSnapshot, error) {
	var snap *dto.AnalyticsSnapshot
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		snap, err = scanSnapshot(tx, sc)
		return err
	}, &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return nil, err
	}
	snap.GeneratedAt = s.now()
	return snap, nil
}

func scanSnapshot(db *gorm.DB, sc scope) (*dto.AnalyticsSnapshot, error) {
	cond, condArgs := sc.where()

	// 1) siswa × hasil terbaru, dikelompokkan per kelas & level
	var byClass []classLevelRow
	q1 := latestCTE + `
SELECT
	c.class_name AS class_name,
	l.phq_result_risk_level AS risk_level,
	COUNT(*) AS students,
	COALESCE(SUM(CASE WHEN l.phq_result_referred_to_hospital THEN 1 ELSE 0 END), 0) AS referred
FROM students s
LEFT JOIN classes c ON c.class_id = s.student_class_id
LEFT JOIN latest l ON l.phq_result_student_id = s.student_id AND l.rn = 1
WHERE ` + cond + `
GROUP BY c.class_name, l.phq_result_risk_level`
	if err := db.Raw(q1, append([]any{sc.schoolID}, condArgs...)...).Scan(&byClass).Error; err != nil {
		return nil, fmt.Errorf("analytics latest scan: %w", err)
	}

	// 2) tren: satu hasil per siswa per (tahun ajaran, ronde)
	var trend []trendRow
	q2 := `
WITH per_period AS (
	SELECT
		p.phq_result_academic_year AS academic_year,
		p.phq_result_semester AS semester,
		p.phq_result_round AS assessment_round,
		p.phq_result_risk_level AS risk_level,
		ROW_NUMBER() OVER (
			PARTITION BY p.phq_result_student_id, p.phq_result_academic_year, p.phq_result_round
			ORDER BY p.phq_result_created_at DESC, p.phq_result_id DESC
		) AS rn
	FROM phq_results p
	JOIN students s ON s.student_id = p.phq_result_student_id
	LEFT JOIN classes c ON c.class_id = s.student_class_id
	WHERE p.phq_result_school_id = ? AND ` + cond + `
)
SELECT academic_year, semester, assessment_round, risk_level, COUNT(*) AS students
FROM per_period
WHERE rn = 1
GROUP BY academic_year, semester, assessment_round, risk_level`
	if err := db.Raw(q2, append([]any{sc.schoolID}, condArgs...)...).Scan(&trend).Error; err != nil {
		return nil, fmt.Errorf("analytics trend scan: %w", err)
	}

	// 3) aktivitas selesai per level, terikat ke hasil terbaru
	var completion []completionRow
	q3 := latestCTE + `
SELECT
	l.phq_result_risk_level AS risk_level,
	a.activity_progress_number AS activity_number,
	COUNT(DISTINCT l.phq_result_student_id) AS students
FROM latest l
JOIN students s ON s.student_id = l.phq_result_student_id
LEFT JOIN classes c ON c.class_id = s.student_class_id
JOIN activity_progress a
	ON a.activity_progress_phq_result_id = l.phq_result_id
	AND a.activity_progress_student_id = l.phq_result_student_id
	AND a.activity_progress_status = ?
WHERE l.rn = 1 AND ` + cond + `
GROUP BY l.phq_result_risk_level, a.activity_progress_number`
	args3 := append([]any{sc.schoolID, string(activityModel.ActivityCompleted)}, condArgs...)
	if err := db.Raw(q3, args3...).Scan(&completion).Error; err != nil {
		return nil, fmt.Errorf("analytics completion scan: %w", err)
	}

	return buildSnapshot(sc, byClass, trend, completion), nil
}
