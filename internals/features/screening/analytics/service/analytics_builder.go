package service

import (
	"math"
	"sort"
	"strconv"

	classModel "phqa_backend/internals/features/school/classes/model"
	"phqa_backend/internals/features/screening/analytics/dto"
	phqModel "phqa_backend/internals/features/screening/phq/model"
)

const (
	maxActivityNumber = 5
	unknownGrade      = "ไม่ระบุ"
)

// RoundLabel: ronde 1 = awal semester, ronde 2 = akhir semester.
func RoundLabel(round, semester int) string {
	label := "ต้นเทอม"
	if round == 2 {
		label = "ปลายเทอม"
	}
	return label + "/" + strconv.Itoa(semester)
}

func emptyCounts() map[phqModel.RiskLevel]int {
	m := make(map[phqModel.RiskLevel]int, len(phqModel.RiskLevels))
	for _, lv := range phqModel.RiskLevels {
		m[lv] = 0
	}
	return m
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(n)*10000/float64(total)) / 100
}

type gradeKey struct {
	name string
	num  int
	ok   bool
}

func gradeOf(className *string) gradeKey {
	if className == nil || *className == "" {
		return gradeKey{name: unknownGrade}
	}
	if g, n, ok := classModel.ParseClassName(*className); ok {
		return gradeKey{name: g, num: n, ok: true}
	}
	return gradeKey{name: classModel.GradeOf(*className)}
}

// sortGrades: natural sort berdasarkan angka tingkat; nama tak berformat di belakang.
func sortGrades(keys []gradeKey) {
	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.ok != b.ok {
			return a.ok
		}
		if a.ok && a.num != b.num {
			return a.num < b.num
		}
		return a.name < b.name
	})
}

func buildSnapshot(sc scope, byClass []classLevelRow, trend []trendRow, completion []completionRow) *dto.AnalyticsSnapshot {
	snap := &dto.AnalyticsSnapshot{
		SchoolID:           sc.schoolID,
		ClassName:          sc.className,
		Trend:              []dto.TrendPoint{},
		Grades:             []dto.GradeBreakdown{},
		ActivityCompletion: []dto.ActivityCompletion{},
		HospitalReferrals:  []dto.GradeReferral{},
	}

	levelCount := emptyCounts()
	levelReferred := emptyCounts()
	grades := map[string]*dto.GradeBreakdown{}
	gradeReferred := map[string]int{}
	var gradeKeys []gradeKey

	for _, r := range byClass {
		n := int(r.Students)
		snap.Distribution.TotalStudents += n
		if r.RiskLevel == nil {
			continue
		}
		lv := phqModel.RiskLevel(*r.RiskLevel)
		if !lv.Valid() {
			continue
		}
		snap.Distribution.AssessedStudents += n
		levelCount[lv] += n
		levelReferred[lv] += int(r.Referred)

		gk := gradeOf(r.ClassName)
		g, ok := grades[gk.name]
		if !ok {
			g = &dto.GradeBreakdown{Grade: gk.name, Counts: emptyCounts()}
			grades[gk.name] = g
			gradeKeys = append(gradeKeys, gk)
		}
		g.Counts[lv] += n
		g.Total += n
		gradeReferred[gk.name] += int(r.Referred)
	}
	snap.Distribution.NoAssessment = snap.Distribution.TotalStudents - snap.Distribution.AssessedStudents

	for _, lv := range phqModel.RiskLevels {
		snap.Distribution.Levels = append(snap.Distribution.Levels, dto.RiskLevelCount{
			RiskLevel:          lv,
			Label:              lv.Label(),
			Count:              levelCount[lv],
			Percentage:         percent(levelCount[lv], snap.Distribution.AssessedStudents),
			ReferredToHospital: levelReferred[lv],
		})
	}

	sortGrades(gradeKeys)
	for _, gk := range gradeKeys {
		snap.Grades = append(snap.Grades, *grades[gk.name])
		if n := gradeReferred[gk.name]; n > 0 {
			snap.HospitalReferrals = append(snap.HospitalReferrals, dto.GradeReferral{Grade: gk.name, Count: n})
		}
	}

	snap.Trend = buildTrend(trend)
	snap.ActivityCompletion = buildCompletion(levelCount, completion)
	return snap
}

func buildTrend(rows []trendRow) []dto.TrendPoint {
	type periodKey struct{ year, semester, round int }
	points := map[periodKey]*dto.TrendPoint{}
	var keys []periodKey
	for _, r := range rows {
		lv := phqModel.RiskLevel(r.RiskLevel)
		if !lv.Valid() {
			continue
		}
		k := periodKey{r.AcademicYear, r.Semester, r.AssessmentRound}
		p, ok := points[k]
		if !ok {
			p = &dto.TrendPoint{
				AcademicYear: k.year,
				Semester:     k.semester,
				Round:        k.round,
				Label:        RoundLabel(k.round, k.semester),
				Counts:       emptyCounts(),
			}
			points[k] = p
			keys = append(keys, k)
		}
		p.Counts[lv] += int(r.Students)
		p.Total += int(r.Students)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.year != b.year {
			return a.year < b.year
		}
		if a.semester != b.semester {
			return a.semester < b.semester
		}
		return a.round < b.round
	})
	out := make([]dto.TrendPoint, 0, len(keys))
	for _, k := range keys {
		out = append(out, *points[k])
	}
	return out
}

// buildCompletion: noActivity = total − max(jumlah satu aktivitas). Ini pendekatan,
// bukan union distinct lintas aktivitas.
func buildCompletion(levelCount map[phqModel.RiskLevel]int, rows []completionRow) []dto.ActivityCompletion {
	byLevel := make(map[phqModel.RiskLevel]map[int]int, len(phqModel.RiskLevels))
	for _, lv := range phqModel.RiskLevels {
		m := make(map[int]int, maxActivityNumber)
		for n := 1; n <= maxActivityNumber; n++ {
			m[n] = 0
		}
		byLevel[lv] = m
	}
	for _, r := range rows {
		lv := phqModel.RiskLevel(r.RiskLevel)
		m, ok := byLevel[lv]
		if !ok || r.ActivityNumber < 1 || r.ActivityNumber > maxActivityNumber {
			continue
		}
		m[r.ActivityNumber] += int(r.Students)
	}

	out := make([]dto.ActivityCompletion, 0, len(phqModel.RiskLevels))
	for _, lv := range phqModel.RiskLevels {
		maxDone := 0
		for _, n := range byLevel[lv] {
			if n > maxDone {
				maxDone = n
			}
		}
		total := levelCount[lv]
		no := total - maxDone
		if no < 0 {
			no = 0
		}
		out = append(out, dto.ActivityCompletion{
			RiskLevel:     lv,
			TotalStudents: total,
			Completed:     byLevel[lv],
			NoActivity:    no,
		})
	}
	return out
}
