package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"phqa_backend/internals/databases/testdb"
	activityModel "phqa_backend/internals/features/screening/activities/model"
	"phqa_backend/internals/features/screening/analytics/dto"
	phqModel "phqa_backend/internals/features/screening/phq/model"
	helperAuth "phqa_backend/internals/helpers/auth"
	"phqa_backend/internals/helpers/cache"
)

type world struct {
	db  *gorm.DB
	fx  testdb.Fixture
	svc *AnalyticsService
	ac  *cache.AnalyticsCache
}

var base = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

func insertResult(t *testing.T, db *gorm.DB, schoolID, studentID uuid.UUID, year, sem, round int, lv phqModel.RiskLevel, referred bool, at time.Time) phqModel.PhqResultModel {
	t.Helper()
	r := phqModel.PhqResultModel{
		PhqResultStudentID:          studentID,
		PhqResultSchoolID:           schoolID,
		PhqResultAcademicYear:       year,
		PhqResultSemester:           sem,
		PhqResultRound:              round,
		PhqResultRiskLevel:          lv,
		PhqResultReferredToHospital: referred,
		PhqResultCreatedAt:          at,
	}
	require.NoError(t, db.Create(&r).Error)
	return r
}

func completeActivity(t *testing.T, db *gorm.DB, r phqModel.PhqResultModel, number int) {
	t.Helper()
	require.NoError(t, db.Create(&activityModel.ActivityProgressModel{
		ActivityProgressStudentID:   r.PhqResultStudentID,
		ActivityProgressPhqResultID: r.PhqResultID,
		ActivityProgressNumber:      number,
		ActivityProgressStatus:      activityModel.ActivityCompleted,
	}).Error)
}

// seedWorld:
//
//	A ม.5/1  green (2568/1/1, aktivitas 1 selesai) → red referred (2568/2/2)
//	B ม.5/1  yellow, aktivitas 1 & 2 selesai
//	C ม.4/1  green, aktivitas 1 selesai
//	D ม.10/2 tanpa asesmen
//	E ม.4/1  orange referred
//	F ม.10/2 blue
func seedWorld(t *testing.T) world {
	t.Helper()
	db := testdb.Open(t)
	fx := testdb.Seed(t, db, "โรงเรียนสถิติ")
	sid := fx.School.SchoolID
	m4 := testdb.NewClass(t, db, sid, "ม.4/1")
	m10 := testdb.NewClass(t, db, sid, "ม.10/2")

	a := testdb.NewStudent(t, db, sid, &fx.Class.ClassID, "A")
	b := testdb.NewStudent(t, db, sid, &fx.Class.ClassID, "B")
	c := testdb.NewStudent(t, db, sid, &m4.ClassID, "C")
	testdb.NewStudent(t, db, sid, &m10.ClassID, "D")
	e := testdb.NewStudent(t, db, sid, &m4.ClassID, "E")
	f := testdb.NewStudent(t, db, sid, &m10.ClassID, "F")

	aOld := insertResult(t, db, sid, a.StudentID, 2568, 1, 1, phqModel.RiskGreen, false, base)
	completeActivity(t, db, aOld, 1)
	insertResult(t, db, sid, a.StudentID, 2568, 2, 2, phqModel.RiskRed, true, base.Add(90*24*time.Hour))

	rb := insertResult(t, db, sid, b.StudentID, 2568, 1, 1, phqModel.RiskYellow, false, base)
	completeActivity(t, db, rb, 1)
	completeActivity(t, db, rb, 2)

	rc := insertResult(t, db, sid, c.StudentID, 2568, 1, 1, phqModel.RiskGreen, false, base)
	completeActivity(t, db, rc, 1)

	insertResult(t, db, sid, e.StudentID, 2568, 1, 1, phqModel.RiskOrange, true, base)
	insertResult(t, db, sid, f.StudentID, 2568, 1, 1, phqModel.RiskBlue, false, base)

	ac := cache.NewAnalyticsCache(cache.NewMemoryStore(), time.Minute)
	svc := NewAnalyticsService(db, ac)
	svc.Now = func() time.Time { return base }
	return world{db: db, fx: fx, svc: svc, ac: ac}
}

func levelCount(s *dto.AnalyticsSnapshot, lv phqModel.RiskLevel) dto.RiskLevelCount {
	for _, l := range s.Distribution.Levels {
		if l.RiskLevel == lv {
			return l
		}
	}
	return dto.RiskLevelCount{}
}

func completionOf(s *dto.AnalyticsSnapshot, lv phqModel.RiskLevel) dto.ActivityCompletion {
	for _, c := range s.ActivityCompletion {
		if c.RiskLevel == lv {
			return c
		}
	}
	return dto.ActivityCompletion{}
}

func TestAnalyticsSummary_Distribution(t *testing.T) {
	w := seedWorld(t)
	snap, err := w.svc.GetAnalyticsSummary(context.Background(), testdb.Actor(w.fx.Admin), nil, "")
	require.NoError(t, err)
	require.NotNil(t, snap)

	d := snap.Distribution
	assert.Equal(t, 6, d.TotalStudents)
	assert.Equal(t, 5, d.AssessedStudents)
	assert.Equal(t, 1, d.NoAssessment)
	require.Len(t, d.Levels, 5)

	red := levelCount(snap, phqModel.RiskRed)
	assert.Equal(t, 1, red.Count, "hasil terbaru A (red) yang dipakai")
	assert.Equal(t, 20.0, red.Percentage)
	assert.Equal(t, 1, red.ReferredToHospital)
	assert.Equal(t, 1, levelCount(snap, phqModel.RiskGreen).Count)
	assert.Equal(t, 1, levelCount(snap, phqModel.RiskOrange).ReferredToHospital)
	assert.Zero(t, levelCount(snap, phqModel.RiskGreen).ReferredToHospital)
}

func TestAnalyticsSummary_GradesNaturalSorted(t *testing.T) {
	w := seedWorld(t)
	snap, err := w.svc.GetAnalyticsSummary(context.Background(), testdb.Actor(w.fx.Admin), nil, "")
	require.NoError(t, err)

	var names []string
	for _, g := range snap.Grades {
		names = append(names, g.Grade)
	}
	assert.Equal(t, []string{"ม.4", "ม.5", "ม.10"}, names)
	assert.Equal(t, 2, snap.Grades[0].Total)
	assert.Equal(t, 1, snap.Grades[0].Counts[phqModel.RiskOrange])
	assert.Equal(t, 1, snap.Grades[2].Counts[phqModel.RiskBlue], "D tanpa asesmen tidak dihitung")

	require.Len(t, snap.HospitalReferrals, 2)
	assert.Equal(t, dto.GradeReferral{Grade: "ม.4", Count: 1}, snap.HospitalReferrals[0])
	assert.Equal(t, dto.GradeReferral{Grade: "ม.5", Count: 1}, snap.HospitalReferrals[1])
}

func TestAnalyticsSummary_Trend(t *testing.T) {
	w := seedWorld(t)
	snap, err := w.svc.GetAnalyticsSummary(context.Background(), testdb.Actor(w.fx.Admin), nil, "")
	require.NoError(t, err)

	require.Len(t, snap.Trend, 2)
	first, second := snap.Trend[0], snap.Trend[1]
	assert.Equal(t, "ต้นเทอม/1", first.Label)
	assert.Equal(t, 5, first.Total)
	assert.Equal(t, 2, first.Counts[phqModel.RiskGreen])
	assert.Equal(t, "ปลายเทอม/2", second.Label)
	assert.Equal(t, 1, second.Total)
	assert.Equal(t, 1, second.Counts[phqModel.RiskRed])
}

func TestAnalyticsSummary_ActivityCompletion(t *testing.T) {
	w := seedWorld(t)
	snap, err := w.svc.GetAnalyticsSummary(context.Background(), testdb.Actor(w.fx.Admin), nil, "")
	require.NoError(t, err)

	green := completionOf(snap, phqModel.RiskGreen)
	assert.Equal(t, 1, green.TotalStudents)
	assert.Equal(t, 1, green.Completed[1], "aktivitas hasil lama A tidak dihitung")
	assert.Zero(t, green.NoActivity)

	yellow := completionOf(snap, phqModel.RiskYellow)
	assert.Equal(t, 1, yellow.Completed[1])
	assert.Equal(t, 1, yellow.Completed[2])
	assert.Zero(t, yellow.Completed[3])
	assert.Zero(t, yellow.NoActivity)

	red := completionOf(snap, phqModel.RiskRed)
	assert.Equal(t, 1, red.TotalStudents)
	assert.Equal(t, 1, red.NoActivity)
}

func TestAnalyticsSummary_Scopes(t *testing.T) {
	w := seedWorld(t)
	ctx := context.Background()

	snap, err := w.svc.GetAnalyticsSummary(ctx, testdb.Actor(w.fx.Admin), nil, "ม.5/1")
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Distribution.TotalStudents)
	assert.Equal(t, "ม.5/1", snap.ClassName)

	// class teacher hanya melihat kelas yang diampu
	snap, err = w.svc.GetAnalyticsSummary(ctx, testdb.Actor(w.fx.Teacher), nil, "")
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Distribution.TotalStudents)

	// system admin tanpa school_id → nil
	snap, err = w.svc.GetAnalyticsSummary(ctx, testdb.SystemAdmin(), nil, "")
	require.NoError(t, err)
	assert.Nil(t, snap)

	sid := w.fx.School.SchoolID
	snap, err = w.svc.GetAnalyticsSummary(ctx, testdb.SystemAdmin(), &sid, "")
	require.NoError(t, err)
	assert.Equal(t, 6, snap.Distribution.TotalStudents)

	other := testdb.Seed(t, w.db, "โรงเรียนอื่น")
	_, err = w.svc.GetAnalyticsSummary(ctx, testdb.Actor(other.Admin), &sid, "")
	assert.True(t, errors.Is(err, helperAuth.ErrForbidden))

	// sekolah lain kosong, bukan bocoran data
	snap, err = w.svc.GetAnalyticsSummary(ctx, testdb.Actor(other.Admin), nil, "")
	require.NoError(t, err)
	assert.Zero(t, snap.Distribution.TotalStudents)
}

func TestAnalyticsSummary_CacheAndInvalidate(t *testing.T) {
	w := seedWorld(t)
	ctx := context.Background()
	admin := testdb.Actor(w.fx.Admin)

	first, err := w.svc.GetAnalyticsSummary(ctx, admin, nil, "")
	require.NoError(t, err)
	assert.Equal(t, 6, first.Distribution.TotalStudents)

	testdb.NewStudent(t, w.db, w.fx.School.SchoolID, &w.fx.Class.ClassID, "G")

	cached, err := w.svc.GetAnalyticsSummary(ctx, admin, nil, "")
	require.NoError(t, err)
	assert.Equal(t, 6, cached.Distribution.TotalStudents, "masih dari cache")

	w.ac.InvalidateSchool(ctx, w.fx.School.SchoolID)

	fresh, err := w.svc.GetAnalyticsSummary(ctx, admin, nil, "")
	require.NoError(t, err)
	assert.Equal(t, 7, fresh.Distribution.TotalStudents)
}

// gatedStore menahan Set pertama sampai release ditutup.
type gatedStore struct {
	*cache.MemoryStore
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStore) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		<-g.release
	}
	return g.MemoryStore.Set(ctx, key, val, ttl)
}

func TestAnalyticsSummary_InvalidateDuringComputation(t *testing.T) {
	w := seedWorld(t)
	ctx := context.Background()
	admin := testdb.Actor(w.fx.Admin)

	store := &gatedStore{
		MemoryStore: cache.NewMemoryStore(),
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	w.svc.Cache = cache.NewAnalyticsCache(store, time.Minute)

	type result struct {
		snap *dto.AnalyticsSnapshot
		err  error
	}
	run := func() chan result {
		ch := make(chan result, 1)
		go func() {
			snap, err := w.svc.GetAnalyticsSummary(ctx, admin, nil, "")
			ch <- result{snap, err}
		}()
		return ch
	}

	// A: selesai scan, tertahan saat menyimpan ke cache
	first := run()
	<-store.entered

	testdb.NewStudent(t, w.db, w.fx.School.SchoolID, &w.fx.Class.ClassID, "G")
	w.svc.Cache.InvalidateSchool(ctx, w.fx.School.SchoolID)

	// B: dimulai setelah invalidasi, tidak boleh menunggu hasil A
	second := run()
	var got result
	select {
	case got = <-second:
	case <-time.After(3 * time.Second):
		close(store.release)
		<-second
		<-first
		t.Fatal("request setelah invalidasi menunggu hitungan versi lama")
	}
	close(store.release)

	require.NoError(t, got.err)
	assert.Equal(t, 7, got.snap.Distribution.TotalStudents)

	old := <-first
	require.NoError(t, old.err)
	assert.Equal(t, 6, old.snap.Distribution.TotalStudents)

	// hasil lama tersimpan di versi lama, bukan versi terbaru
	again, err := w.svc.GetAnalyticsSummary(ctx, admin, nil, "")
	require.NoError(t, err)
	assert.Equal(t, 7, again.Distribution.TotalStudents)
}

func TestAnalyticsSummary_ScansShareOneTransaction(t *testing.T) {
	w := seedWorld(t)
	w.svc.Cache = nil

	var (
		mu    sync.Mutex
		pools []gorm.ConnPool
	)
	require.NoError(t, w.db.Callback().Row().Before("gorm:row").Register("test:conn_pool", func(db *gorm.DB) {
		mu.Lock()
		defer mu.Unlock()
		pools = append(pools, db.Statement.ConnPool)
	}))

	_, err := w.svc.GetAnalyticsSummary(context.Background(), testdb.Actor(w.fx.Admin), nil, "")
	require.NoError(t, err)

	require.Len(t, pools, 3)
	tx, ok := pools[0].(*sql.Tx)
	require.True(t, ok, "scan harus berjalan di dalam transaksi")
	for _, p := range pools[1:] {
		assert.Same(t, tx, p)
	}
}

func TestAnalyticsSummary_ConcurrentCallers(t *testing.T) {
	w := seedWorld(t)
	admin := testdb.Actor(w.fx.Admin)

	var wg sync.WaitGroup
	results := make([]*dto.AnalyticsSnapshot, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = w.svc.GetAnalyticsSummary(context.Background(), admin, nil, "")
		}(i)
	}
	wg.Wait()
	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, 6, results[i].Distribution.TotalStudents)
	}
}

func TestRoundLabel(t *testing.T) {
	assert.Equal(t, "ต้นเทอม/1", RoundLabel(1, 1))
	assert.Equal(t, "ปลายเทอม/1", RoundLabel(2, 1))
	assert.Equal(t, "ต้นเทอม/2", RoundLabel(1, 2))
}

func TestSortGrades(t *testing.T) {
	names := []string{"ม.12/1", "ป.6/1", "ม.2/3", "พิเศษ", "ม.1/1"}
	var keys []gradeKey
	for i := range names {
		keys = append(keys, gradeOf(&names[i]))
	}
	keys = append(keys, gradeOf(nil))
	sortGrades(keys)

	var got []string
	for _, k := range keys {
		got = append(got, k.name)
	}
	assert.Equal(t, []string{"ม.1", "ม.2", "ป.6", "ม.12", "พิเศษ", unknownGrade}, got)
}
