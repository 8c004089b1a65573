package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"phqa_backend/internals/databases/testdb"
	studentModel "phqa_backend/internals/features/school/students/model"
	activityModel "phqa_backend/internals/features/screening/activities/model"
	phqModel "phqa_backend/internals/features/screening/phq/model"
	referralModel "phqa_backend/internals/features/screening/referrals/model"
	helperAuth "phqa_backend/internals/helpers/auth"
	helperOSS "phqa_backend/internals/helpers/oss"
)

type deleteRecorder struct {
	deleted []string
}

func (d *deleteRecorder) InvalidateSchool(context.Context, uuid.UUID) {}

func seedStudentGraph(t *testing.T, db *gorm.DB, fx testdb.Fixture, code string) (studentModel.StudentModel, []string) {
	t.Helper()
	st := testdb.NewStudent(t, db, fx.School.SchoolID, &fx.Class.ClassID, code)
	r := phqModel.PhqResultModel{
		PhqResultStudentID:    st.StudentID,
		PhqResultSchoolID:     fx.School.SchoolID,
		PhqResultAcademicYear: 2568, PhqResultSemester: 1, PhqResultRound: 1,
		PhqResultRiskLevel: phqModel.RiskGreen,
	}
	require.NoError(t, db.Create(&r).Error)

	act := activityModel.ActivityProgressModel{
		ActivityProgressStudentID:   st.StudentID,
		ActivityProgressPhqResultID: r.PhqResultID,
		ActivityProgressNumber:      1,
		ActivityProgressStatus:      activityModel.ActivityCompleted,
	}
	require.NoError(t, db.Create(&act).Error)

	var keys []string
	for i := 1; i <= 2; i++ {
		key := "worksheets/" + code + "_" + uuid.NewString() + ".png"
		keys = append(keys, key)
		require.NoError(t, db.Create(&activityModel.WorksheetUploadModel{
			WorksheetUploadActivityProgressID: act.ActivityProgressID,
			WorksheetUploadOrder:              i,
			WorksheetUploadFileURL:            "https://files.test/" + key,
			WorksheetUploadObjectKey:          key,
			WorksheetUploadFileSize:           10,
			WorksheetUploadUploadedBy:         fx.Teacher.UserID,
		}).Error)
	}
	require.NoError(t, db.Create(&referralModel.StudentReferralModel{
		StudentReferralStudentID:  st.StudentID,
		StudentReferralFromUserID: fx.Teacher.UserID,
		StudentReferralToUserID:   fx.Admin.UserID,
	}).Error)
	return st, keys
}

func TestDeleteStudent_Cascade(t *testing.T) {
	db := testdb.Open(t)
	fx := testdb.Seed(t, db, "โรงเรียนลบ")
	rec := &deleteRecorder{}
	blob := &helperOSS.MockBlobService{
		DeleteFn: func(_ context.Context, key string) error {
			rec.deleted = append(rec.deleted, key)
			return nil
		},
	}
	svc := NewStudentService(db, blob, rec)

	st, keys := seedStudentGraph(t, db, fx, "D001")
	keep, _ := seedStudentGraph(t, db, fx, "D002")

	res, err := svc.DeleteStudent(context.Background(), testdb.Actor(fx.Admin), st.StudentID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.PhqResults)
	assert.EqualValues(t, 1, res.Activities)
	assert.EqualValues(t, 2, res.Uploads)
	assert.EqualValues(t, 1, res.Referrals)
	assert.Equal(t, 2, res.ObjectsRemoved)
	assert.ElementsMatch(t, keys, rec.deleted)

	count := func(m any, where string, arg any) int64 {
		var n int64
		require.NoError(t, db.Model(m).Where(where, arg).Count(&n).Error)
		return n
	}
	assert.Zero(t, count(&studentModel.StudentModel{}, "student_id = ?", st.StudentID))
	assert.Zero(t, count(&phqModel.PhqResultModel{}, "phq_result_student_id = ?", st.StudentID))
	assert.Zero(t, count(&activityModel.ActivityProgressModel{}, "activity_progress_student_id = ?", st.StudentID))
	assert.EqualValues(t, 2, count(&activityModel.WorksheetUploadModel{}, "1 = ?", 1), "upload siswa lain tetap ada")
	assert.EqualValues(t, 1, count(&studentModel.StudentModel{}, "student_id = ?", keep.StudentID))
}

func TestDeleteStudent_Access(t *testing.T) {
	db := testdb.Open(t)
	fx := testdb.Seed(t, db, "โรงเรียนลบ")
	other := testdb.Seed(t, db, "โรงเรียนอื่น")
	svc := NewStudentService(db, nil, nil)
	st := testdb.NewStudent(t, db, fx.School.SchoolID, &fx.Class.ClassID, "D003")
	ctx := context.Background()

	_, err := svc.DeleteStudent(ctx, testdb.Actor(fx.Teacher), st.StudentID)
	assert.True(t, errors.Is(err, helperAuth.ErrForbidden))

	_, err = svc.DeleteStudent(ctx, testdb.Actor(other.Admin), st.StudentID)
	assert.True(t, errors.Is(err, helperAuth.ErrForbidden))

	_, err = svc.DeleteStudent(ctx, testdb.Actor(fx.Admin), uuid.New())
	assert.True(t, errors.Is(err, helperAuth.ErrStudentNotFound))

	_, err = svc.DeleteStudent(ctx, testdb.SystemAdmin(), st.StudentID)
	require.NoError(t, err)
}

func TestDeleteStudent_StorageFailureIsReported(t *testing.T) {
	db := testdb.Open(t)
	fx := testdb.Seed(t, db, "โรงเรียนลบ")
	blob := &helperOSS.MockBlobService{
		DeleteFn: func(context.Context, string) error { return errors.New("bucket down") },
	}
	svc := NewStudentService(db, blob, nil)
	st, _ := seedStudentGraph(t, db, fx, "D004")

	res, err := svc.DeleteStudent(context.Background(), testdb.Actor(fx.Admin), st.StudentID)
	require.NoError(t, err, "data tetap terhapus walau storage gagal")
	assert.Equal(t, 2, res.ObjectsRemaining)
	assert.Zero(t, res.ObjectsRemoved)
}
