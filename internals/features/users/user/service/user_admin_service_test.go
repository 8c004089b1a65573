package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phqa_backend/internals/constants"
	"phqa_backend/internals/databases/testdb"
	classModel "phqa_backend/internals/features/school/classes/model"
	activityModel "phqa_backend/internals/features/screening/activities/model"
	phqModel "phqa_backend/internals/features/screening/phq/model"
	referralModel "phqa_backend/internals/features/screening/referrals/model"
	"phqa_backend/internals/features/users/user/model"
	helperAuth "phqa_backend/internals/helpers/auth"
)

func TestChangeUserRole(t *testing.T) {
	db := testdb.Open(t)
	fx := testdb.Seed(t, db, "โรงเรียนผู้ใช้")
	svc := NewUserAdminService(db)
	ctx := context.Background()
	sid := fx.School.SchoolID

	// guru → admin: penugasan kelas dibersihkan
	u, err := svc.ChangeUserRole(ctx, testdb.Actor(fx.Admin), fx.Teacher.UserID, constants.RoleSchoolAdmin)
	require.NoError(t, err)
	assert.Equal(t, constants.RoleSchoolAdmin, u.UserRole)

	var n int64
	require.NoError(t, db.Model(&classModel.ClassTeacherModel{}).
		Where("class_teacher_user_id = ?", fx.Teacher.UserID).Count(&n).Error)
	assert.Zero(t, n)

	nonPrimary := testdb.NewUser(t, db, constants.RoleSchoolAdmin, &sid, false)
	other := testdb.Seed(t, db, "โรงเรียนอื่น")
	sysAdmin := testdb.NewUser(t, db, constants.RoleSystemAdmin, nil, false)

	cases := []struct {
		name   string
		actor  helperAuth.ActorContext
		target uuid.UUID
		role   constants.Role
		want   error
	}{
		{"non-primary admin", testdb.Actor(nonPrimary), fx.Teacher.UserID, constants.RoleClassTeacher, ErrCannotChangeRoles},
		{"class teacher", testdb.Actor(other.Teacher), other.Admin.UserID, constants.RoleClassTeacher, ErrCannotChangeRoles},
		{"self", testdb.Actor(fx.Admin), fx.Admin.UserID, constants.RoleClassTeacher, ErrSelfModification},
		{"system admin target", testdb.Actor(fx.Admin), sysAdmin.UserID, constants.RoleClassTeacher, ErrSystemAdminTarget},
		{"other school", testdb.Actor(fx.Admin), other.Teacher.UserID, constants.RoleSchoolAdmin, helperAuth.ErrForbidden},
		{"promote to system admin", testdb.SystemAdmin(), fx.Teacher.UserID, constants.RoleSystemAdmin, ErrRoleNotAssignable},
		{"unknown role", testdb.SystemAdmin(), fx.Teacher.UserID, constants.Role("parent"), ErrRoleNotAssignable},
		{"missing user", testdb.SystemAdmin(), uuid.New(), constants.RoleClassTeacher, ErrUserNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ChangeUserRole(ctx, tc.actor, tc.target, tc.role)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}

	// system admin boleh lintas sekolah; admin utama diturunkan → is_primary false
	u, err = svc.ChangeUserRole(ctx, testdb.SystemAdmin(), other.Admin.UserID, constants.RoleClassTeacher)
	require.NoError(t, err)
	assert.Equal(t, constants.RoleClassTeacher, u.UserRole)
	assert.False(t, u.UserIsPrimary)
}

func TestDeleteUser_CleansReferences(t *testing.T) {
	db := testdb.Open(t)
	fx := testdb.Seed(t, db, "โรงเรียนผู้ใช้")
	svc := NewUserAdminService(db)
	ctx := context.Background()
	sid := fx.School.SchoolID

	st := testdb.NewStudent(t, db, sid, &fx.Class.ClassID, "U001")
	r := phqModel.PhqResultModel{
		PhqResultStudentID: st.StudentID, PhqResultSchoolID: sid,
		PhqResultAcademicYear: 2568, PhqResultSemester: 1, PhqResultRound: 1,
		PhqResultRiskLevel: phqModel.RiskGreen, PhqResultImportedBy: &fx.Teacher.UserID,
	}
	require.NoError(t, db.Create(&r).Error)
	act := activityModel.ActivityProgressModel{
		ActivityProgressStudentID: st.StudentID, ActivityProgressPhqResultID: r.PhqResultID,
		ActivityProgressNumber: 1, ActivityProgressStatus: activityModel.ActivityInProgress,
		ActivityProgressTeacherID: &fx.Teacher.UserID,
	}
	require.NoError(t, db.Create(&act).Error)
	require.NoError(t, db.Create(&referralModel.StudentReferralModel{
		StudentReferralStudentID: st.StudentID, StudentReferralFromUserID: fx.Admin.UserID, StudentReferralToUserID: fx.Teacher.UserID,
	}).Error)

	assert.True(t, errors.Is(svc.DeleteUser(ctx, testdb.Actor(fx.Teacher), fx.Admin.UserID), ErrCannotDeleteUsers))
	assert.True(t, errors.Is(svc.DeleteUser(ctx, testdb.Actor(fx.Admin), fx.Admin.UserID), ErrSelfModification))

	require.NoError(t, svc.DeleteUser(ctx, testdb.Actor(fx.Admin), fx.Teacher.UserID))

	var n int64
	require.NoError(t, db.Model(&model.UserModel{}).Where("user_id = ?", fx.Teacher.UserID).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Model(&referralModel.StudentReferralModel{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Model(&classModel.ClassTeacherModel{}).Count(&n).Error)
	assert.Zero(t, n)

	var gotAct activityModel.ActivityProgressModel
	require.NoError(t, db.Where("activity_progress_id = ?", act.ActivityProgressID).Take(&gotAct).Error)
	assert.Nil(t, gotAct.ActivityProgressTeacherID)

	var gotR phqModel.PhqResultModel
	require.NoError(t, db.Where("phq_result_id = ?", r.PhqResultID).Take(&gotR).Error)
	assert.Nil(t, gotR.PhqResultImportedBy)
}
