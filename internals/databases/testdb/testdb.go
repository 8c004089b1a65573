// Package testdb menyiapkan database SQLite in-memory + fixture untuk test service.
package testdb

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"phqa_backend/internals/constants"
	database "phqa_backend/internals/databases"
	classModel "phqa_backend/internals/features/school/classes/model"
	schoolModel "phqa_backend/internals/features/school/schools/model"
	studentModel "phqa_backend/internals/features/school/students/model"
	userModel "phqa_backend/internals/features/users/user/model"
	helperAuth "phqa_backend/internals/helpers/auth"
)

// Open membuka DB in-memory terisolasi per test (satu koneksi).
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// Fixture: satu sekolah dengan admin, satu kelas + guru kelasnya.
type Fixture struct {
	School  schoolModel.SchoolModel
	Admin   userModel.UserModel
	Teacher userModel.UserModel
	Class   classModel.ClassModel
}

func Seed(t *testing.T, db *gorm.DB, name string) Fixture {
	t.Helper()
	f := Fixture{School: schoolModel.SchoolModel{SchoolName: name}}
	require.NoError(t, db.Create(&f.School).Error)

	sid := f.School.SchoolID
	f.Admin = NewUser(t, db, constants.RoleSchoolAdmin, &sid, true)
	f.Teacher = NewUser(t, db, constants.RoleClassTeacher, &sid, false)
	f.Class = NewClass(t, db, sid, "ม.5/1")
	AssignTeacher(t, db, f.Class.ClassID, f.Teacher.UserID)
	return f
}

func NewUser(t *testing.T, db *gorm.DB, role constants.Role, schoolID *uuid.UUID, primary bool) userModel.UserModel {
	t.Helper()
	u := userModel.UserModel{
		UserFullName:  string(role) + " user",
		UserEmail:     uuid.NewString() + "@school.test",
		UserRole:      role,
		UserSchoolID:  schoolID,
		UserIsPrimary: primary,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func NewClass(t *testing.T, db *gorm.DB, schoolID uuid.UUID, name string) classModel.ClassModel {
	t.Helper()
	c := classModel.ClassModel{ClassSchoolID: schoolID, ClassName: name}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func AssignTeacher(t *testing.T, db *gorm.DB, classID, userID uuid.UUID) {
	t.Helper()
	require.NoError(t, db.Create(&classModel.ClassTeacherModel{
		ClassTeacherClassID: classID,
		ClassTeacherUserID:  userID,
	}).Error)
}

func NewStudent(t *testing.T, db *gorm.DB, schoolID uuid.UUID, classID *uuid.UUID, code string) studentModel.StudentModel {
	t.Helper()
	s := studentModel.StudentModel{
		StudentSchoolID:  schoolID,
		StudentClassID:   classID,
		StudentCode:      code,
		StudentFirstName: "Student",
		StudentLastName:  code,
	}
	require.NoError(t, db.Create(&s).Error)
	return s
}

// Actor membangun ActorContext dari user fixture.
func Actor(u userModel.UserModel) helperAuth.ActorContext {
	return helperAuth.ActorContext{
		UserID:    u.UserID,
		Role:      u.UserRole,
		SchoolID:  u.UserSchoolID,
		IsPrimary: u.UserIsPrimary,
	}
}

func SystemAdmin() helperAuth.ActorContext {
	return helperAuth.ActorContext{UserID: uuid.New(), Role: constants.RoleSystemAdmin}
}
