// file: internals/helpers/auth/actor_context.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"phqa_backend/internals/constants"
)

// Nama locals yang diisi middleware AuthJWT
const (
	LocUserID    = "user_id"    // string UUID
	LocRole      = "role"       // constants.Role
	LocSchoolID  = "school_id"  // string UUID (kosong untuk system_admin)
	LocIsPrimary = "is_primary" // bool
	LocActor     = "actor"      // ActorContext
)

var (
	ErrActorMissing = fiber.NewError(fiber.StatusUnauthorized, "Unauthorized: identitas pengguna tidak ditemukan")
	ErrRoleInvalid  = fiber.NewError(fiber.StatusUnauthorized, "Unauthorized: role tidak dikenal")
)

// ActorContext dibangun sekali dari klaim token terverifikasi lalu
// diteruskan eksplisit ke setiap operasi service.
type ActorContext struct {
	UserID    uuid.UUID
	Role      constants.Role
	SchoolID  *uuid.UUID
	IsPrimary bool
}

// InSchool: apakah actor terafiliasi ke sekolah tsb (system_admin tidak terafiliasi).
func (a ActorContext) InSchool(schoolID uuid.UUID) bool {
	return a.SchoolID != nil && *a.SchoolID == schoolID
}

// CanChangeRoles: hanya system_admin dan admin sekolah utama.
func (a ActorContext) CanChangeRoles() bool {
	switch a.Role {
	case constants.RoleSystemAdmin:
		return true
	case constants.RoleSchoolAdmin:
		return a.IsPrimary
	case constants.RoleClassTeacher:
		return false
	default:
		return false
	}
}

// ActorFromLocals membaca ActorContext yang sudah dipasang AuthJWT,
// atau menyusunnya dari locals dasar bila belum ada.
func ActorFromLocals(c *fiber.Ctx) (ActorContext, error) {
	if a, ok := c.Locals(LocActor).(ActorContext); ok {
		return a, nil
	}

	uidStr, _ := c.Locals(LocUserID).(string)
	uid, err := uuid.Parse(strings.TrimSpace(uidStr))
	if err != nil || uid == uuid.Nil {
		return ActorContext{}, ErrActorMissing
	}

	var role constants.Role
	switch v := c.Locals(LocRole).(type) {
	case constants.Role:
		role = v
	case string:
		role = constants.Role(strings.ToLower(strings.TrimSpace(v)))
	}
	if !role.Valid() {
		return ActorContext{}, ErrRoleInvalid
	}

	a := ActorContext{UserID: uid, Role: role}
	if s, _ := c.Locals(LocSchoolID).(string); strings.TrimSpace(s) != "" {
		if sid, err := uuid.Parse(strings.TrimSpace(s)); err == nil {
			a.SchoolID = &sid
		}
	}
	if b, ok := c.Locals(LocIsPrimary).(bool); ok {
		a.IsPrimary = b
	}

	// school_admin & class_teacher wajib punya sekolah
	switch a.Role {
	case constants.RoleSystemAdmin:
	case constants.RoleSchoolAdmin, constants.RoleClassTeacher:
		if a.SchoolID == nil {
			return ActorContext{}, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized: school_id tidak ada di token")
		}
	}

	c.Locals(LocActor, a)
	return a, nil
}
