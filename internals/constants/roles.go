package constants

import "fmt"

// Role adalah enum tertutup untuk role pengguna.
// Setiap keputusan akses memakai switch eksplisit atas nilai-nilai ini.
type Role string

const (
	RoleSystemAdmin  Role = "system_admin"
	RoleSchoolAdmin  Role = "school_admin"
	RoleClassTeacher Role = "class_teacher"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSystemAdmin, RoleSchoolAdmin, RoleClassTeacher:
		return true
	}
	return false
}

func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// Template pesan error role
const (
	ErrOnlyAdminsCanAccess = "❌ Hanya admin sekolah atau admin sistem yang boleh mengakses fitur %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AdminRoles = []Role{
		RoleSystemAdmin,
		RoleSchoolAdmin,
	}
)
