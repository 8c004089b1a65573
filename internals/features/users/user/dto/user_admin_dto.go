package dto

type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=school_admin class_teacher"`
}
