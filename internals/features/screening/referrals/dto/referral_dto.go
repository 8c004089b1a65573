package dto

type CreateReferralRequest struct {
	StudentID string  `json:"student_id" validate:"required,uuid"`
	ToUserID  string  `json:"to_user_id" validate:"required,uuid"`
	Note      *string `json:"note" validate:"omitempty,max=2000"`
}
