package service

import phqModel "phqa_backend/internals/features/screening/phq/model"

// EligibleActivities: daftar aktivitas per tingkat risiko (urut naik).
// red & blue tidak mendapat aktivitas.
func EligibleActivities(level phqModel.RiskLevel) []int {
	switch level {
	case phqModel.RiskOrange:
		return []int{1, 2, 3, 4, 5}
	case phqModel.RiskYellow:
		return []int{1, 2, 3, 5}
	case phqModel.RiskGreen:
		return []int{1, 2, 5}
	case phqModel.RiskRed, phqModel.RiskBlue:
		return nil
	default:
		return nil
	}
}

// RequiredUploads: aktivitas 1–4 butuh 2 lembar kerja, aktivitas 5 butuh 1.
func RequiredUploads(activityNumber int) int {
	if activityNumber == 5 {
		return 1
	}
	return 2
}
