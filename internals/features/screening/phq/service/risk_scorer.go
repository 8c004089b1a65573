package service

import "phqa_backend/internals/features/screening/phq/model"

// CalculateRiskLevel: total = q1..q9 (q9a/q9b tidak dihitung).
// Aturan pertama yang cocok menang:
// q9a → red, ≥20 red, ≥15 orange, ≥10 yellow, ≥5 green, selain itu blue.
func CalculateRiskLevel(a model.PhqAnswers) model.RiskScore {
	total := 0
	for _, v := range a.Items {
		total += v
	}

	var level model.RiskLevel
	switch {
	case a.Q9a:
		level = model.RiskRed
	case total >= 20:
		level = model.RiskRed
	case total >= 15:
		level = model.RiskOrange
	case total >= 10:
		level = model.RiskYellow
	case total >= 5:
		level = model.RiskGreen
	default:
		level = model.RiskBlue
	}
	return model.RiskScore{TotalScore: total, RiskLevel: level}
}
