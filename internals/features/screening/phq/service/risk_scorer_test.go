package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"phqa_backend/internals/features/screening/phq/model"
)

// answersWithTotal menyebar total ke item (maks 3 per item).
func answersWithTotal(total int) model.PhqAnswers {
	var a model.PhqAnswers
	for i := 0; i < 9 && total > 0; i++ {
		v := total
		if v > 3 {
			v = 3
		}
		a.Items[i] = v
		total -= v
	}
	return a
}

func TestCalculateRiskLevel_Boundaries(t *testing.T) {
	cases := []struct {
		total int
		want  model.RiskLevel
	}{
		{0, model.RiskBlue},
		{4, model.RiskBlue},
		{5, model.RiskGreen},
		{9, model.RiskGreen},
		{10, model.RiskYellow},
		{14, model.RiskYellow},
		{15, model.RiskOrange},
		{19, model.RiskOrange},
		{20, model.RiskRed},
		{27, model.RiskRed},
	}
	for _, tc := range cases {
		got := CalculateRiskLevel(answersWithTotal(tc.total))
		assert.Equal(t, tc.total, got.TotalScore)
		assert.Equal(t, tc.want, got.RiskLevel, "total=%d", tc.total)
	}
}

func TestCalculateRiskLevel_Monotonic(t *testing.T) {
	prev := -1
	for total := 0; total <= 27; total++ {
		sev := CalculateRiskLevel(answersWithTotal(total)).RiskLevel.Severity()
		assert.GreaterOrEqual(t, sev, prev, "total=%d", total)
		prev = sev
	}
}

func TestCalculateRiskLevel_Q9aOverride(t *testing.T) {
	for total := 0; total <= 27; total++ {
		a := answersWithTotal(total)
		a.Q9a = true
		got := CalculateRiskLevel(a)
		assert.Equal(t, model.RiskRed, got.RiskLevel, "total=%d", total)
		assert.Equal(t, total, got.TotalScore, "q9a tidak ikut dijumlah")
	}
}

func TestCalculateRiskLevel_Q9bInformational(t *testing.T) {
	for total := 0; total <= 27; total++ {
		a := answersWithTotal(total)
		without := CalculateRiskLevel(a)
		a.Q9b = true
		assert.Equal(t, without, CalculateRiskLevel(a))
	}
}

func TestCalculateRiskLevel_Scenarios(t *testing.T) {
	allThree := model.PhqAnswers{Items: [9]int{3, 3, 3, 3, 3, 3, 3, 3, 3}}
	got := CalculateRiskLevel(allThree)
	assert.Equal(t, 27, got.TotalScore)
	assert.Equal(t, model.RiskRed, got.RiskLevel)

	allOne := model.PhqAnswers{Items: [9]int{1, 1, 1, 1, 1, 1, 1, 1, 1}}
	got = CalculateRiskLevel(allOne)
	assert.Equal(t, 9, got.TotalScore)
	assert.Equal(t, model.RiskGreen, got.RiskLevel)
}

func TestPhqAnswers_Validate(t *testing.T) {
	ok := model.PhqAnswers{Items: [9]int{0, 1, 2, 3, 0, 1, 2, 3, 0}}
	assert.NoError(t, ok.Validate())

	bad := ok
	bad.Items[4] = 4
	assert.Error(t, bad.Validate())

	bad.Items[4] = -1
	assert.Error(t, bad.Validate())
}
