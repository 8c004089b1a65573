package model

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// PhqAnswers: sembilan item ordinal (0–3) + dua flag.
// Q9a = ide bunuh diri aktif, Q9b = riwayat percobaan (informasi saja).
type PhqAnswers struct {
	Items [9]int
	Q9a   bool
	Q9b   bool
}

type RiskScore struct {
	TotalScore int       `json:"total_score"`
	RiskLevel  RiskLevel `json:"risk_level"`
}

// Validate menolak item di luar 0–3.
func (a PhqAnswers) Validate() error {
	for i, v := range a.Items {
		if v < 0 || v > 3 {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("q%d harus bernilai 0–3 (diterima %d)", i+1, v))
		}
	}
	return nil
}
