package model

// RiskLevel: urutan keparahan blue < green < yellow < orange < red
type RiskLevel string

const (
	RiskBlue   RiskLevel = "blue"
	RiskGreen  RiskLevel = "green"
	RiskYellow RiskLevel = "yellow"
	RiskOrange RiskLevel = "orange"
	RiskRed    RiskLevel = "red"
)

// RiskLevels berurutan dari paling ringan.
var RiskLevels = []RiskLevel{RiskBlue, RiskGreen, RiskYellow, RiskOrange, RiskRed}

// Severity: 0 (blue) … 4 (red); -1 untuk nilai tidak dikenal.
func (r RiskLevel) Severity() int {
	switch r {
	case RiskBlue:
		return 0
	case RiskGreen:
		return 1
	case RiskYellow:
		return 2
	case RiskOrange:
		return 3
	case RiskRed:
		return 4
	}
	return -1
}

func (r RiskLevel) Valid() bool { return r.Severity() >= 0 }

// Label tampilan dashboard
func (r RiskLevel) Label() string {
	switch r {
	case RiskBlue:
		return "ไม่มีความเสี่ยง"
	case RiskGreen:
		return "เสี่ยงเล็กน้อย"
	case RiskYellow:
		return "เสี่ยงปานกลาง"
	case RiskOrange:
		return "เสี่ยงมาก"
	case RiskRed:
		return "เสี่ยงรุนแรง"
	}
	return string(r)
}
