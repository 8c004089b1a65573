package model

import (
	"regexp"
	"strconv"
	"strings"
)

// Nama kelas: "<tingkat>/<rombel>", mis. "ม.5/1" → tingkat "ม.5" (angka 5).
var classNameRe = regexp.MustCompile(`^(\D*?)(\d+)\s*/\s*(\d+)$`)

// ParseClassName mengembalikan prefix tingkat dan angka tingkatnya.
func ParseClassName(name string) (grade string, gradeNum int, ok bool) {
	m := classNameRe.FindStringSubmatch(strings.TrimSpace(name))
	if m == nil {
		return "", 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	return strings.TrimSpace(m[1]) + m[2], n, true
}

// GradeOf: prefix tingkat; nama yang tidak sesuai format dikembalikan apa adanya.
func GradeOf(name string) string {
	if g, _, ok := ParseClassName(name); ok {
		return g
	}
	return strings.TrimSpace(name)
}
