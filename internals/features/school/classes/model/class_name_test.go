package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseClassName(t *testing.T) {
	cases := []struct {
		in    string
		grade string
		num   int
		ok    bool
	}{
		{"ม.5/1", "ม.5", 5, true},
		{" ม.12/3 ", "ม.12", 12, true},
		{"ป.6/2", "ป.6", 6, true},
		{"M1/4", "M1", 1, true},
		{"ม.5", "", 0, false},
		{"", "", 0, false},
	}
	for _, tc := range cases {
		g, n, ok := ParseClassName(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.grade, g, tc.in)
		assert.Equal(t, tc.num, n, tc.in)
	}
	assert.Equal(t, "ห้องพิเศษ", GradeOf("ห้องพิเศษ"))
}
