// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"phqa_backend/internals/configs"
)

// Nama locals untuk cache *time.Location per request
const LocSchoolLoc = "school_loc"

var (
	locOnce sync.Once
	loc     *time.Location
)

// SchoolLocation:
// 1) SCHOOL_TIMEZONE dari env
// 2) Fallback: Asia/Bangkok
// 3) Fallback terakhir: time.UTC
func SchoolLocation() *time.Location {
	locOnce.Do(func() {
		for _, name := range []string{strings.TrimSpace(configs.SchoolTimezone), "Asia/Bangkok"} {
			if name == "" {
				continue
			}
			if l, err := time.LoadLocation(name); err == nil {
				loc = l
				return
			}
		}
		loc = time.UTC
	})
	return loc
}

func GetSchoolLocation(c *fiber.Ctx) *time.Location {
	if c != nil {
		if l, ok := c.Locals(LocSchoolLoc).(*time.Location); ok && l != nil {
			return l
		}
	}
	l := SchoolLocation()
	if c != nil {
		c.Locals(LocSchoolLoc, l)
	}
	return l
}

// NowInSchool: "sekarang" di timezone sekolah
func NowInSchool(c *fiber.Ctx) time.Time {
	return time.Now().In(GetSchoolLocation(c))
}

// ParseSchoolDate membaca "YYYY-MM-DD" (atau RFC3339) sebagai tanggal di timezone sekolah.
func ParseSchoolDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation("2006-01-02", s, SchoolLocation()); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	t = t.In(SchoolLocation())
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, SchoolLocation()), nil
}
