// file: internals/route/details/services.go
package details

import (
	"gorm.io/gorm"

	studentService "phqa_backend/internals/features/school/students/service"
	activityService "phqa_backend/internals/features/screening/activities/service"
	analyticsService "phqa_backend/internals/features/screening/analytics/service"
	phqService "phqa_backend/internals/features/screening/phq/service"
	referralService "phqa_backend/internals/features/screening/referrals/service"
	userService "phqa_backend/internals/features/users/user/service"
	"phqa_backend/internals/helpers/cache"
	helperOSS "phqa_backend/internals/helpers/oss"
)

// Services: satu instance per service, dibagi antar route group.
type Services struct {
	Activities *activityService.ActivityService
	Phq        *phqService.PhqService
	Analytics  *analyticsService.AnalyticsService
	Referrals  *referralService.ReferralService
	Students   *studentService.StudentService
	Users      *userService.UserAdminService
}

// NewServices merakit service; analytics cache sekaligus menjadi invalidator mutasi.
func NewServices(db *gorm.DB, blob helperOSS.BlobService, ac *cache.AnalyticsCache) *Services {
	var inv cache.SchoolInvalidator = cache.NopInvalidator{}
	if ac != nil {
		inv = ac
	}
	acts := activityService.NewActivityService(db, blob, inv)
	return &Services{
		Activities: acts,
		Phq:        phqService.NewPhqService(db, acts, inv),
		Analytics:  analyticsService.NewAnalyticsService(db, ac),
		Referrals:  referralService.NewReferralService(db),
		Students:   studentService.NewStudentService(db, blob, inv),
		Users:      userService.NewUserAdminService(db),
	}
}
