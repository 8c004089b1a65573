// file: internals/route/details/screening_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"

	activityRoutes "phqa_backend/internals/features/screening/activities/route"
	analyticsRoutes "phqa_backend/internals/features/screening/analytics/route"
	phqRoutes "phqa_backend/internals/features/screening/phq/route"
	referralRoutes "phqa_backend/internals/features/screening/referrals/route"
)

/* ===================== SCREENING (PRIVATE) ===================== */
// PHQ-A, aktivitas lanjutan, analitik, rujukan antar guru
func ScreeningRoutes(r fiber.Router, s *Services) {
	phqRoutes.PhqRoutes(r, s.Phq)
	activityRoutes.ActivityRoutes(r, s.Activities)
	analyticsRoutes.AnalyticsRoutes(r, s.Analytics)
	referralRoutes.ReferralRoutes(r, s.Referrals)
}
