package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phqa_backend/internals/constants"
	helperAuth "phqa_backend/internals/helpers/auth"
)

const testSecret = "test-secret"

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func newApp() *fiber.App {
	app := fiber.New()
	app.Get("/me",
		AuthJWT(AuthJWTOpts{Secret: testSecret}),
		func(c *fiber.Ctx) error {
			a, err := helperAuth.ActorFromLocals(c)
			if err != nil {
				return err
			}
			return c.JSON(fiber.Map{"role": a.Role, "primary": a.IsPrimary, "has_school": a.SchoolID != nil})
		})
	app.Get("/admin",
		AuthJWT(AuthJWTOpts{Secret: testSecret}),
		OnlyRoles("admin only", constants.AdminRoles...),
		func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func TestAuthJWT(t *testing.T) {
	app := newApp()
	school := uuid.NewString()

	cases := []struct {
		name   string
		token  string
		path   string
		status int
	}{
		{"missing token", "", "/me", fiber.StatusUnauthorized},
		{"bad signature", "Bearer abc.def.ghi", "/me", fiber.StatusUnauthorized},
		{"unknown role", "Bearer " + sign(t, jwt.MapClaims{"sub": uuid.NewString(), "role": "owner"}), "/me", fiber.StatusUnauthorized},
		{"teacher without school", "Bearer " + sign(t, jwt.MapClaims{"sub": uuid.NewString(), "role": "class_teacher"}), "/me", fiber.StatusUnauthorized},
		{"system admin", "Bearer " + sign(t, jwt.MapClaims{"sub": uuid.NewString(), "role": "system_admin"}), "/me", fiber.StatusOK},
		{"teacher ok", "Bearer " + sign(t, jwt.MapClaims{"id": uuid.NewString(), "role": "class_teacher", "school_id": school}), "/me", fiber.StatusOK},
		{"teacher on admin route", "Bearer " + sign(t, jwt.MapClaims{"id": uuid.NewString(), "role": "class_teacher", "school_id": school}), "/admin", fiber.StatusForbidden},
		{"school admin on admin route", "Bearer " + sign(t, jwt.MapClaims{"id": uuid.NewString(), "role": "school_admin", "school_id": school, "is_primary": true}), "/admin", fiber.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.path, nil)
			if tc.token != "" {
				req.Header.Set("Authorization", tc.token)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
