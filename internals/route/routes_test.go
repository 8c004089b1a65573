package routes

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"phqa_backend/internals/configs"
	"phqa_backend/internals/databases/testdb"
	studentModel "phqa_backend/internals/features/school/students/model"
	userModel "phqa_backend/internals/features/users/user/model"
	helper "phqa_backend/internals/helpers"
	"phqa_backend/internals/helpers/cache"
	helperOSS "phqa_backend/internals/helpers/oss"
)

const routeSecret = "route-test-secret"

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type envelope[T any] struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code"`
	Data      T      `json:"data"`
}

type server struct {
	app *fiber.App
	db  *gorm.DB
	fx  testdb.Fixture

	mu      sync.Mutex
	objects map[string][]byte
}

func newServer(t *testing.T) *server {
	t.Helper()
	configs.JWTSecret = routeSecret
	configs.StorageDriver = "memory"

	s := &server{objects: map[string][]byte{}}
	s.db = testdb.Open(t)
	s.fx = testdb.Seed(t, s.db, "Route School")

	blob := &helperOSS.MockBlobService{
		PutFn: func(_ context.Context, key, _ string, data []byte) (string, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.objects[key] = data
			return "/blob/" + key, nil
		},
		DeleteFn: func(_ context.Context, key string) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.objects, key)
			return nil
		},
	}

	s.app = fiber.New(fiber.Config{
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ErrorHandler: helper.FromFiberError,
	})
	SetupRoutes(s.app, Deps{
		DB:    s.db,
		Blob:  blob,
		Cache: cache.NewAnalyticsCache(cache.NewMemoryStore(), time.Minute),
	})
	return s
}

func tokenFor(t *testing.T, u userModel.UserModel) string {
	t.Helper()
	claims := jwt.MapClaims{
		"id":         u.UserID.String(),
		"role":       string(u.UserRole),
		"is_primary": u.UserIsPrimary,
	}
	if u.UserSchoolID != nil {
		claims["school_id"] = u.UserSchoolID.String()
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(routeSecret))
	require.NoError(t, err)
	return tok
}

func (s *server) do(t *testing.T, req *http.Request, as *userModel.UserModel) *http.Response {
	t.Helper()
	if as != nil {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tokenFor(t, *as))
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (s *server) doJSON(t *testing.T, method, path string, body any, as *userModel.UserModel) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := sonic.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	return s.do(t, req, as)
}

func decode[T any](t *testing.T, resp *http.Response) envelope[T] {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out envelope[T]
	require.NoError(t, sonic.Unmarshal(raw, &out), string(raw))
	return out
}

func importBody(code string, answer int) map[string]any {
	row := map[string]any{
		"student_code": code,
		"first_name":   "Nok",
		"last_name":    code,
		"class_name":   "ม.5/1",
	}
	for i := 1; i <= 9; i++ {
		row[fmt.Sprintf("q%d", i)] = answer
	}
	return map[string]any{
		"academic_year": 2567,
		"semester":      1,
		"round":         1,
		"rows":          []map[string]any{row},
	}
}

func TestHealthIsPublic(t *testing.T) {
	s := newServer(t)
	resp := s.do(t, httptest.NewRequest(http.MethodGet, "/health", nil), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAPIRequiresToken(t *testing.T) {
	s := newServer(t)
	resp := s.doJSON(t, http.MethodGet, "/api/analytics/summary", nil, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	out := decode[any](t, resp)
	assert.False(t, out.Success)
	assert.Equal(t, "UNAUTHORIZED", out.ErrorCode)
}

func TestImportThenWorkActivitiesOverHTTP(t *testing.T) {
	s := newServer(t)
	admin, teacher := s.fx.Admin, s.fx.Teacher

	// import: semua jawaban 1 → skor 9 → green
	resp := s.doJSON(t, http.MethodPost, "/api/phq/import", importBody("S-001", 1), &admin)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	sum := decode[struct {
		Imported int `json:"imported"`
		Failed   int `json:"failed"`
		Rows     []struct {
			RiskLevel         string `json:"risk_level"`
			ActivitiesCreated int    `json:"activities_created"`
		} `json:"rows"`
	}](t, resp)
	assert.Equal(t, 1, sum.Data.Imported)
	assert.Equal(t, 0, sum.Data.Failed)
	require.Len(t, sum.Data.Rows, 1)
	assert.Equal(t, "green", sum.Data.Rows[0].RiskLevel)
	assert.Equal(t, 3, sum.Data.Rows[0].ActivitiesCreated)

	var student studentModel.StudentModel
	require.NoError(t, s.db.Where("student_code = ?", "S-001").Take(&student).Error)

	// guru kelas melihat aktivitas siswanya
	resp = s.doJSON(t, http.MethodGet, "/api/students/"+student.StudentID.String()+"/activities", nil, &teacher)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	acts := decode[struct {
		Activities []struct {
			ID     string `json:"activity_progress_id"`
			Number int    `json:"activity_progress_number"`
			Status string `json:"activity_progress_status"`
		} `json:"activities"`
	}](t, resp)
	require.Len(t, acts.Data.Activities, 3)
	first := acts.Data.Activities[0]
	assert.Equal(t, 1, first.Number)
	assert.Equal(t, "in_progress", first.Status)

	// upload worksheet multipart
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="file"; filename="page1.png"`)
	h.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(pngBytes)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/activities/"+first.ID+"/worksheets", &buf)
	req.Header.Set(fiber.HeaderContentType, mw.FormDataContentType())
	resp = s.do(t, req, &teacher)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	up := decode[struct {
		UploadedCount int  `json:"uploaded_count"`
		Completed     bool `json:"completed"`
	}](t, resp)
	assert.Equal(t, 1, up.Data.UploadedCount)
	assert.False(t, up.Data.Completed)
	s.mu.Lock()
	assert.Len(t, s.objects, 1)
	s.mu.Unlock()

	// analytics guru: hanya kelasnya, siswa tadi terhitung
	resp = s.doJSON(t, http.MethodGet, "/api/analytics/summary", nil, &teacher)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	snap := decode[struct {
		Distribution struct {
			TotalStudents    int `json:"total_students"`
			AssessedStudents int `json:"assessed_students"`
		} `json:"distribution"`
	}](t, resp)
	assert.Equal(t, 1, snap.Data.Distribution.TotalStudents)
	assert.Equal(t, 1, snap.Data.Distribution.AssessedStudents)

	// guru tidak boleh hapus siswa, admin boleh
	resp = s.doJSON(t, http.MethodDelete, "/api/students/"+student.StudentID.String(), nil, &teacher)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = s.doJSON(t, http.MethodDelete, "/api/students/"+student.StudentID.String(), nil, &admin)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	s.mu.Lock()
	assert.Empty(t, s.objects)
	s.mu.Unlock()
}

func TestImportValidationOverHTTP(t *testing.T) {
	s := newServer(t)
	admin := s.fx.Admin

	body := importBody("S-002", 1)
	body["semester"] = 3
	resp := s.doJSON(t, http.MethodPost, "/api/phq/import", body, &admin)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	out := decode[any](t, resp)
	assert.Equal(t, "VALIDATION_ERROR", out.ErrorCode)
}

func TestChangeRoleRejectsUnknownRole(t *testing.T) {
	s := newServer(t)
	admin := s.fx.Admin

	resp := s.doJSON(t, http.MethodPatch, "/api/users/"+s.fx.Teacher.UserID.String()+"/role",
		map[string]any{"role": "system_admin"}, &admin)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}
