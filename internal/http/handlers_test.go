package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"quizhub-backend-go/internal/config"
	"quizhub-backend-go/internal/migrations"
	"quizhub-backend-go/internal/services"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	database, err := sqlx.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	database.SetMaxOpenConns(1)
	if err := migrations.Apply(database); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	cfg := config.Config{
		AdminUsername: "admin@gmail.com",
		AdminPassword: "admin123",
	}
	if err := services.EnsureBootstrapAdmin(database, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		t.Fatalf("bootstrap admin: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return NewServer(database, cfg)
}

func postJSON(t *testing.T, handler http.Handler, path string, payload map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	decoded := map[string]any{}
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return decoded
}

func studentPayload(email, id, password, confirm string) map[string]string {
	return map[string]string{
		"studentName":            "Ada",
		"studentId":              id,
		"studentPhone":           "111",
		"studentDept":            "CS",
		"studentEmail":           email,
		"studentGender":          "female",
		"studentYear":            "2",
		"studentPassword":        password,
		"studentConfirmPassword": confirm,
	}
}

func TestRegisterLoginFlow(t *testing.T) {
	router := newTestServer(t).Router()

	rec := postJSON(t, router, "/register_student", studentPayload("ada@x.com", "S1", "p1", "p1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("register status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = postJSON(t, router, "/login_student", map[string]string{
		"studentLoginEmail":    "ada@x.com",
		"studentLoginPassword": "p1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	user, ok := body["user"].(map[string]any)
	if !ok {
		t.Fatalf("missing user in login response: %v", body)
	}
	if user["role"] != "student" || user["student_id"] != "S1" {
		t.Fatalf("unexpected user record: %v", user)
	}
	if _, leaked := user["password"]; leaked {
		t.Fatalf("login response contains password field")
	}

	rec = postJSON(t, router, "/login_student", map[string]string{
		"studentLoginEmail":    "ada@x.com",
		"studentLoginPassword": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password status = %d", rec.Code)
	}

	rec = postJSON(t, router, "/login_student", map[string]string{
		"studentLoginEmail":    "nobody@x.com",
		"studentLoginPassword": "p1",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unknown user status = %d", rec.Code)
	}
}

func TestRegisterPasswordMismatch(t *testing.T) {
	router := newTestServer(t).Router()

	rec := postJSON(t, router, "/register_student", studentPayload("ada@x.com", "S1", "p1", "p2"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeBody(t, rec)
	if !strings.Contains(body["message"].(string), "do not match") {
		t.Fatalf("unexpected message: %v", body)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	router := newTestServer(t).Router()

	if rec := postJSON(t, router, "/register_student", studentPayload("ada@x.com", "S1", "p1", "p1")); rec.Code != http.StatusOK {
		t.Fatalf("first register status = %d", rec.Code)
	}
	rec := postJSON(t, router, "/register_student", studentPayload("ada@x.com", "S2", "p1", "p1"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if !strings.Contains(body["message"].(string), "may already exist") {
		t.Fatalf("unexpected message: %v", body)
	}
}

func TestRegisterMissingField(t *testing.T) {
	router := newTestServer(t).Router()

	payload := studentPayload("ada@x.com", "S1", "p1", "p1")
	payload["studentDept"] = ""
	rec := postJSON(t, router, "/register_student", payload)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeBody(t, rec)
	if !strings.Contains(body["message"].(string), "studentDept") {
		t.Fatalf("message should name the missing field: %v", body)
	}
}

func TestRegisterStudentFormEncoded(t *testing.T) {
	router := newTestServer(t).Router()

	form := url.Values{}
	for key, value := range studentPayload("", "S7", "p1", "p1") {
		form.Set(key, value)
	}
	req := httptest.NewRequest(http.MethodPost, "/register_student", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("form register status = %d, body %s", rec.Code, rec.Body.String())
	}

	// Empty email falls back to the student id as username.
	rec = postJSON(t, router, "/login_student", map[string]string{
		"studentLoginEmail":    "S7",
		"studentLoginPassword": "p1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login with id-derived username status = %d", rec.Code)
	}
}

func TestStaffRegisterAndLogin(t *testing.T) {
	router := newTestServer(t).Router()

	rec := postJSON(t, router, "/register_staff", map[string]string{
		"staffName":            "Tara",
		"staffId":              "T1",
		"staffEmail":           "tara@x.com",
		"staffPhone":           "333",
		"staffDept":            "Math",
		"staffQualification":   "PhD",
		"staffExperience":      "5",
		"staffPassword":        "p2",
		"staffConfirmPassword": "p2",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("staff register status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = postJSON(t, router, "/login_staff", map[string]string{
		"staffLoginEmail":    "tara@x.com",
		"staffLoginPassword": "p2",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("staff login status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	user := body["user"].(map[string]any)
	if user["role"] != "staff" || user["staff_id"] != "T1" {
		t.Fatalf("unexpected staff record: %v", user)
	}
}

func TestAdminLoginAndListings(t *testing.T) {
	router := newTestServer(t).Router()

	rec := postJSON(t, router, "/login_admin", map[string]string{
		"adminLoginEmail":    "admin@gmail.com",
		"adminLoginPassword": "admin123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("admin login status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	user := body["user"].(map[string]any)
	if user["role"] != "admin" {
		t.Fatalf("unexpected admin record: %v", user)
	}

	for _, email := range []string{"a@x.com", "b@x.com"} {
		payload := studentPayload(email, "ID-"+email, "p1", "p1")
		if rec := postJSON(t, router, "/register_student", payload); rec.Code != http.StatusOK {
			t.Fatalf("register %s status = %d", email, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/students", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list students status = %d", rec.Code)
	}
	listing := decodeBody(t, rec)
	students, ok := listing["students"].([]any)
	if !ok || len(students) != 2 {
		t.Fatalf("unexpected students listing: %v", listing)
	}
	first := students[0].(map[string]any)
	if first["username"] != "b@x.com" {
		t.Fatalf("listing should be newest first, got %v", first["username"])
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/staff", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list staff status = %d", rec.Code)
	}
}

func TestGenerateQuizDisabledWithoutKey(t *testing.T) {
	router := newTestServer(t).Router()

	rec := postJSON(t, router, "/api/gen_ai/generate", map[string]string{"prompt": "solar system"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	router := newTestServer(t).Router()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("missing request id header")
	}
}
