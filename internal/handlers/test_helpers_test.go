package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/arjunvsingh/CareerExchange/internal/middleware"
	"github.com/arjunvsingh/CareerExchange/internal/models"
	"github.com/arjunvsingh/CareerExchange/internal/services"
	"github.com/arjunvsingh/CareerExchange/internal/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "careerexchange_test_jwt_secret_key_1234567890"

var (
	testEmployer  = models.User{ID: 7, Name: "Erin Employer", Email: "erin@example.com", Role: models.RoleEmployer}
	testApplicant = models.User{ID: 21, Name: "Ada Applicant", Email: "ada@example.com", Role: models.RoleApplicant}
	testTime      = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func init() {
	gin.SetMode(gin.TestMode)
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}

	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet sql expectations: %v", err)
		}
		_ = db.Close()
	}

	return db, mock, cleanup
}

func newTestAuthService(t *testing.T, db *sql.DB) *services.AuthService {
	t.Helper()
	tokens, err := utils.NewTokenManager(testJWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	return services.NewAuthService(db, tokens, bcrypt.MinCost)
}

func withTestUser(user models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetCurrentUser(c, user)
		c.Next()
	}
}

func performJSON(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return env
}

func decodeData(t *testing.T, env envelope, dst any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}

func mustStatus(t *testing.T, actual int, expected int) {
	t.Helper()
	if actual != expected {
		t.Fatalf("expected status %d, got %d", expected, actual)
	}
}

func expectHTTP200(t *testing.T, status int) {
	t.Helper()
	mustStatus(t, status, http.StatusOK)
}

func mustError(t *testing.T, w *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	mustStatus(t, w.Code, status)
	env := decodeEnvelope(t, w)
	if env.Success {
		t.Fatalf("expected success=false, got %s", w.Body.String())
	}
	if env.Error != message {
		t.Fatalf("expected error %q, got %q", message, env.Error)
	}
}
