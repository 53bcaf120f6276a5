package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arjunvsingh/CareerExchange/internal/apperrors"
	"github.com/arjunvsingh/CareerExchange/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthenticator struct {
	users map[string]models.User
	err   error
}

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	user, ok := s.users[token]
	if !ok {
		return nil, apperrors.Unauthenticated("Invalid token")
	}
	return &user, nil
}

func newTestRouter(auth Authenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/me", AuthMiddleware(auth), func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
	})
	r.GET("/employers-only",
		AuthMiddleware(auth),
		RequireRole(models.RoleEmployer, "Only employers can do this"),
		func(c *gin.Context) { c.Status(http.StatusNoContent) },
	)
	return r
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthMiddleware(t *testing.T) {
	auth := stubAuthenticator{users: map[string]models.User{
		"employer-token":  {ID: 7, Name: "Erin", Role: models.RoleEmployer},
		"applicant-token": {ID: 21, Name: "Ada", Role: models.RoleApplicant},
	}}
	router := newTestRouter(auth)

	cases := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"missing header", "", http.StatusUnauthorized, "Access token required"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "Authorization header must be in the format 'Bearer {token}'"},
		{"unknown token", "Bearer nope", http.StatusUnauthorized, "Invalid token"},
		{"valid token", "Bearer employer-token", http.StatusOK, ""},
		{"lowercase scheme", "bearer applicant-token", http.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tc.status, w.Code)
			body := decodeEnvelope(t, w)
			if tc.message != "" {
				assert.Equal(t, false, body["success"])
				assert.Equal(t, tc.message, body["error"])
			} else {
				assert.Equal(t, true, body["success"])
			}
		})
	}
}

func TestAuthMiddlewareHidesBackendFailures(t *testing.T) {
	router := newTestRouter(stubAuthenticator{err: apperrors.Internal("Error retrieving user", errors.New("connection refused"))})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Authentication failed", decodeEnvelope(t, w)["error"])
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestRequireRole(t *testing.T) {
	auth := stubAuthenticator{users: map[string]models.User{
		"employer-token":  {ID: 7, Role: models.RoleEmployer},
		"applicant-token": {ID: 21, Role: models.RoleApplicant},
	}}
	router := newTestRouter(auth)

	req := httptest.NewRequest(http.MethodGet, "/employers-only", nil)
	req.Header.Set("Authorization", "Bearer applicant-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Only employers can do this", decodeEnvelope(t, w)["error"])

	req = httptest.NewRequest(http.MethodGet, "/employers-only", nil)
	req.Header.Set("Authorization", "Bearer employer-token")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	router := newTestRouter(stubAuthenticator{})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(requestIDHeaderName, "  client-supplied-id ")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "client-supplied-id", w.Header().Get(requestIDHeaderName))

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	_, err := uuid.Parse(w.Header().Get(requestIDHeaderName))
	assert.NoError(t, err)

	long := strings.Repeat("x", maxRequestIDLength+20)
	assert.Len(t, normalizeRequestID(long), maxRequestIDLength)
}
