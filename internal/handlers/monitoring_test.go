package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/arjunvsingh/CareerExchange/internal/monitoring"
	"github.com/gin-gonic/gin"
)

func newMonitoringRouter(h *MonitoringHandler) *gin.Engine {
	router := gin.New()
	router.GET("/monitor/status", h.MonitorStatus)
	router.GET("/monitor/snapshot", h.MonitorSnapshot)
	return router
}

func monitorRequest(router http.Handler, path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if key != "" {
		req.Header.Set(monitoringKeyHeader, key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestMonitoringRequiresKey(t *testing.T) {
	db, _, cleanup := setupMockDB(t)
	defer cleanup()
	service := monitoring.NewService(db, time.Now())

	disabled := newMonitoringRouter(&MonitoringHandler{Service: service})
	mustError(t, monitorRequest(disabled, "/monitor/snapshot", "anything"), http.StatusServiceUnavailable, "Monitoring API is disabled")

	enabled := newMonitoringRouter(&MonitoringHandler{Service: service, APIKey: "ops-secret"})
	mustError(t, monitorRequest(enabled, "/monitor/snapshot", ""), http.StatusUnauthorized, "Invalid monitoring key")
	mustError(t, monitorRequest(enabled, "/monitor/status", "wrong"), http.StatusUnauthorized, "Invalid monitoring key")
}

func TestMonitorStatusText(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	mock.ExpectPing()

	router := newMonitoringRouter(&MonitoringHandler{Service: monitoring.NewService(db, time.Now()), APIKey: "ops-secret"})
	w := monitorRequest(router, "/monitor/status", "ops-secret")
	expectHTTP200(t, w.Code)
	if !strings.Contains(w.Body.String(), "DB: ok") {
		t.Fatalf("expected database state in status text, got %q", w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}
