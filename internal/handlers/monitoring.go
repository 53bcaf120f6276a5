package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/arjunvsingh/CareerExchange/internal/monitoring"
	"github.com/gin-gonic/gin"
)

const monitoringKeyHeader = "X-Monitoring-Key"

// MonitoringHandler exposes runtime and marketplace metrics to operators holding APIKey.
type MonitoringHandler struct {
	Service *monitoring.Service
	APIKey  string
}

func (h *MonitoringHandler) checkMonitoringToken(c *gin.Context) bool {
	expected := strings.TrimSpace(h.APIKey)
	if expected == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Monitoring API is disabled"})
		return false
	}

	provided := strings.TrimSpace(c.GetHeader(monitoringKeyHeader))
	if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid monitoring key"})
		return false
	}
	return true
}

func (h *MonitoringHandler) MonitorStatus(c *gin.Context) {
	if !h.checkMonitoringToken(c) {
		return
	}
	c.String(http.StatusOK, h.Service.StatusText(c.Request.Context()))
}

func (h *MonitoringHandler) MonitorSnapshot(c *gin.Context) {
	if !h.checkMonitoringToken(c) {
		return
	}
	respondOK(c, http.StatusOK, h.Service.Snapshot(c.Request.Context()))
}
