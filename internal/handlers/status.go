package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	serviceName    = "CareerExchange API"
	serviceVersion = "1.0.0"
)

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": serviceName,
		"version": serviceVersion,
		"status":  "operational",
	})
}
