package router

import (
	"strings"
	"time"

	"github.com/arjunvsingh/CareerExchange/internal/config"
	"github.com/arjunvsingh/CareerExchange/internal/handlers"
	"github.com/arjunvsingh/CareerExchange/internal/middleware"
	"github.com/arjunvsingh/CareerExchange/internal/models"
	"github.com/arjunvsingh/CareerExchange/internal/monitoring"
	"github.com/arjunvsingh/CareerExchange/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Deps struct {
	Config  *config.Config
	Auth    *services.AuthService
	Jobs    *services.JobService
	Bids    *services.BidService
	Monitor *monitoring.Service
}

// New builds the HTTP engine with every route mounted under /api.
func New(d Deps) *gin.Engine {
	if d.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(monitoring.RequestMetricsMiddleware())
	r.Use(cors.New(corsConfig(d.Config.CORSOrigins)))

	responder := handlers.Responder{ExposeInternalErrors: d.Config.ExposeInternalErrors()}
	authHandler := &handlers.AuthHandler{Responder: responder, Auth: d.Auth}
	jobHandler := &handlers.JobHandler{Responder: responder, Jobs: d.Jobs}
	bidHandler := &handlers.BidHandler{Responder: responder, Bids: d.Bids}
	monitorHandler := &handlers.MonitoringHandler{Service: d.Monitor, APIKey: d.Config.MonitoringAPIKey}

	authenticated := middleware.AuthMiddleware(d.Auth)
	employerOnly := middleware.RequireRole(models.RoleEmployer, "Only employers can perform this action")
	applicantOnly := middleware.RequireRole(models.RoleApplicant, "Only applicants can perform this action")

	api := r.Group("/api")
	{
		api.GET("/health", handlers.Health)
		api.GET("/status", handlers.Status)

		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/verify-token", authHandler.VerifyToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", authenticated, authHandler.Me)
		}

		jobs := api.Group("/jobs")
		{
			jobs.GET("", jobHandler.ListJobs)
			jobs.POST("", authenticated, employerOnly, jobHandler.CreateJob)
			jobs.GET("/my-posts", authenticated, employerOnly, jobHandler.ListMyJobs)
			jobs.GET("/:id", jobHandler.GetJob)
			jobs.PUT("/:id", authenticated, jobHandler.UpdateJob)
			jobs.DELETE("/:id", authenticated, jobHandler.DeleteJob)

			jobs.POST("/:id/bids", authenticated, applicantOnly, bidHandler.CreateBid)
			jobs.GET("/:id/bids", authenticated, bidHandler.ListJobBids)
			jobs.GET("/:id/bids/:bidId", authenticated, bidHandler.GetBid)
			jobs.PATCH("/:id/bids/:bidId/status", authenticated, bidHandler.UpdateBidStatus)
		}

		bids := api.Group("/bids", authenticated)
		{
			bids.POST("", applicantOnly, bidHandler.CreateBidForJob)
			bids.GET("/my-bids", applicantOnly, bidHandler.ListMyBids)
			bids.PATCH("/:bidId/status", bidHandler.UpdateBidStatusByID)
		}

		monitor := api.Group("/monitor")
		{
			monitor.GET("/status", monitorHandler.MonitorStatus)
			monitor.GET("/snapshot", monitorHandler.MonitorSnapshot)
		}
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	allowed := make([]string, 0, len(origins))
	for _, origin := range origins {
		// cors.New panics on origins without a scheme.
		if strings.HasPrefix(origin, "http://") || strings.HasPrefix(origin, "https://") {
			allowed = append(allowed, origin)
		}
	}

	cfg := cors.DefaultConfig()
	if len(allowed) > 0 {
		cfg.AllowOrigins = allowed
	} else {
		cfg.AllowAllOrigins = true
	}
	cfg.AllowCredentials = !cfg.AllowAllOrigins
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"}
	cfg.ExposeHeaders = []string{"X-Request-ID"}
	cfg.MaxAge = 12 * time.Hour
	return cfg
}
