package handlers

import (
	"net/http"

	"github.com/arjunvsingh/CareerExchange/internal/models"
	"github.com/arjunvsingh/CareerExchange/internal/services"
	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	Responder
	Jobs *services.JobService
}

type jobRequest struct {
	Title        string `json:"title" binding:"required"`
	Company      string `json:"company" binding:"required"`
	Description  string `json:"description" binding:"required"`
	Skills       string `json:"skills" binding:"required"`
	Timeline     string `json:"timeline" binding:"required"`
	Requirements string `json:"requirements"`
}

func (r jobRequest) input() models.JobInput {
	return models.JobInput{
		Title:        r.Title,
		Company:      r.Company,
		Description:  r.Description,
		Skills:       r.Skills,
		Timeline:     r.Timeline,
		Requirements: r.Requirements,
	}
}

// CreateJob posts a new job owned by the calling employer
func (h *JobHandler) CreateJob(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req jobRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	job, err := h.Jobs.CreateJob(c.Request.Context(), user, req.input())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, job)
}

// ListJobs returns the public job feed
func (h *JobHandler) ListJobs(c *gin.Context) {
	filter := parseJobFilter(c.Query("search"), c.Query("limit"), c.Query("offset"))

	jobs, err := h.Jobs.ListJobs(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, jobs)
}

func (h *JobHandler) GetJob(c *gin.Context) {
	id, err := parseIDParam(c, "id", "job")
	if err != nil {
		h.respondError(c, err)
		return
	}

	job, err := h.Jobs.GetJob(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, job)
}

// ListMyJobs returns the jobs posted by the calling employer
func (h *JobHandler) ListMyJobs(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	jobs, err := h.Jobs.ListJobsByEmployer(c.Request.Context(), user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, jobs)
}

func (h *JobHandler) UpdateJob(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	id, err := parseIDParam(c, "id", "job")
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req jobRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	job, err := h.Jobs.UpdateJob(c.Request.Context(), id, user, req.input())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, job)
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	id, err := parseIDParam(c, "id", "job")
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.Jobs.DeleteJob(c.Request.Context(), id, user); err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"id": id, "message": "Job deleted"})
}
