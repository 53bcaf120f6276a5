package handlers

import (
	"net/http"

	"github.com/arjunvsingh/CareerExchange/internal/models"
	"github.com/arjunvsingh/CareerExchange/internal/services"
	"github.com/gin-gonic/gin"
)

type BidHandler struct {
	Responder
	Bids *services.BidService
}

// Rate is a pointer so a missing value is told apart from zero.
type bidRequest struct {
	Rate         *float64 `json:"rate" binding:"required,gt=0"`
	Proposal     string   `json:"proposal" binding:"required"`
	Availability string   `json:"availability" binding:"required"`
}

func (r bidRequest) input() models.BidInput {
	in := models.BidInput{Proposal: r.Proposal, Availability: r.Availability}
	if r.Rate != nil {
		in.Rate = *r.Rate
	}
	return in
}

type jobBidRequest struct {
	JobID int `json:"job_id" binding:"required,gt=0"`
	bidRequest
}

type bidStatusRequest struct {
	Status string `json:"status"`
}

// CreateBid places a bid on the job named in the path
func (h *BidHandler) CreateBid(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	jobID, err := parseIDParam(c, "id", "job")
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req bidRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	h.createBid(c, user, jobID, req)
}

// CreateBidForJob places a bid on the job named by job_id in the body
func (h *BidHandler) CreateBidForJob(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req jobBidRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	h.createBid(c, user, req.JobID, req.bidRequest)
}

func (h *BidHandler) createBid(c *gin.Context, user models.User, jobID int, req bidRequest) {
	bid, err := h.Bids.CreateBid(c.Request.Context(), user, jobID, req.input())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, bid)
}

func (h *BidHandler) ListJobBids(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	jobID, err := parseIDParam(c, "id", "job")
	if err != nil {
		h.respondError(c, err)
		return
	}

	bids, err := h.Bids.ListBidsForJob(c.Request.Context(), jobID, user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, bids)
}

func (h *BidHandler) ListMyBids(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	bids, err := h.Bids.ListBidsForApplicant(c.Request.Context(), user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, bids)
}

func (h *BidHandler) GetBid(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	jobID, err := parseIDParam(c, "id", "job")
	if err != nil {
		h.respondError(c, err)
		return
	}
	bidID, err := parseIDParam(c, "bidId", "bid")
	if err != nil {
		h.respondError(c, err)
		return
	}

	bid, err := h.Bids.GetBidDetails(c.Request.Context(), jobID, bidID, user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, bid)
}

// UpdateBidStatus handles PATCH /jobs/:id/bids/:bidId/status
func (h *BidHandler) UpdateBidStatus(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req bidStatusRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	// Malformed ids parse as 0; the service rejects them only after checking the status.
	jobID, _ := parseIDParam(c, "id", "job")
	bidID, _ := parseIDParam(c, "bidId", "bid")

	bid, err := h.Bids.UpdateBidStatus(c.Request.Context(), jobID, bidID, req.Status, user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, bid)
}

// UpdateBidStatusByID handles PATCH /bids/:bidId/status
func (h *BidHandler) UpdateBidStatusByID(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req bidStatusRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	bidID, _ := parseIDParam(c, "bidId", "bid")

	bid, err := h.Bids.UpdateBidStatusByID(c.Request.Context(), bidID, req.Status, user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, bid)
}
