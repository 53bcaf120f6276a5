package handlers

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/arjunvsingh/CareerExchange/internal/models"
	"github.com/arjunvsingh/CareerExchange/internal/services"
	"github.com/gin-gonic/gin"
)

var bidColumns = []string{"id", "job_id", "user_id", "rate", "proposal", "availability", "status", "created_at", "updated_at"}

func newBidsRouter(h *BidHandler, user models.User) *gin.Engine {
	router := gin.New()
	authed := router.Group("/", withTestUser(user))
	authed.POST("/jobs/:id/bids", h.CreateBid)
	authed.GET("/jobs/:id/bids", h.ListJobBids)
	authed.GET("/jobs/:id/bids/:bidId", h.GetBid)
	authed.PATCH("/jobs/:id/bids/:bidId/status", h.UpdateBidStatus)
	authed.POST("/bids", h.CreateBidForJob)
	authed.GET("/bids/my-bids", h.ListMyBids)
	authed.PATCH("/bids/:bidId/status", h.UpdateBidStatusByID)
	return router
}

func expectOwner(mock sqlmock.Sqlmock, jobID, ownerID int) {
	mock.ExpectQuery(`SELECT employer_id FROM jobs WHERE id = \$1`).
		WithArgs(jobID).
		WillReturnRows(sqlmock.NewRows([]string{"employer_id"}).AddRow(ownerID))
}

func TestCreateBidHandlerBinding(t *testing.T) {
	db, _, cleanup := setupMockDB(t)
	defer cleanup()
	router := newBidsRouter(&BidHandler{Bids: services.NewBidService(db, nil)}, testApplicant)

	cases := []struct {
		body    string
		message string
	}{
		{`{"proposal":"p","availability":"Immediate"}`, "rate is required"},
		{`{"rate":0,"proposal":"p","availability":"Immediate"}`, "rate must be greater than 0"},
		{`{"rate":"fifty","proposal":"p","availability":"Immediate"}`, "rate has an invalid type"},
		{`{"rate":50,"availability":"Immediate"}`, "proposal is required"},
		{`{"rate":50,"proposal":"p"}`, "availability is required"},
	}
	for _, tc := range cases {
		w := performJSON(router, http.MethodPost, "/jobs/11/bids", tc.body)
		mustError(t, w, http.StatusBadRequest, tc.message)
	}

	w := performJSON(router, http.MethodPost, "/bids", `{"rate":50,"proposal":"p","availability":"Immediate"}`)
	mustError(t, w, http.StatusBadRequest, "job_id is required")
}

func TestCreateBidHandlerPlacesPendingBid(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	router := newBidsRouter(&BidHandler{Bids: services.NewBidService(db, nil)}, testApplicant)

	for _, path := range []string{"/jobs/11/bids", "/bids"} {
		expectOwner(mock, 11, testEmployer.ID)
		mock.ExpectQuery(`INSERT INTO bids`).
			WithArgs(11, testApplicant.ID, 50.0, "I can start now", "Immediate", "pending").
			WillReturnRows(sqlmock.NewRows(bidColumns).
				AddRow(31, 11, testApplicant.ID, "50.00", "I can start now", "Immediate", "pending", testTime, testTime))

		w := performJSON(router, http.MethodPost, path,
			`{"job_id":11,"rate":50,"proposal":"I can start now","availability":"Immediate"}`)
		mustStatus(t, w.Code, http.StatusCreated)

		var bid models.Bid
		decodeData(t, decodeEnvelope(t, w), &bid)
		if bid.ID != 31 || bid.Status != models.BidPending || bid.Rate != 50 {
			t.Fatalf("unexpected bid from %s: %+v", path, bid)
		}
	}
}

func TestCreateBidHandlerUnknownJob(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	router := newBidsRouter(&BidHandler{Bids: services.NewBidService(db, nil)}, testApplicant)

	mock.ExpectQuery(`SELECT employer_id FROM jobs WHERE id = \$1`).
		WithArgs(404).
		WillReturnRows(sqlmock.NewRows([]string{"employer_id"}))

	w := performJSON(router, http.MethodPost, "/jobs/404/bids", `{"rate":50,"proposal":"p","availability":"Immediate"}`)
	mustError(t, w, http.StatusNotFound, "Job not found")
}

func TestUpdateBidStatusHandlerChecksStatusFirst(t *testing.T) {
	db, _, cleanup := setupMockDB(t)
	defer cleanup()
	router := newBidsRouter(&BidHandler{Bids: services.NewBidService(db, nil)}, testApplicant)

	const message = "status must be one of pending, accepted, rejected"
	for _, path := range []string{"/jobs/11/bids/31/status", "/jobs/x/bids/y/status", "/bids/31/status", "/bids/zzz/status"} {
		w := performJSON(router, http.MethodPatch, path, `{"status":"hired"}`)
		mustError(t, w, http.StatusBadRequest, message)
	}

	w := performJSON(router, http.MethodPatch, "/jobs/x/bids/31/status", `{"status":"accepted"}`)
	mustError(t, w, http.StatusBadRequest, "Invalid job ID")
}

func TestUpdateBidStatusHandler(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	bids := services.NewBidService(db, nil)

	expectOwner(mock, 11, testEmployer.ID)
	mock.ExpectQuery(`UPDATE bids`).
		WithArgs("accepted", 31, 11).
		WillReturnRows(sqlmock.NewRows(bidColumns).
			AddRow(31, 11, testApplicant.ID, "50", "p", "Immediate", "accepted", testTime, testTime))

	w := performJSON(newBidsRouter(&BidHandler{Bids: bids}, testEmployer), http.MethodPatch, "/jobs/11/bids/31/status", `{"status":"accepted"}`)
	expectHTTP200(t, w.Code)
	var bid models.Bid
	decodeData(t, decodeEnvelope(t, w), &bid)
	if bid.Status != models.BidAccepted {
		t.Fatalf("expected accepted, got %q", bid.Status)
	}

	expectOwner(mock, 11, testEmployer.ID)
	w = performJSON(newBidsRouter(&BidHandler{Bids: bids}, testApplicant), http.MethodPatch, "/jobs/11/bids/31/status", `{"status":"rejected"}`)
	mustError(t, w, http.StatusForbidden, "You don't have permission to update bids for this job")
}

func TestListBidsHandlers(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	bids := services.NewBidService(db, nil)

	expectOwner(mock, 11, testEmployer.ID)
	mock.ExpectQuery(`WHERE b.job_id = \$1`).
		WithArgs(11).
		WillReturnRows(sqlmock.NewRows(append(append([]string{}, bidColumns...), "applicant_name")).
			AddRow(31, 11, testApplicant.ID, "50", "p", "Immediate", "pending", testTime, testTime, "Ada Applicant"))

	w := performJSON(newBidsRouter(&BidHandler{Bids: bids}, testEmployer), http.MethodGet, "/jobs/11/bids", "")
	expectHTTP200(t, w.Code)
	var listed []models.Bid
	decodeData(t, decodeEnvelope(t, w), &listed)
	if len(listed) != 1 || listed[0].ApplicantName != "Ada Applicant" {
		t.Fatalf("unexpected bids: %+v", listed)
	}

	mock.ExpectQuery(`WHERE b.user_id = \$1`).
		WithArgs(testApplicant.ID).
		WillReturnRows(sqlmock.NewRows(append(append([]string{}, bidColumns...), "job_title", "company")))

	w = performJSON(newBidsRouter(&BidHandler{Bids: bids}, testApplicant), http.MethodGet, "/bids/my-bids", "")
	expectHTTP200(t, w.Code)
	if got := string(decodeEnvelope(t, w).Data); got != "[]" {
		t.Fatalf("expected empty list, got %s", got)
	}

	expectOwner(mock, 11, testEmployer.ID)
	w = performJSON(newBidsRouter(&BidHandler{Bids: bids}, testApplicant), http.MethodGet, "/jobs/11/bids", "")
	mustError(t, w, http.StatusForbidden, "You don't have permission to view bids for this job")
}

func TestGetBidHandler(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	router := newBidsRouter(&BidHandler{Bids: services.NewBidService(db, nil)}, testApplicant)

	columns := append(append([]string{}, bidColumns...), "applicant_name", "job_title", "company", "employer_id")
	mock.ExpectQuery(`WHERE b.id = \$1 AND b.job_id = \$2`).
		WithArgs(31, 11).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(31, 11, testApplicant.ID, "50", "p", "Immediate", "pending", testTime, testTime, "Ada Applicant", "Backend Developer", "Acme", testEmployer.ID))

	w := performJSON(router, http.MethodGet, "/jobs/11/bids/31", "")
	expectHTTP200(t, w.Code)
	var bid models.Bid
	decodeData(t, decodeEnvelope(t, w), &bid)
	if bid.JobTitle != "Backend Developer" || bid.Company != "Acme" {
		t.Fatalf("unexpected bid: %+v", bid)
	}
}
