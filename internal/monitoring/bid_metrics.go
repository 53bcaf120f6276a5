package monitoring

import (
	"sync/atomic"

	"github.com/arjunvsingh/CareerExchange/internal/models"
)

var bidsPlacedTotal atomic.Uint64
var bidsAcceptedTotal atomic.Uint64
var bidsRejectedTotal atomic.Uint64
var bidsReopenedTotal atomic.Uint64

type BidStats struct {
	PlacedTotal   uint64 `json:"placed_total"`
	AcceptedTotal uint64 `json:"accepted_total"`
	RejectedTotal uint64 `json:"rejected_total"`
	ReopenedTotal uint64 `json:"reopened_total"`
}

// RecordBidPlaced counts a successfully stored bid.
func RecordBidPlaced() {
	bidsPlacedTotal.Add(1)
}

// RecordBidStatusChange counts a status update by its target status.
func RecordBidStatusChange(status models.BidStatus) {
	switch status {
	case models.BidAccepted:
		bidsAcceptedTotal.Add(1)
	case models.BidRejected:
		bidsRejectedTotal.Add(1)
	case models.BidPending:
		bidsReopenedTotal.Add(1)
	}
}

func GetBidStats() BidStats {
	return BidStats{
		PlacedTotal:   bidsPlacedTotal.Load(),
		AcceptedTotal: bidsAcceptedTotal.Load(),
		RejectedTotal: bidsRejectedTotal.Load(),
		ReopenedTotal: bidsReopenedTotal.Load(),
	}
}
