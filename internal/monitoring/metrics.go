package monitoring

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// Service holds runtime context for monitoring and reporting.
type Service struct {
	db        *sql.DB
	startedAt time.Time
}

type Snapshot struct {
	TimestampUTC       string           `json:"timestamp_utc"`
	UptimeSeconds      int64            `json:"uptime_seconds"`
	HTTPActiveRequests int64            `json:"http_active_requests"`
	HTTPTotalRequests  uint64           `json:"http_total_requests"`
	HTTPFailedRequests uint64           `json:"http_failed_requests"`
	DBOpenConnections  int              `json:"db_open_connections"`
	DBInUseConnections int              `json:"db_in_use_connections"`
	DBWaitCount        int64            `json:"db_wait_count"`
	Goroutines         int              `json:"goroutines"`
	GoMemoryAllocBytes uint64           `json:"go_memory_alloc_bytes"`
	GoMemorySysBytes   uint64           `json:"go_memory_sys_bytes"`
	GoHeapInUseBytes   uint64           `json:"go_heap_in_use_bytes"`
	GoGCCount          uint32           `json:"go_gc_count"`
	UsersTotal         int64            `json:"users_total"`
	EmployersTotal     int64            `json:"employers_total"`
	ApplicantsTotal    int64            `json:"applicants_total"`
	JobsTotal          int64            `json:"jobs_total"`
	BidsTotal          int64            `json:"bids_total"`
	BidsByStatus       map[string]int64 `json:"bids_by_status"`
	BidCounters        BidStats         `json:"bid_counters"`
}

func NewService(db *sql.DB, startedAt time.Time) *Service {
	return &Service{db: db, startedAt: startedAt}
}

func (s *Service) StatusText(ctx context.Context) string {
	dbState := "ok"
	if err := s.db.PingContext(ctx); err != nil {
		dbState = "error: " + err.Error()
	}

	uptime := time.Since(s.startedAt).Round(time.Second)
	activeHTTP, totalHTTP, failedHTTP := getHTTPStats()
	generic := s.db.Stats()
	bids := GetBidStats()

	return strings.Join([]string{
		"CareerExchange Server Status",
		fmt.Sprintf("Uptime: %s", uptime),
		fmt.Sprintf("DB: %s", dbState),
		fmt.Sprintf("HTTP active requests: %d", activeHTTP),
		fmt.Sprintf("HTTP total requests: %d", totalHTTP),
		fmt.Sprintf("HTTP 5xx responses: %d", failedHTTP),
		fmt.Sprintf("DB open connections: %d", generic.OpenConnections),
		fmt.Sprintf("Bids placed since start: %d", bids.PlacedTotal),
		fmt.Sprintf("Bids accepted/rejected since start: %d/%d", bids.AcceptedTotal, bids.RejectedTotal),
		fmt.Sprintf("Go goroutines: %d", runtime.NumGoroutine()),
	}, "\n")
}

func (s *Service) Snapshot(ctx context.Context) Snapshot {
	stats := s.db.Stats()
	activeHTTP, totalHTTP, failedHTTP := getHTTPStats()

	var memory runtime.MemStats
	runtime.ReadMemStats(&memory)

	snap := Snapshot{
		TimestampUTC:       time.Now().UTC().Format(time.RFC3339),
		UptimeSeconds:      int64(time.Since(s.startedAt).Seconds()),
		HTTPActiveRequests: activeHTTP,
		HTTPTotalRequests:  totalHTTP,
		HTTPFailedRequests: failedHTTP,
		DBOpenConnections:  stats.OpenConnections,
		DBInUseConnections: stats.InUse,
		DBWaitCount:        stats.WaitCount,
		Goroutines:         runtime.NumGoroutine(),
		GoMemoryAllocBytes: memory.Alloc,
		GoMemorySysBytes:   memory.Sys,
		GoHeapInUseBytes:   memory.HeapInuse,
		GoGCCount:          memory.NumGC,
		BidsByStatus:       map[string]int64{},
		BidCounters:        GetBidStats(),
	}

	s.scanCount(ctx, `SELECT COUNT(*) FROM users`, &snap.UsersTotal)
	s.scanCount(ctx, `SELECT COUNT(*) FROM users WHERE role = 'employer'`, &snap.EmployersTotal)
	s.scanCount(ctx, `SELECT COUNT(*) FROM users WHERE role = 'applicant'`, &snap.ApplicantsTotal)
	s.scanCount(ctx, `SELECT COUNT(*) FROM jobs`, &snap.JobsTotal)
	s.scanCount(ctx, `SELECT COUNT(*) FROM bids`, &snap.BidsTotal)

	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM bids GROUP BY status`)
	if err != nil {
		log.WithError(err).Warn("Snapshot: bids by status query failed")
		return snap
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			log.WithError(err).Warn("Snapshot: scanning bids by status failed")
			return snap
		}
		snap.BidsByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		log.WithError(err).Warn("Snapshot: reading bids by status failed")
	}

	return snap
}

// scanCount leaves dest at zero when the query fails; the snapshot is best effort.
func (s *Service) scanCount(ctx context.Context, query string, dest *int64) {
	if err := s.db.QueryRowContext(ctx, query).Scan(dest); err != nil {
		log.WithError(err).WithField("query", query).Warn("Snapshot count failed")
	}
}
