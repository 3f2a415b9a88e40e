package core

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
)

// WorkerStats are the per-worker hot-path counters. Workers write them
// from their own thread; the stats endpoint reads them from another,
// hence atomics.
type WorkerStats struct {
	Accepted         atomic.Uint64
	Closed           atomic.Uint64
	Requests         atomic.Uint64
	StatusOK         atomic.Uint64
	StatusNotFound   atomic.Uint64
	StatusBadRequest atomic.Uint64
	ReadErrors       atomic.Uint64
	WriteErrors      atomic.Uint64
	ParseErrors      atomic.Uint64
	AcceptErrors     atomic.Uint64
}

func (s *WorkerStats) snapshot() WorkerSnapshot {
	return WorkerSnapshot{
		Accepted:         s.Accepted.Load(),
		Closed:           s.Closed.Load(),
		Requests:         s.Requests.Load(),
		StatusOK:         s.StatusOK.Load(),
		StatusNotFound:   s.StatusNotFound.Load(),
		StatusBadRequest: s.StatusBadRequest.Load(),
		ReadErrors:       s.ReadErrors.Load(),
		WriteErrors:      s.WriteErrors.Load(),
		ParseErrors:      s.ParseErrors.Load(),
		AcceptErrors:     s.AcceptErrors.Load(),
	}
}

// PoolSnapshot mirrors a free-list pool's counters.
type PoolSnapshot struct {
	Gets    uint64  `json:"gets"`
	Puts    uint64  `json:"puts"`
	HitRate float64 `json:"hit_rate"`
}

// WorkerSnapshot is one worker's counters at a point in time.
type WorkerSnapshot struct {
	Worker           int          `json:"worker"`
	Accepted         uint64       `json:"accepted"`
	Closed           uint64       `json:"closed"`
	Requests         uint64       `json:"requests"`
	StatusOK         uint64       `json:"status_200"`
	StatusNotFound   uint64       `json:"status_404"`
	StatusBadRequest uint64       `json:"status_400"`
	ReadErrors       uint64       `json:"read_errors"`
	WriteErrors      uint64       `json:"write_errors"`
	ParseErrors      uint64       `json:"parse_errors"`
	AcceptErrors     uint64       `json:"accept_errors"`
	SessionPool      PoolSnapshot `json:"session_pool"`
	BufferPool       PoolSnapshot `json:"buffer_pool"`
	MappedFiles      uint64       `json:"mapped_files"`
	MappedBytes      uint64       `json:"mapped_bytes"`
}

// EngineStats aggregates every worker.
type EngineStats struct {
	Workers []WorkerSnapshot `json:"workers"`
	Total   WorkerSnapshot   `json:"total"`
}

// Stats snapshots all workers.
func (e *Engine) Stats() EngineStats {
	stats := EngineStats{Workers: make([]WorkerSnapshot, 0, len(e.workers))}
	for _, w := range e.workers {
		snap := w.Snapshot()
		stats.Workers = append(stats.Workers, snap)

		t := &stats.Total
		t.Accepted += snap.Accepted
		t.Closed += snap.Closed
		t.Requests += snap.Requests
		t.StatusOK += snap.StatusOK
		t.StatusNotFound += snap.StatusNotFound
		t.StatusBadRequest += snap.StatusBadRequest
		t.ReadErrors += snap.ReadErrors
		t.WriteErrors += snap.WriteErrors
		t.ParseErrors += snap.ParseErrors
		t.AcceptErrors += snap.AcceptErrors
		t.MappedFiles += snap.MappedFiles
		t.MappedBytes += snap.MappedBytes
	}
	stats.Total.Worker = -1
	return stats
}

// StatsJSON renders the aggregate as indented JSON.
func (e *Engine) StatsJSON() string {
	data, _ := json.MarshalIndent(e.Stats(), "", "  ")
	return string(data)
}

// StatsText renders a human-readable summary.
func (e *Engine) StatsText() string {
	s := e.Stats()
	return fmt.Sprintf(`FastBeast Statistics
====================

Workers:       %d
Connections:   %d accepted, %d closed
Requests:      %d (%d 200, %d 404, %d 400)
Errors:        %d read, %d write, %d parse, %d accept
Mapped files:  %d (%d bytes)
`,
		len(s.Workers),
		s.Total.Accepted, s.Total.Closed,
		s.Total.Requests, s.Total.StatusOK, s.Total.StatusNotFound, s.Total.StatusBadRequest,
		s.Total.ReadErrors, s.Total.WriteErrors, s.Total.ParseErrors, s.Total.AcceptErrors,
		s.Total.MappedFiles, s.Total.MappedBytes,
	)
}
