package api

import (
	"net/http"
	"runtime"
	"sync/atomic"
	"time"
)

// apiMetrics holds in-process request counters. Counters are monotonic
// for the lifetime of the server process.
type apiMetrics struct {
	requestsTotal atomic.Uint64
	requests4xx   atomic.Uint64
	requests5xx   atomic.Uint64
	loginSuccess  atomic.Uint64
	loginFailure  atomic.Uint64
}

func (m *apiMetrics) record(status int) {
	m.requestsTotal.Add(1)
	switch {
	case status >= 500:
		m.requests5xx.Add(1)
	case status >= 400:
		m.requests4xx.Add(1)
	}
}

func (m *apiMetrics) recordLogin(success bool) {
	if success {
		m.loginSuccess.Add(1)
	} else {
		m.loginFailure.Add(1)
	}
}

// SystemMetrics represents the complete system metrics response.
type SystemMetrics struct {
	Timestamp     string         `json:"timestamp"`
	Version       string         `json:"version"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	Runtime       RuntimeMetrics `json:"runtime"`
	Requests      RequestMetrics `json:"requests"`
	Auth          AuthMetrics    `json:"auth"`
}

// RuntimeMetrics contains Go runtime statistics.
type RuntimeMetrics struct {
	Goroutines    int     `json:"goroutines"`
	MemoryAllocMB float64 `json:"memory_alloc_mb"`
	MemoryTotalMB float64 `json:"memory_total_mb"`
	NumGC         uint32  `json:"num_gc"`
}

// RequestMetrics contains HTTP request counters.
type RequestMetrics struct {
	Total       uint64 `json:"total"`
	ClientError uint64 `json:"client_error"`
	ServerError uint64 `json:"server_error"`
}

// AuthMetrics contains login outcome counters.
type AuthMetrics struct {
	LoginSuccess uint64 `json:"login_success"`
	LoginFailure uint64 `json:"login_failure"`
}

// handleMetrics returns system metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	metrics := SystemMetrics{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Version:       s.version,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Runtime: RuntimeMetrics{
			Goroutines:    runtime.NumGoroutine(),
			MemoryAllocMB: float64(memStats.Alloc) / 1024 / 1024,
			MemoryTotalMB: float64(memStats.TotalAlloc) / 1024 / 1024,
			NumGC:         memStats.NumGC,
		},
		Requests: RequestMetrics{
			Total:       s.metrics.requestsTotal.Load(),
			ClientError: s.metrics.requests4xx.Load(),
			ServerError: s.metrics.requests5xx.Load(),
		},
		Auth: AuthMetrics{
			LoginSuccess: s.metrics.loginSuccess.Load(),
			LoginFailure: s.metrics.loginFailure.Load(),
		},
	}

	writeJSON(w, http.StatusOK, metrics)
}
