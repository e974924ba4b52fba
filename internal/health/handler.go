package health

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"mintme-bridge/internal/httputil"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// InternalCheck validates the X-Internal-Token header value.
type InternalCheck func(token string) error

type Handler struct {
	pool      *pgxpool.Pool
	redis     Pinger
	startedAt time.Time
	httpAddr  string
	adapter   string
	internal  InternalCheck
}

// NewHandler builds the health handler. pool and redis may be nil when the
// gateway runs without them; adapterMode is reported as is.
func NewHandler(pool *pgxpool.Pool, redis Pinger, startedAt time.Time, httpAddr, adapterMode string, internal InternalCheck) *Handler {
	start := startedAt.UTC()
	if start.IsZero() {
		start = time.Now().UTC()
	}
	return &Handler{
		pool:      pool,
		redis:     redis,
		startedAt: start,
		httpAddr:  strings.TrimSpace(httpAddr),
		adapter:   strings.TrimSpace(adapterMode),
		internal:  internal,
	}
}

type dependencyStat struct {
	Configured bool   `json:"configured"`
	Reachable  bool   `json:"reachable"`
	PingMs     int64  `json:"ping_ms"`
	Error      string `json:"error,omitempty"`
	CheckedAt  string `json:"checked_at"`
}

// ok is true for reachable and for unconfigured dependencies.
func (d dependencyStat) ok() bool {
	return !d.Configured || d.Reachable
}

type liveResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	UptimeSec int64  `json:"uptime_sec"`
	Uptime    string `json:"uptime"`
}

type readinessResponse struct {
	Status    string         `json:"status"`
	Timestamp string         `json:"timestamp"`
	UptimeSec int64          `json:"uptime_sec"`
	Uptime    string         `json:"uptime"`
	Adapter   string         `json:"adapter"`
	Database  dependencyStat `json:"database"`
	Redis     dependencyStat `json:"redis"`
}

type poolStats struct {
	TotalConns    int32 `json:"total_conns"`
	IdleConns     int32 `json:"idle_conns"`
	AcquiredConns int32 `json:"acquired_conns"`
	MaxConns      int32 `json:"max_conns"`
	AcquireCount  int64 `json:"acquire_count"`
}

type runtimeStats struct {
	GoVersion  string `json:"go_version"`
	Goroutines int    `json:"goroutines"`
	GoMaxProcs int    `json:"gomaxprocs"`
	NumGC      uint32 `json:"num_gc"`
	AllocBytes uint64 `json:"alloc_bytes"`
	SysBytes   uint64 `json:"sys_bytes"`
}

type fullResponse struct {
	readinessResponse
	HTTPAddr string       `json:"http_addr"`
	PID      int          `json:"pid"`
	Hostname string       `json:"hostname"`
	Version  string       `json:"version"`
	Runtime  runtimeStats `json:"runtime"`
	Pool     *poolStats   `json:"pool,omitempty"`
}

func (h *Handler) uptime(now time.Time) time.Duration {
	uptime := now.Sub(h.startedAt)
	if uptime < 0 {
		return 0
	}
	return uptime
}

func ping(ctx context.Context, p Pinger) dependencyStat {
	if p == nil {
		return dependencyStat{CheckedAt: time.Now().UTC().Format(time.RFC3339)}
	}
	start := time.Now()
	pingCtx, cancel := context.WithTimeout(ctx, time.Second)
	err := p.Ping(pingCtx)
	cancel()
	stat := dependencyStat{
		Configured: true,
		Reachable:  err == nil,
		PingMs:     time.Since(start).Milliseconds(),
		CheckedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if err != nil {
		stat.Error = err.Error()
	}
	return stat
}

func (h *Handler) readiness(ctx context.Context) (readinessResponse, int) {
	now := time.Now().UTC()
	uptime := h.uptime(now)
	var dbPinger Pinger
	if h.pool != nil {
		dbPinger = h.pool
	}
	resp := readinessResponse{
		Status:    "ok",
		Timestamp: now.Format(time.RFC3339),
		UptimeSec: int64(uptime.Seconds()),
		Uptime:    uptime.String(),
		Adapter:   h.adapter,
		Database:  ping(ctx, dbPinger),
		Redis:     ping(ctx, h.redis),
	}
	if !resp.Database.ok() || !resp.Redis.ok() {
		resp.Status = "degraded"
		return resp, http.StatusServiceUnavailable
	}
	return resp, http.StatusOK
}

// Live does not touch any dependency.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	uptime := h.uptime(now)
	httputil.WriteJSON(w, http.StatusOK, liveResponse{
		Status:    "ok",
		Timestamp: now.Format(time.RFC3339),
		UptimeSec: int64(uptime.Seconds()),
		Uptime:    uptime.String(),
	})
}

// Ready pings the configured database and redis and answers 503 when either
// is unreachable.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	resp, status := h.readiness(r.Context())
	httputil.WriteJSON(w, status, resp)
}

func (h *Handler) requireInternalToken(w http.ResponseWriter, r *http.Request) bool {
	if h.internal == nil {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, httputil.ErrorResponse{Error: "internal token is not configured"})
		return false
	}
	if err := h.internal(strings.TrimSpace(r.Header.Get("X-Internal-Token"))); err != nil {
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "invalid internal token"})
		return false
	}
	return true
}

// Full returns process diagnostics and is protected by X-Internal-Token.
func (h *Handler) Full(w http.ResponseWriter, r *http.Request) {
	if !h.requireInternalToken(w, r) {
		return
	}
	ready, status := h.readiness(r.Context())

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	resp := fullResponse{
		readinessResponse: ready,
		HTTPAddr:          h.httpAddr,
		PID:               os.Getpid(),
		Runtime: runtimeStats{
			GoVersion:  runtime.Version(),
			Goroutines: runtime.NumGoroutine(),
			GoMaxProcs: runtime.GOMAXPROCS(0),
			NumGC:      mem.NumGC,
			AllocBytes: mem.Alloc,
			SysBytes:   mem.Sys,
		},
	}
	if host, err := os.Hostname(); err == nil {
		resp.Hostname = host
	}
	if info, ok := debug.ReadBuildInfo(); ok && info != nil {
		resp.Version = strings.TrimSpace(info.Main.Version)
	}
	if h.pool != nil {
		stat := h.pool.Stat()
		resp.Pool = &poolStats{
			TotalConns:    stat.TotalConns(),
			IdleConns:     stat.IdleConns(),
			AcquiredConns: stat.AcquiredConns(),
			MaxConns:      stat.MaxConns(),
			AcquireCount:  stat.AcquireCount(),
		}
	}
	httputil.WriteJSON(w, status, resp)
}

// Metrics writes Prometheus text format gauges and is protected by
// X-Internal-Token.
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	if !h.requireInternalToken(w, r) {
		return
	}
	ready, _ := h.readiness(r.Context())
	up := func(d dependencyStat) int {
		if d.Reachable {
			return 1
		}
		return 0
	}

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "# HELP mintme_bridge_up Service process is running.\n")
	_, _ = fmt.Fprintf(w, "# TYPE mintme_bridge_up gauge\n")
	_, _ = fmt.Fprintf(w, "mintme_bridge_up 1\n")
	_, _ = fmt.Fprintf(w, "mintme_bridge_uptime_seconds %d\n", ready.UptimeSec)
	_, _ = fmt.Fprintf(w, "# HELP mintme_bridge_db_up Database ping status (1=ok,0=down).\n")
	_, _ = fmt.Fprintf(w, "# TYPE mintme_bridge_db_up gauge\n")
	_, _ = fmt.Fprintf(w, "mintme_bridge_db_up %d\n", up(ready.Database))
	_, _ = fmt.Fprintf(w, "mintme_bridge_redis_up %d\n", up(ready.Redis))
	_, _ = fmt.Fprintf(w, "mintme_bridge_go_goroutines %d\n", runtime.NumGoroutine())
}
