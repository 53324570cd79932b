// Package api implements the solver's HTTP endpoints on top of gin,
// plus the supplementary per-job websocket progress stream.
//
// SetupRouter follows a CORS-middleware-then-route-groups shape, and
// the websocket broadcast follows the same pattern of turning a
// domain event into a JSON payload pushed through a Hub that's used
// elsewhere for event broadcast, here re-pointed at job lifecycle
// events.
package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sulozor/temple-solver/internal/catalogue"
	"github.com/sulozor/temple-solver/internal/config"
	"github.com/sulozor/temple-solver/internal/feasibility"
	"github.com/sulozor/temple-solver/internal/orchestrator"
	"github.com/sulozor/temple-solver/internal/puzzle"
	"github.com/sulozor/temple-solver/internal/telemetry"
)

// Handler holds every dependency the route handlers need.
type Handler struct {
	orch      *orchestrator.Orchestrator
	cat       *catalogue.Catalogue
	cfg       config.Config
	log       *telemetry.Logger
	startedAt time.Time

	mu   sync.Mutex
	hubs map[string]*Hub
}

// NewHandler builds a Handler wired to orch and cat. cfg supplies the
// policy constants /status reports and the /admin shared secret.
func NewHandler(orch *orchestrator.Orchestrator, cat *catalogue.Catalogue, cfg config.Config, log *telemetry.Logger) *Handler {
	return &Handler{
		orch:      orch,
		cat:       cat,
		cfg:       cfg,
		log:       log.Component("api"),
		startedAt: time.Now(),
		hubs:      make(map[string]*Hub),
	}
}

// SetupRouter builds the gin.Engine serving every solver route,
// CORS-enabled for allowedOrigins. metricsHandler may be nil, in
// which case /metrics 404s — callers that care about telemetry pass
// telemetry.Metrics.Handler().
func SetupRouter(h *Handler, allowedOrigins []string, metricsHandler http.Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware(allowedOrigins))

	r.GET("/health", h.handleHealth)
	r.GET("/status", h.handleStatus)
	r.POST("/solve", h.handleSolve)
	r.GET("/job/:id", h.handleGetJob)
	r.GET("/job/:id/stream", h.handleJobStream)
	r.POST("/abort/:id", h.handleAbort)
	r.GET("/admin", AdminMiddleware(h.cfg.AdminPassword), h.handleAdmin)
	if metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(metricsHandler))
	}

	return r
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowAll := len(allowedOrigins) == 0
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowAll {
			c.Header("Access-Control-Allow-Origin", "*")
		} else if allowed[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (h *Handler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"queue_depth":   h.orch.QueueDepth(),
		"active_solves": h.orch.ActiveSolves(),
	})
}

// handleStatus reports the server's capacity and policy constants so a
// client can shape requests (e.g. cap max_time_seconds) without
// guessing.
func (h *Handler) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":                "ok",
		"uptime_seconds":        int64(time.Since(h.startedAt).Seconds()),
		"queue_depth":           h.orch.QueueDepth(),
		"active_solves":         h.orch.ActiveSolves(),
		"max_concurrent_solves": h.cfg.MaxConcurrentSolves,
		"max_queue_size":        h.cfg.MaxQueueSize,
		"rate_limit_seconds":    int(h.cfg.RateLimitWindow.Seconds()),
		"max_solve_time":        int(h.cfg.MaxSolveTime.Seconds()),
	})
}

func (h *Handler) handleSolve(c *gin.Context) {
	var req puzzle.SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	hints := feasibility.Check(&req, h.cat)

	clientID := clientIdentity(c)
	job, err := h.orch.Submit(&req, clientID)
	if err != nil {
		status := http.StatusTooManyRequests
		body := gin.H{"success": false, "error": err.Error(), "diagnostic_hints": hints}
		var rateLimited *orchestrator.RateLimitError
		switch {
		case errors.As(err, &rateLimited):
			body["retry_after"] = int(math.Ceil(rateLimited.RetryAfter.Seconds()))
		case err == orchestrator.ErrQueueFull:
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job_id":           job.ID,
		"status":           job.Status(),
		"queue_position":   h.orch.QueuePosition(job.ID),
		"diagnostic_hints": hints,
	})
}

// clientIdentity resolves the per-client rate-limit key: an explicit
// X-Client-ID header if the caller sends one, else the request's
// source IP.
func clientIdentity(c *gin.Context) string {
	if id := c.GetHeader("X-Client-ID"); id != "" {
		return id
	}
	return c.ClientIP()
}

// jobView is orchestrator.Snapshot plus the job's live queue
// position, which Snapshot itself can't know since it has no handle
// on the orchestrator's queue.
type jobView struct {
	orchestrator.Snapshot
	QueuePosition int `json:"queue_position"`
}

func (h *Handler) snapshotView(id string, snap orchestrator.Snapshot) jobView {
	return jobView{Snapshot: snap, QueuePosition: h.orch.QueuePosition(id)}
}

func (h *Handler) handleGetJob(c *gin.Context) {
	id := c.Param("id")
	job, ok := h.orch.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown job id"})
		return
	}
	c.JSON(http.StatusOK, h.snapshotView(id, job.Snapshot()))
}

func (h *Handler) handleAbort(c *gin.Context) {
	if ok := h.orch.Abort(c.Param("id")); !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "job is unknown or already finished"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "aborted"})
}

func (h *Handler) handleAdmin(c *gin.Context) {
	view := h.orch.Admin()
	c.JSON(http.StatusOK, gin.H{
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
		"queue_depth":    h.orch.QueueDepth(),
		"active_solves":  h.orch.ActiveSolves(),
		"queued":         view.Queued,
		"active":         view.Active,
		"recent":         view.Recent,
	})
}

// handleJobStream upgrades to a websocket and streams the job's
// best-so-far and terminal snapshots as they change, one Hub per job
// created lazily and torn down once the job is terminal.
func (h *Handler) handleJobStream(c *gin.Context) {
	id := c.Param("id")
	job, ok := h.orch.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown job id"})
		return
	}

	h.hubFor(id, job).Subscribe(c)
}

// hubFor returns the job's hub, creating it — and its single broadcast
// and poll goroutines — on first subscription.
func (h *Handler) hubFor(jobID string, job *orchestrator.Job) *Hub {
	h.mu.Lock()
	defer h.mu.Unlock()
	if hub, ok := h.hubs[jobID]; ok {
		return hub
	}
	hub := NewHub(h.log)
	h.hubs[jobID] = hub
	go hub.Run()
	go h.pollJob(jobID, job, hub)
	return hub
}

// pollJob pushes the job's snapshot to hub every tick until the job is
// terminal, then tears the hub down. Polling the in-process Job rather
// than wiring a dedicated notification channel keeps the streaming path
// simple: a job changes state a handful of times over tens of seconds,
// not fast enough to need anything fancier.
func (h *Handler) pollJob(jobID string, job *orchestrator.Job, hub *Hub) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		snap := job.Snapshot()
		if payload, err := json.Marshal(h.snapshotView(jobID, snap)); err == nil {
			hub.Broadcast(payload)
		}
		switch snap.Status {
		case orchestrator.StatusComplete, orchestrator.StatusError, orchestrator.StatusAborted:
			h.mu.Lock()
			delete(h.hubs, jobID)
			h.mu.Unlock()
			hub.Close()
			return
		}
	}
}
