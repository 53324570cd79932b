package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sulozor/temple-solver/internal/config"
	"github.com/sulozor/temple-solver/internal/puzzle"
	"github.com/sulozor/temple-solver/internal/telemetry"
)

// ttlSweepInterval is how often the eviction sweep runs — ten times
// finer-grained than the shortest sane JobTTL, so eviction happens
// close to when it's promised rather than in TTL-sized jumps.
const ttlSweepInterval = 30 * time.Second

// Orchestrator owns the job queue, the worker pool that runs each
// queued job in its own subprocess, and the TTL'd job store. Build
// one with New and call Start once before Submit-ing any jobs.
type Orchestrator struct {
	cfg     config.Config
	limiter *RateLimiter
	metrics *telemetry.Metrics
	log     *telemetry.Logger

	mu     sync.RWMutex
	jobs   map[string]*Job
	recent []Snapshot // ring of the most recent terminal jobs, for /admin

	queue      chan string
	queueOrder []string // FIFO job ids, mirrors queue for position lookups
	sem        chan struct{}
	stop       chan struct{}
}

// recentCompletionsSize bounds the /admin observability ring.
const recentCompletionsSize = 32

// New builds an Orchestrator from cfg. Call Start to begin dispatching.
func New(cfg config.Config, metrics *telemetry.Metrics, log *telemetry.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:     cfg,
		limiter: NewRateLimiter(cfg.RateLimitWindow),
		metrics: metrics,
		log:     log,
		jobs:    make(map[string]*Job),
		queue:   make(chan string, cfg.MaxQueueSize),
		sem:     make(chan struct{}, cfg.MaxConcurrentSolves),
		stop:    make(chan struct{}),
	}
}

// Start spins up the dispatch loop, the TTL eviction sweep, and the
// rate limiter's idle-bucket cleanup, all stopped together by Stop.
func (o *Orchestrator) Start() {
	go o.dispatchLoop()
	go o.ttlLoop()
	go o.limiter.CleanupLoop(o.stop)
}

// Stop halts all of the orchestrator's background goroutines. Already
// running jobs are left to finish; queued jobs are left queued.
func (o *Orchestrator) Stop() {
	close(o.stop)
}

// ErrRateLimited and ErrQueueFull are returned by Submit when
// admission control rejects a request.
var (
	ErrRateLimited = fmt.Errorf("orchestrator: client rate limit exceeded")
	ErrQueueFull   = fmt.Errorf("orchestrator: queue is full")
)

// RateLimitError wraps ErrRateLimited with how long the rejected
// client should wait before retrying: the remainder of its window, as
// computed by RateLimiter.Allow.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string { return ErrRateLimited.Error() }
func (e *RateLimitError) Unwrap() error { return ErrRateLimited }

// Submit admits req for clientID, returning the newly queued Job or an
// admission-control error. It never blocks: a full queue is rejected
// immediately rather than making the caller wait.
func (o *Orchestrator) Submit(req *puzzle.SolveRequest, clientID string) (*Job, error) {
	if ok, wait := o.limiter.Allow(clientID); !ok {
		if o.metrics != nil {
			o.metrics.Rejections.WithLabelValues("rate_limited").Inc()
		}
		return nil, &RateLimitError{RetryAfter: wait}
	}

	job := newJob(uuid.NewString(), clientID, req)

	o.mu.Lock()
	o.jobs[job.ID] = job
	o.mu.Unlock()

	select {
	case o.queue <- job.ID:
		o.mu.Lock()
		o.queueOrder = append(o.queueOrder, job.ID)
		o.mu.Unlock()
		if o.metrics != nil {
			o.metrics.QueueDepth.Inc()
		}
		return job, nil
	default:
		o.mu.Lock()
		delete(o.jobs, job.ID)
		o.mu.Unlock()
		if o.metrics != nil {
			o.metrics.Rejections.WithLabelValues("queue_full").Inc()
		}
		return nil, ErrQueueFull
	}
}

// QueuePosition reports id's 1-indexed position in the FIFO queue, or
// 0 once it has been dispatched to a worker (or was never queued).
// queue_position is required to strictly decrease over time and
// reach 0 before a job moves to Solving; tracking the FIFO order
// alongside the dispatch channel, rather than just the channel's
// length, is what lets a caller ask about one specific job instead of
// only the queue's overall depth.
func (o *Orchestrator) QueuePosition(id string) int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	for i, qid := range o.queueOrder {
		if qid == id {
			return i + 1
		}
	}
	return 0
}

// Get returns the job with the given id, if it exists and hasn't been
// evicted by the TTL sweep yet.
func (o *Orchestrator) Get(id string) (*Job, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	j, ok := o.jobs[id]
	return j, ok
}

// Abort cancels a queued or running job. Returns false if the job is
// unknown or already terminal.
func (o *Orchestrator) Abort(id string) bool {
	j, ok := o.Get(id)
	if !ok {
		return false
	}
	return j.abort()
}

func (o *Orchestrator) dispatchLoop() {
	for {
		select {
		case <-o.stop:
			return
		case id := <-o.queue:
			o.mu.Lock()
			for i, qid := range o.queueOrder {
				if qid == id {
					o.queueOrder = append(o.queueOrder[:i], o.queueOrder[i+1:]...)
					break
				}
			}
			o.mu.Unlock()
			if o.metrics != nil {
				o.metrics.QueueDepth.Dec()
			}
			select {
			case o.sem <- struct{}{}:
			case <-o.stop:
				return
			}
			go o.runJob(id)
		}
	}
}

func (o *Orchestrator) runJob(id string) {
	defer func() { <-o.sem }()

	job, ok := o.Get(id)
	if !ok {
		return
	}
	if job.Status() == StatusAborted {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	job.setSolving(cancel)
	defer cancel()

	if o.metrics != nil {
		o.metrics.ActiveSolves.Inc()
		defer o.metrics.ActiveSolves.Dec()
	}
	started := time.Now()

	result, err := runSubprocess(ctx, job.Request, o.cfg.MaxSolveTime, func(progress puzzle.SolveResult) {
		job.setBest(progress)
	})

	if o.metrics != nil {
		o.metrics.SolveDuration.Observe(time.Since(started).Seconds())
	}

	switch {
	case job.Status() == StatusAborted:
		job.adoptBestAsResult()
		if o.metrics != nil {
			o.metrics.JobsCompleted.WithLabelValues("aborted").Inc()
		}
	case err != nil:
		job.fail(err.Error())
		if o.log != nil {
			o.log.Error("solve subprocess failed", err, map[string]interface{}{"job_id": id})
		}
		if o.metrics != nil {
			o.metrics.JobsCompleted.WithLabelValues("error").Inc()
		}
	default:
		job.complete(result)
		if o.metrics != nil {
			o.metrics.JobsCompleted.WithLabelValues("complete").Inc()
		}
	}
	o.noteCompletion(job)
}

func (o *Orchestrator) noteCompletion(j *Job) {
	snap := j.Snapshot()
	o.mu.Lock()
	defer o.mu.Unlock()
	o.recent = append(o.recent, snap)
	if len(o.recent) > recentCompletionsSize {
		o.recent = o.recent[len(o.recent)-recentCompletionsSize:]
	}
}

// AdminView is the operator-facing state dump behind GET /admin:
// currently queued and running jobs plus the recent-completions ring.
type AdminView struct {
	Queued []Snapshot `json:"queued"`
	Active []Snapshot `json:"active"`
	Recent []Snapshot `json:"recent"`
}

// Admin assembles an AdminView from the live job table.
func (o *Orchestrator) Admin() AdminView {
	o.mu.RLock()
	defer o.mu.RUnlock()
	view := AdminView{Recent: append([]Snapshot(nil), o.recent...)}
	for _, id := range o.queueOrder {
		if j, ok := o.jobs[id]; ok {
			view.Queued = append(view.Queued, j.Snapshot())
		}
	}
	for _, j := range o.jobs {
		if j.Status() == StatusSolving {
			view.Active = append(view.Active, j.Snapshot())
		}
	}
	return view
}

func (o *Orchestrator) ttlLoop() {
	ticker := time.NewTicker(ttlSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-o.stop:
			return
		case <-ticker.C:
			o.evictExpired()
		}
	}
}

func (o *Orchestrator) evictExpired() {
	cutoff := time.Now().Add(-o.cfg.JobTTL)
	o.mu.Lock()
	defer o.mu.Unlock()
	for id, j := range o.jobs {
		snap := j.Snapshot()
		if snap.CompletedAt != nil && snap.CompletedAt.Before(cutoff) {
			delete(o.jobs, id)
		}
	}
}

// QueueDepth reports the number of jobs currently queued but not yet
// dispatched to a worker — used by the /status endpoint.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// ActiveSolves reports the number of jobs currently running.
func (o *Orchestrator) ActiveSolves() int {
	return len(o.sem)
}
