// Package orchestrator implements the job-queueing layer: a bounded
// FIFO queue, a fixed worker pool that runs each solve in its own
// subprocess (so an abort can hard-kill it), a TTL'd result store, and
// a per-client rate limiter.
//
// Workers block on the dispatch channel and on each subprocess's NDJSON
// stdout rather than polling on a ticker (an abort cancels the job's
// context, which signals the subprocess), the per-client admission control keeps one last-accepted timestamp per
// client_id (see ratelimiter.go), and the TTL eviction sweep mirrors
// that same idle-bucket cleanup pattern.
package orchestrator

import (
	"sync"
	"time"

	"github.com/sulozor/temple-solver/internal/puzzle"
)

// Status is a job's lifecycle state: Queued ->
// Solving -> {Complete, Error, Aborted}.
type Status string

const (
	StatusQueued   Status = "queued"
	StatusSolving  Status = "solving"
	StatusComplete Status = "complete"
	StatusError    Status = "error"
	StatusAborted  Status = "aborted"
)

// Job is one submitted solve and its current lifecycle state.
type Job struct {
	ID          string
	ClientID    string
	Request     *puzzle.SolveRequest
	QueuedAt    time.Time
	StartedAt   time.Time
	CompletedAt time.Time

	mu     sync.RWMutex
	status Status
	best   *puzzle.SolveResult
	result *puzzle.SolveResult
	err    string
	cancel func()
}

func newJob(id, clientID string, req *puzzle.SolveRequest) *Job {
	return &Job{
		ID:       id,
		ClientID: clientID,
		Request:  req,
		QueuedAt: time.Now(),
		status:   StatusQueued,
	}
}

// Status returns the job's current lifecycle state.
func (j *Job) Status() Status {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.status
}

// Snapshot is the point-in-time view of a job returned to API callers.
type Snapshot struct {
	ID          string              `json:"id"`
	Status      Status              `json:"status"`
	QueuedAt    time.Time           `json:"queued_at"`
	StartedAt   *time.Time          `json:"started_at,omitempty"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
	Best        *puzzle.SolveResult `json:"best,omitempty"`
	Result      *puzzle.SolveResult `json:"result,omitempty"`
	Error       string              `json:"error,omitempty"`
}

// Snapshot returns a consistent copy of the job's current state.
func (j *Job) Snapshot() Snapshot {
	j.mu.RLock()
	defer j.mu.RUnlock()
	snap := Snapshot{
		ID:       j.ID,
		Status:   j.status,
		QueuedAt: j.QueuedAt,
		Best:     j.best,
		Result:   j.result,
		Error:    j.err,
	}
	if !j.StartedAt.IsZero() {
		t := j.StartedAt
		snap.StartedAt = &t
	}
	if !j.CompletedAt.IsZero() {
		t := j.CompletedAt
		snap.CompletedAt = &t
	}
	return snap
}

func (j *Job) setSolving(cancel func()) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = StatusSolving
	j.StartedAt = time.Now()
	j.cancel = cancel
}

func (j *Job) setBest(res puzzle.SolveResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status == StatusAborted {
		return
	}
	j.best = &res
}

func (j *Job) complete(res puzzle.SolveResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status == StatusAborted {
		return
	}
	j.status = StatusComplete
	j.result = &res
	j.CompletedAt = time.Now()
}

func (j *Job) fail(errMsg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status == StatusAborted {
		return
	}
	j.status = StatusError
	j.err = errMsg
	j.CompletedAt = time.Now()
}

// adoptBestAsResult promotes an aborted job's last observed best-so-far
// into its result, so callers still get the best layout the solve had
// found before termination.
func (j *Job) adoptBestAsResult() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status != StatusAborted || j.best == nil || j.result != nil {
		return
	}
	res := *j.best
	res.Optimal = false
	j.result = &res
}

// abort marks the job aborted and invokes its cancel func, if the
// worker has started it. Returns false if the job was already
// terminal.
func (j *Job) abort() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	switch j.status {
	case StatusComplete, StatusError, StatusAborted:
		return false
	}
	j.status = StatusAborted
	j.CompletedAt = time.Now()
	if j.cancel != nil {
		j.cancel()
	}
	return true
}
