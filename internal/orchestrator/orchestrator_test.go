package orchestrator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sulozor/temple-solver/internal/config"
	"github.com/sulozor/temple-solver/internal/puzzle"
)

func testConfig() config.Config {
	return config.Config{
		MaxConcurrentSolves: 2,
		MaxQueueSize:        2,
		// No rate limiting unless a test opts in.
		RateLimitWindow: 0,
	}
}

func TestSubmitQueuesJobWithoutStartingWorkers(t *testing.T) {
	o := New(testConfig(), nil, nil)
	job, err := o.Submit(&puzzle.SolveRequest{}, "client-a")
	require.NoError(t, err)
	assert.Equal(t, StatusQueued, job.Status())

	got, ok := o.Get(job.ID)
	assert.True(t, ok)
	assert.Equal(t, job.ID, got.ID)
}

func TestSubmitRejectsWhenQueueIsFull(t *testing.T) {
	o := New(testConfig(), nil, nil)
	for i := 0; i < 2; i++ {
		_, err := o.Submit(&puzzle.SolveRequest{}, "client-a")
		require.NoError(t, err)
	}
	_, err := o.Submit(&puzzle.SolveRequest{}, "client-a")
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestSubmitRejectsWhenClientRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitWindow = time.Hour
	cfg.MaxQueueSize = 10
	o := New(cfg, nil, nil)

	_, err := o.Submit(&puzzle.SolveRequest{}, "client-a")
	require.NoError(t, err)
	_, err = o.Submit(&puzzle.SolveRequest{}, "client-a")
	assert.ErrorIs(t, err, ErrRateLimited)

	var rateLimited *RateLimitError
	require.ErrorAs(t, err, &rateLimited)
	assert.Greater(t, rateLimited.RetryAfter.Seconds(), 0.0)

	// A rejected submission must not consume a queue slot.
	assert.Equal(t, 1, o.QueueDepth())
}

func TestQueuePositionReflectsFIFOOrder(t *testing.T) {
	o := New(testConfig(), nil, nil)
	a, err := o.Submit(&puzzle.SolveRequest{}, "client-a")
	require.NoError(t, err)
	b, err := o.Submit(&puzzle.SolveRequest{}, "client-b")
	require.NoError(t, err)

	assert.Equal(t, 1, o.QueuePosition(a.ID))
	assert.Equal(t, 2, o.QueuePosition(b.ID))
	assert.Equal(t, 0, o.QueuePosition("never-queued"))
}

func TestAdminListsQueuedJobs(t *testing.T) {
	o := New(testConfig(), nil, nil)
	job, err := o.Submit(&puzzle.SolveRequest{}, "client-a")
	require.NoError(t, err)

	view := o.Admin()
	require.Len(t, view.Queued, 1)
	assert.Equal(t, job.ID, view.Queued[0].ID)
	assert.Empty(t, view.Active)
}

func TestAbortUnknownJobReturnsFalse(t *testing.T) {
	o := New(testConfig(), nil, nil)
	assert.False(t, o.Abort("does-not-exist"))
}

func TestAbortQueuedJobMarksAborted(t *testing.T) {
	o := New(testConfig(), nil, nil)
	job, err := o.Submit(&puzzle.SolveRequest{}, "client-a")
	require.NoError(t, err)

	assert.True(t, o.Abort(job.ID))
	assert.Equal(t, StatusAborted, job.Status())
	assert.False(t, o.Abort(job.ID))
}
