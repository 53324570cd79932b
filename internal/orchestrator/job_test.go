package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sulozor/temple-solver/internal/puzzle"
)

func TestJobLifecycleTransitions(t *testing.T) {
	j := newJob("job-1", "client-a", &puzzle.SolveRequest{})
	assert.Equal(t, StatusQueued, j.Status())

	cancelled := false
	j.setSolving(func() { cancelled = true })
	assert.Equal(t, StatusSolving, j.Status())

	j.complete(puzzle.SolveResult{Success: true, Score: 42})
	assert.Equal(t, StatusComplete, j.Status())
	assert.False(t, cancelled)

	snap := j.Snapshot()
	assert.NotNil(t, snap.Result)
	assert.Equal(t, 42, snap.Result.Score)
}

func TestJobAbortInvokesCancelAndIsTerminal(t *testing.T) {
	j := newJob("job-2", "client-a", &puzzle.SolveRequest{})
	cancelled := false
	j.setSolving(func() { cancelled = true })

	ok := j.abort()
	assert.True(t, ok)
	assert.True(t, cancelled)
	assert.Equal(t, StatusAborted, j.Status())

	// A second abort is a no-op on an already-terminal job.
	ok = j.abort()
	assert.False(t, ok)
}

func TestJobAbortAdoptsBestAsResult(t *testing.T) {
	j := newJob("job-4", "client-a", &puzzle.SolveRequest{})
	j.setSolving(func() {})
	j.setBest(puzzle.SolveResult{Success: true, Optimal: true, Score: 17})
	j.abort()
	j.adoptBestAsResult()

	snap := j.Snapshot()
	require.NotNil(t, snap.Result)
	assert.True(t, snap.Result.Success)
	assert.False(t, snap.Result.Optimal, "an aborted solve never claims optimality")
	assert.Equal(t, 17, snap.Result.Score)
}

func TestJobCompleteAfterAbortIsIgnored(t *testing.T) {
	j := newJob("job-3", "client-a", &puzzle.SolveRequest{})
	j.setSolving(func() {})
	j.abort()
	j.complete(puzzle.SolveResult{Success: true})
	assert.Equal(t, StatusAborted, j.Status())
}
