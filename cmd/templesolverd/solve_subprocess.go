package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/sulozor/temple-solver/internal/catalogue"
	"github.com/sulozor/temple-solver/internal/feasibility"
	"github.com/sulozor/temple-solver/internal/puzzle"
	"github.com/sulozor/temple-solver/internal/search"
)

// defaultMaxSolveTime bounds a request that doesn't set
// max_time_seconds, an optional field.
const defaultMaxSolveTime = 30 * time.Second

// maxSolveTimeEnv mirrors internal/orchestrator's unexported constant
// of the same name: the orchestrator sets it on this subprocess's
// environment to carry the server's configured MAX_SOLVE_TIME policy
// cap down to a process that otherwise only ever sees the request
// JSON on stdin.
const maxSolveTimeEnv = "TEMPLE_SOLVER_MAX_SOLVE_TIME_SECONDS"

// ndjsonMessage mirrors internal/orchestrator's unexported wire type:
// the two packages can't share it without an import cycle (orchestrator
// shells out to this very binary), so the shape is duplicated
// deliberately rather than introducing a third package for two structs.
type ndjsonMessage struct {
	Type   string             `json:"type"`
	Result puzzle.SolveResult `json:"result"`
}

var solveSubprocessCmd = &cobra.Command{
	Use:    "solve-subprocess",
	Args:   cobra.NoArgs,
	Short:  "Run a single solve, reading a request from stdin and streaming NDJSON progress to stdout",
	Hidden: true,
	RunE:   runSolveSubprocess,
}

func runSolveSubprocess(cmd *cobra.Command, args []string) error {
	body, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading request from stdin: %w", err)
	}

	var req puzzle.SolveRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return fmt.Errorf("decoding request: %w", err)
	}

	cat := catalogue.New()
	if len(req.RoomValues) > 0 {
		cat = cat.WithTierValues(req.RoomValues)
	}
	hints := feasibility.Check(&req, cat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	maxTime := defaultMaxSolveTime
	if req.MaxTimeSeconds > 0 {
		maxTime = time.Duration(req.MaxTimeSeconds) * time.Second
	}
	// Server policy caps whatever the request asked for — it is never
	// the other way around.
	if capSeconds, err := strconv.Atoi(os.Getenv(maxSolveTimeEnv)); err == nil && capSeconds > 0 {
		if serverCap := time.Duration(capSeconds) * time.Second; serverCap < maxTime {
			maxTime = serverCap
		}
	}

	enc := json.NewEncoder(os.Stdout)
	cfg := search.Config{
		Catalogue:            cat,
		Request:              &req,
		LazyDirectionalCheck: true,
		MaxTime:              maxTime,
		OnImproving: func(sol search.Solution) {
			progress := search.ToProgressResult(sol, cat)
			_ = enc.Encode(ndjsonMessage{Type: "progress", Result: progress})
		},
	}

	result := search.Solve(ctx, cfg)
	final := search.ToPuzzleResult(result, cat, &req, hints)
	return enc.Encode(ndjsonMessage{Type: "final", Result: final})
}
