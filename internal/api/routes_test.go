package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sulozor/temple-solver/internal/catalogue"
	"github.com/sulozor/temple-solver/internal/config"
	"github.com/sulozor/temple-solver/internal/orchestrator"
	"github.com/sulozor/temple-solver/internal/telemetry"
)

func testRouter(t *testing.T, cfg config.Config) (*gin.Engine, *orchestrator.Orchestrator) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := telemetry.New(telemetry.Config{Level: telemetry.LevelError, Output: io.Discard})
	// The orchestrator is deliberately never Start()ed: submitted jobs
	// stay queued, which is exactly what these route tests need.
	orch := orchestrator.New(cfg, nil, log)
	h := NewHandler(orch, catalogue.New(), cfg, log)
	return SetupRouter(h, cfg.AllowedOrigins, nil), orch
}

func testAPIConfig() config.Config {
	return config.Config{
		MaxConcurrentSolves: 1,
		MaxQueueSize:        4,
		RateLimitWindow:     0,
		MaxSolveTime:        30 * time.Second,
	}
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthReportsCounts(t *testing.T) {
	r, _ := testRouter(t, testAPIConfig())
	w := doJSON(r, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body, "queue_depth")
	assert.Contains(t, body, "active_solves")
}

func TestStatusReportsPolicyConstants(t *testing.T) {
	r, _ := testRouter(t, testAPIConfig())
	w := doJSON(r, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 4, body["max_queue_size"])
	assert.EqualValues(t, 30, body["max_solve_time"])
}

func TestSolveRejectsMalformedBody(t *testing.T) {
	r, _ := testRouter(t, testAPIConfig())
	w := doJSON(r, http.MethodPost, "/solve", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSolveAdmitsJobWithQueuePosition(t *testing.T) {
	r, _ := testRouter(t, testAPIConfig())
	w := doJSON(r, http.MethodPost, "/solve", `{"architect":[5,9]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["job_id"])
	assert.EqualValues(t, 1, body["queue_position"])
}

func TestSolveReturns503WhenQueueFull(t *testing.T) {
	cfg := testAPIConfig()
	cfg.MaxQueueSize = 1
	r, _ := testRouter(t, cfg)

	w := doJSON(r, http.MethodPost, "/solve", `{"architect":[5,9]}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodPost, "/solve", `{"architect":[5,9]}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSolveReturns429WithRetryAfterWhenRateLimited(t *testing.T) {
	cfg := testAPIConfig()
	cfg.RateLimitWindow = time.Hour
	r, _ := testRouter(t, cfg)

	w := doJSON(r, http.MethodPost, "/solve", `{"architect":[5,9]}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/solve", `{"architect":[5,9]}`)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	retryAfter, ok := body["retry_after"].(float64)
	require.True(t, ok, "429 body must carry retry_after seconds")
	assert.Greater(t, retryAfter, 0.0)
}

func TestGetJobUnknownReturns404(t *testing.T) {
	r, _ := testRouter(t, testAPIConfig())
	w := doJSON(r, http.MethodGet, "/job/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAbortQueuedJobThenStatusIsTerminal(t *testing.T) {
	r, orch := testRouter(t, testAPIConfig())
	w := doJSON(r, http.MethodPost, "/solve", `{"architect":[5,9]}`)
	require.Equal(t, http.StatusOK, w.Code)
	var admitted map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &admitted))
	jobID := admitted["job_id"].(string)

	w = doJSON(r, http.MethodPost, "/abort/"+jobID, "")
	require.Equal(t, http.StatusOK, w.Code)

	job, ok := orch.Get(jobID)
	require.True(t, ok)
	assert.Equal(t, orchestrator.StatusAborted, job.Status())

	w = doJSON(r, http.MethodGet, "/job/"+jobID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var view map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, string(orchestrator.StatusAborted), view["status"])
}

func TestAdminDisabledWithoutPassword(t *testing.T) {
	r, _ := testRouter(t, testAPIConfig())
	w := doJSON(r, http.MethodGet, "/admin", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminRejectsBadCredentials(t *testing.T) {
	cfg := testAPIConfig()
	cfg.AdminPassword = "sekrit"
	r, _ := testRouter(t, cfg)

	w := doJSON(r, http.MethodGet, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAcceptsSharedSecret(t *testing.T) {
	cfg := testAPIConfig()
	cfg.AdminPassword = "sekrit"
	r, _ := testRouter(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer sekrit")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "queued")
	assert.Contains(t, body, "recent")
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	cfg := testAPIConfig()
	cfg.AllowedOrigins = []string{"https://sulozor.example"}
	r, _ := testRouter(t, cfg)

	req := httptest.NewRequest(http.MethodOptions, "/solve", nil)
	req.Header.Set("Origin", "https://sulozor.example")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://sulozor.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
