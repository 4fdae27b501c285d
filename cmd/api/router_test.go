package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DaviDemarqui/workwise-v1/internal/executor"
	"github.com/DaviDemarqui/workwise-v1/internal/governance"
	"github.com/DaviDemarqui/workwise-v1/internal/membership"
	"github.com/DaviDemarqui/workwise-v1/internal/metrics"
	"github.com/DaviDemarqui/workwise-v1/internal/parameter"
	"github.com/DaviDemarqui/workwise-v1/internal/proposal"
	mw "github.com/DaviDemarqui/workwise-v1/pkg/middleware"
	"github.com/DaviDemarqui/workwise-v1/pkg/response"
)

type memJournal struct {
	mu      sync.Mutex
	entries []*executor.Entry
}

func (j *memJournal) Commit(_ context.Context, e *executor.Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
	return nil
}

func (j *memJournal) Load(context.Context) ([]*executor.Invocation, error) {
	return nil, nil
}

func (j *memJournal) LoadGenesis(context.Context) (*governance.Genesis, error) {
	return nil, nil
}

func (j *memJournal) SaveGenesis(context.Context, governance.Genesis) error {
	return nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	exec, err := executor.NewService(governance.DefaultGenesis(), &memJournal{},
		executor.WithLogger(log),
		executor.WithMetrics(collector),
	)
	require.NoError(t, err)
	require.NoError(t, exec.Start(context.Background()))

	return newRouter(routerDeps{
		Logger:     log,
		Gatherer:   reg,
		Members:    membership.NewHandler(membership.NewService(exec)).Routes(),
		Proposals:  proposal.NewHandler(proposal.NewService(exec)).Routes(),
		Parameters: parameter.NewHandler(exec).Routes(),
		Events:     http.NotFoundHandler(),
		Payouts:    http.NotFoundHandler(),
	})
}

func TestRouter_Health(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_JoinThenMetrics(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/members/join", bytes.NewBufferString(`{"value":100000000000000}`))
	req.Header.Set(mw.IdentityHeader, "0x00000000000000000000000000000000000000a1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/parameters", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body response.APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, float64(1), body.Data.(map[string]any)["active_members"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `workwise_invocations_total{operation="joinGovernance",result="accepted"} 1`)
	assert.Contains(t, rec.Body.String(), "workwise_active_members 1")
}

func TestRouter_MalformedIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/members", nil)
	req.Header.Set(mw.IdentityHeader, "alice")
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_Swagger(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"/proposals/{id}/finalize"`)
}
