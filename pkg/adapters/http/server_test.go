package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/sirsim"
	"github.com/aretw0/sirsim/pkg/adapters/memory"
	"github.com/aretw0/sirsim/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, opts ...Option) (http.Handler, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	sim := sirsim.New(sirsim.WithSeed(7), sirsim.WithStore(store))
	return NewHandler(sim, append([]Option{WithStore(store)}, opts...)...), store
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func createRun(t *testing.T, h http.Handler, body string) RunResponse {
	t.Helper()
	w := do(t, h, "POST", "/runs", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp RunResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestCreateRun_Deterministic(t *testing.T) {
	h, _ := newTestHandler(t)

	resp := createRun(t, h, `{"population_size": 4, "contact_range": 2, "infect_probability": 0, "recover_probability": 1}`)

	assert.Equal(t, domain.Trace{
		{Susceptible: 3, Infected: 1},
		{Susceptible: 3, Recovered: 1},
	}, resp.Run.Trace)
	assert.True(t, resp.Run.Converged)
	assert.Equal(t, 1, resp.Summary.PeakInfections)
	assert.Equal(t, uint64(7), resp.Run.Seed)
}

func TestCreateRun_EmptyBodyUsesDefaults(t *testing.T) {
	h, _ := newTestHandler(t)

	resp := createRun(t, h, "")
	assert.Equal(t, domain.DefaultParams(), resp.Run.Params)
	assert.Equal(t, 0, resp.Run.Trace.Final().Infected)
	assert.Equal(t, 100, resp.Run.Trace[0].Total())
}

func TestCreateRun_Capped(t *testing.T) {
	h, _ := newTestHandler(t)

	resp := createRun(t, h, `{"population_size": 3, "recover_probability": 0, "max_days": 2}`)
	assert.False(t, resp.Run.Converged)
	assert.Len(t, resp.Run.Trace, 3)
}

func TestCreateRun_BadRequest(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"population_size":`},
		{"unknown field", `{"population": 10}`},
		{"invalid population", `{"population_size": 0}`},
		{"population too large", `{"population_size": 1125899906842624, "recover_probability": 1}`},
		{"invalid probability", `{"infect_probability": 2}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, "POST", "/runs", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestRuns_Lifecycle(t *testing.T) {
	h, store := newTestHandler(t)

	created := createRun(t, h, `{"population_size": 10, "infect_probability": 0.5, "recover_probability": 0.5}`)
	id := created.Run.ID

	// Get
	w := do(t, h, "GET", "/runs/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	var got RunResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, created.Run.Trace, got.Run.Trace)

	// List
	w = do(t, h, "GET", "/runs", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Runs []domain.Summary `json:"runs"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	require.Len(t, list.Runs, 1)
	assert.Equal(t, id, list.Runs[0].ID)

	// Report
	w = do(t, h, "GET", "/runs/"+id+"/report", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Peak Infections:")
	assert.Contains(t, w.Body.String(), "Susceptible")

	w = do(t, h, "GET", "/runs/"+id+"/report?format=markdown", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/markdown")

	w = do(t, h, "GET", "/runs/"+id+"/report?format=mermaid", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "xychart-beta")
	assert.Contains(t, w.Body.String(), "Run "+id)

	w = do(t, h, "GET", "/runs/"+id+"/report?format=pdf", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Delete
	w = do(t, h, "DELETE", "/runs/"+id, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	_, err := store.Load(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrRunNotFound)

	w = do(t, h, "GET", "/runs/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, h, "DELETE", "/runs/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRuns_NoStore(t *testing.T) {
	h := NewHandler(sirsim.New(sirsim.WithSeed(1)))

	w := do(t, h, "GET", "/runs", "")
	assert.Equal(t, http.StatusNotImplemented, w.Code)

	w = do(t, h, "POST", "/runs", `{"population_size": 5}`)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestHealthAndInfo(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, "GET", "/info", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"app":"sirsim-http"`)
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, "OPTIONS", "/runs", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	h, _ := newTestHandler(t, WithGatherer(reg))

	w := do(t, h, "GET", "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")

	plain, _ := newTestHandler(t)
	w = do(t, plain, "GET", "/metrics", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubscribeEvents(t *testing.T) {
	streams := NewStreamManager(nil)
	store := memory.NewStore()
	sim := sirsim.New(
		sirsim.WithSeed(3),
		sirsim.WithStore(store),
		sirsim.WithLifecycleHooks(streams.Hooks()),
	)
	h := NewHandler(sim, WithStore(store), WithStreams(streams))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wSub := &syncRecorder{ResponseRecorder: httptest.NewRecorder()}
	reqSub := httptest.NewRequest("GET", "/events", nil).WithContext(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.ServeHTTP(wSub, reqSub)
	}()

	// Wait for the subscription to register.
	require.Eventually(t, func() bool {
		streams.mu.RLock()
		defer streams.mu.RUnlock()
		return len(streams.subscribers[allRuns]) == 1
	}, time.Second, 10*time.Millisecond)

	body := bytes.NewBufferString(`{"population_size": 2, "contact_range": 1, "infect_probability": 0, "recover_probability": 1}`)
	reqRun := httptest.NewRequest("POST", "/runs", body)
	wRun := httptest.NewRecorder()
	h.ServeHTTP(wRun, reqRun)
	require.Equal(t, http.StatusCreated, wRun.Code)

	require.Eventually(t, func() bool {
		return strings.Contains(wSub.String(), `"type":"run_end"`)
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done

	output := wSub.String()
	assert.Contains(t, output, "event: ping")
	assert.Contains(t, output, `"type":"run_start"`)
	assert.Contains(t, output, `"type":"day"`)
	assert.Contains(t, output, `"type":"run_end"`)
}

// syncRecorder lets the test read the SSE body while the handler is still writing.
type syncRecorder struct {
	mu sync.Mutex
	*httptest.ResponseRecorder
}

func (r *syncRecorder) Write(b []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ResponseRecorder.Write(b)
}

func (r *syncRecorder) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ResponseRecorder.Flush()
}

func (r *syncRecorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Body.String()
}

func TestStreamManager_RunFilter(t *testing.T) {
	sm := NewStreamManager(nil)

	mine, cancelMine := sm.Subscribe("run-a")
	defer cancelMine()
	all, cancelAll := sm.Subscribe(allRuns)
	defer cancelAll()

	sm.Broadcast("run-b", "b")
	sm.Broadcast("run-a", "a")

	assert.Equal(t, "a", <-mine)
	assert.Equal(t, "b", <-all)
	assert.Equal(t, "a", <-all)
	assert.Empty(t, mine)
}
