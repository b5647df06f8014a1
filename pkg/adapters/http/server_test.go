package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/damascout"
	"github.com/aretw0/damascout/internal/logging"
	"github.com/aretw0/damascout/internal/metrics"
	"github.com/aretw0/damascout/pkg/adapters/memory"
	"github.com/aretw0/damascout/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) (http.Handler, *Hub, *memory.Console) {
	t.Helper()
	hub := NewHub(16, logging.NewNop())
	con := memory.NewConsole()
	router := damascout.New(con, damascout.WithSink(hub))
	return NewHandler(router, hub, WithLogger(logging.NewNop())), hub, con
}

func TestGetHealth(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	req, _ := http.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Equal(t, "ok", resp["status"])
}

func TestGetInfo(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	req, _ := http.NewRequest("GET", "/info", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Equal(t, "damascout-http", resp["app"])
	assert.Equal(t, damascout.Version, resp["version"])
	assert.Equal(t, "1.0.0", resp["api_version"])
}

func TestOpenAPISpec(t *testing.T) {
	swagger, err := GetSwagger()
	require.NoError(t, err)
	require.NoError(t, swagger.Validate(context.Background()))
	for _, path := range []string{"/health", "/info", "/reports", "/events"} {
		assert.NotNil(t, swagger.Paths.Find(path), path)
	}

	handler, _, _ := newTestHandler(t)
	req, _ := http.NewRequest("GET", "/openapi.yaml", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "subscribeEvents")
}

func TestCORSPreflight(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	req, _ := http.NewRequest("OPTIONS", "/reports", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestPostReport_BadRequests(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	for name, body := range map[string]string{
		"invalid json": `{"kind":`,
		"unknown kind": `{"kind":"warning","command":"x","message":"y"}`,
	} {
		t.Run(name, func(t *testing.T) {
			req, _ := http.NewRequest("POST", "/reports", strings.NewReader(body))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestPostReport_NoSubscriberFallsBackToConsole(t *testing.T) {
	handler, _, con := newTestHandler(t)

	req, _ := http.NewRequest("POST", "/reports", strings.NewReader(`{"kind":"result","command":"run","message":"42"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, []string{">>run\n42"}, con.Logs())

	// Errors keep their command too while nobody is streaming.
	req, _ = http.NewRequest("POST", "/reports", strings.NewReader(`{"kind":"error","command":"1/0","message":"Division By Zero"}`))
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, []string{">>1/0\nDivision By Zero"}, con.Errors())
}

func TestPostReport_WithoutHub(t *testing.T) {
	con := memory.NewConsole()
	handler := NewHandler(damascout.New(con), nil)

	req, _ := http.NewRequest("POST", "/reports", strings.NewReader(`{"kind":"error","command":"1/0","message":"Division By Zero"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, []string{">>1/0\nDivision By Zero"}, con.Errors())

	for _, path := range []string{"/events", "/reports"} {
		req, _ = http.NewRequest("GET", path, nil)
		rr = httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code, path)
	}
}

func TestListReports(t *testing.T) {
	handler, hub, _ := newTestHandler(t)
	_, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	for _, body := range []string{
		`{"kind":"result","command":"a","message":"1"}`,
		`{"kind":"error","command":"b","message":"2"}`,
		`{"kind":"result","command":"c","message":"3"}`,
	} {
		req, _ := http.NewRequest("POST", "/reports", strings.NewReader(body))
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	req, _ := http.NewRequest("GET", "/reports?limit=2", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var reports []Report
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &reports))
	require.Len(t, reports, 2)
	assert.Equal(t, ReportKindError, reports[0].Kind)
	assert.Equal(t, "b", reports[0].Command)
	assert.Equal(t, "c", reports[1].Command)
	assert.NotEmpty(t, reports[1].Id)

	for name, query := range map[string]string{
		"not a number": "?limit=many",
		"zero":         "?limit=0",
		"too large":    "?limit=5000",
	} {
		t.Run(name, func(t *testing.T) {
			req, _ := http.NewRequest("GET", "/reports"+query, nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestSubscribeEvents_UnknownKind(t *testing.T) {
	handler, hub, _ := newTestHandler(t)

	req, _ := http.NewRequest("GET", "/events?kind=warning", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, 0, hub.Subscribers())
}

func TestSubscribeEvents_StreamsReports(t *testing.T) {
	handler, hub, con := newTestHandler(t)
	srv := httptest.NewServer(handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/events?kind=result")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := make(chan string, 32)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	waitFor := func(prefix string) string {
		t.Helper()
		timeout := time.After(5 * time.Second)
		for {
			select {
			case line, ok := <-lines:
				require.True(t, ok, "stream closed before %q", prefix)
				if strings.HasPrefix(line, prefix) {
					return line
				}
			case <-timeout:
				t.Fatalf("timed out waiting for %q", prefix)
			}
		}
	}

	waitFor("data: connected")
	require.Equal(t, 1, hub.Subscribers())

	for _, body := range []string{
		`{"kind":"error","command":"skip","message":"filtered"}`,
		`{"kind":"result","command":"run","message":"4\n2"}`,
	} {
		post, err := http.Post(srv.URL+"/reports", "application/json", bytes.NewBufferString(body))
		require.NoError(t, err)
		post.Body.Close()
		assert.Equal(t, http.StatusAccepted, post.StatusCode)
	}

	assert.Equal(t, "event: result", waitFor("event: "))
	data := strings.TrimPrefix(waitFor("data: "), "data: ")

	var report domain.Report
	require.NoError(t, json.Unmarshal([]byte(data), &report))
	assert.Equal(t, domain.KindResult, report.Kind)
	assert.Equal(t, "run", report.Command)
	assert.Equal(t, "4\n2", report.Message)
	assert.Empty(t, con.Logs(), "a connected subscriber takes the result")
}

func TestMetricsEndpoint(t *testing.T) {
	collector := metrics.New()
	con := memory.NewConsole()
	router := damascout.New(con, damascout.WithObserver(collector))
	handler := NewHandler(router, nil, WithMetrics(collector.Handler()))

	req, _ := http.NewRequest("POST", "/reports", strings.NewReader(`{"kind":"result","command":"run","message":"42"}`))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	req, _ = http.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "damascout_reports_total")
}
