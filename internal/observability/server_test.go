// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Memo Contributors

package observability

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func ready(context.Context) error { return nil }

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var pb dto.Metric
	require.NoError(t, c.Write(&pb))
	return pb.GetCounter().GetValue()
}

func get(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec.Code, rec.Body.String()
}

func TestServer_StartServesMetrics(t *testing.T) {
	server := NewServer("127.0.0.1:0", ready)

	errCh, err := server.Start()
	require.NoError(t, err)

	addr := server.Addr()
	require.NotEmpty(t, addr)

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + addr + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")
	assert.Contains(t, string(body), "process_")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, server.Stop(ctx))

	select {
	case serveErr, ok := <-errCh:
		assert.False(t, ok, "channel should close without error, got %v", serveErr)
	case <-time.After(5 * time.Second):
		t.Fatal("error channel not closed after Stop")
	}
}

func TestServer_Liveness(t *testing.T) {
	server := NewServer("127.0.0.1:0", nil)
	code, body := get(t, server.Handler(), "/healthz/liveness")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok\n", body)
}

func TestServer_Readiness(t *testing.T) {
	tests := []struct {
		name     string
		checker  ReadinessChecker
		wantCode int
		wantBody string
	}{
		{"ready", ready, http.StatusOK, "ok\n"},
		{"nil checker", nil, http.StatusOK, "ok\n"},
		{"not ready", func(context.Context) error { return errors.New("db down") }, http.StatusServiceUnavailable, "not ready\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := NewServer("127.0.0.1:0", tt.checker)
			code, body := get(t, server.Handler(), "/healthz/readiness")
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestServer_ReadinessCheckHasDeadline(t *testing.T) {
	var hadDeadline bool
	server := NewServer("127.0.0.1:0", func(ctx context.Context) error {
		_, hadDeadline = ctx.Deadline()
		return nil
	})
	get(t, server.Handler(), "/healthz/readiness")
	assert.True(t, hadDeadline)
}

func TestServer_DoubleStartFails(t *testing.T) {
	server := NewServer("127.0.0.1:0", ready)
	_, err := server.Start()
	require.NoError(t, err)
	defer func() { _ = server.Stop(context.Background()) }()

	_, err = server.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
}

func TestServer_StartFailsOnBadAddr(t *testing.T) {
	server := NewServer("256.0.0.1:99999", ready)
	_, err := server.Start()
	require.Error(t, err)
	assert.Empty(t, server.Addr())

	// A failed start leaves the server stoppable.
	require.NoError(t, server.Stop(context.Background()))
}

func TestServer_StopIdempotent(t *testing.T) {
	server := NewServer("127.0.0.1:0", ready)
	require.NoError(t, server.Stop(context.Background()))
	require.NoError(t, server.Stop(context.Background()))
}

func TestMetrics_Record(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordSignup("success")
	m.RecordSignup("success")
	m.RecordSignup("duplicate_username")
	m.RecordLogin("invalid_credentials")
	m.ObserveRequest("/api/user/login", http.StatusUnauthorized, 10*time.Millisecond)

	assert.InDelta(t, 2, counterValue(t, m.SignupsTotal.WithLabelValues("success")), 0)
	assert.InDelta(t, 1, counterValue(t, m.SignupsTotal.WithLabelValues("duplicate_username")), 0)
	assert.InDelta(t, 1, counterValue(t, m.LoginsTotal.WithLabelValues("invalid_credentials")), 0)
	assert.InDelta(t, 1, counterValue(t, m.RequestsTotal.WithLabelValues("/api/user/login", "401")), 0)

	var pb dto.Metric
	require.NoError(t, m.RequestDuration.WithLabelValues("/api/user/login").(prometheus.Histogram).Write(&pb))
	assert.Equal(t, uint64(1), pb.GetHistogram().GetSampleCount())
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordSignup("success")
		m.RecordLogin("success")
		m.ObserveRequest("/", http.StatusOK, time.Millisecond)
	})
}

func TestServer_MetricsExposed(t *testing.T) {
	server := NewServer("127.0.0.1:0", ready)
	server.Metrics().RecordLogin("success")

	code, body := get(t, server.Handler(), "/metrics")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, strings.Contains(body, `memo_logins_total{result="success"} 1`))
}
