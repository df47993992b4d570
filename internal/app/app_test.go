package app

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestNew_Validation(t *testing.T) {
	_, err := New(context.Background(), Options{}, nil)
	require.Error(t, err)
}

func TestApp_Routes(t *testing.T) {
	mcpHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("metrics"))
	})

	a, err := New(context.Background(), Options{Listen: ":0", Path: "rpc", MCP: mcpHandler, Metrics: metricsHandler}, nil)
	require.NoError(t, err)
	h := a.Handler()

	require.Equal(t, http.StatusAccepted, serve(t, h, http.MethodPost, "/rpc").Code)
	require.Equal(t, http.StatusOK, serve(t, h, http.MethodGet, "/healthz").Code)
	require.Equal(t, http.StatusServiceUnavailable, serve(t, h, http.MethodGet, "/readyz").Code)

	a.Ready()
	rec := serve(t, h, http.MethodGet, "/readyz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ready", rec.Body.String())

	require.Equal(t, "metrics", serve(t, h, http.MethodGet, "/metrics").Body.String())
	require.Equal(t, http.StatusNotFound, serve(t, h, http.MethodGet, "/unknown").Code)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	a, err := New(context.Background(), Options{Listen: "127.0.0.1:0", MCP: http.NotFoundHandler()}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	cancel()
	require.NoError(t, <-done)
}

func TestApp_RunBindFailureStaysNotReady(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = busy.Close() })

	a, err := New(context.Background(), Options{Listen: busy.Addr().String(), MCP: http.NotFoundHandler()}, nil)
	require.NoError(t, err)

	err = a.Run(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), busy.Addr().String())
	require.Equal(t, http.StatusServiceUnavailable, serve(t, a.Handler(), http.MethodGet, "/readyz").Code)
}

func TestApp_RunReadyOnceBound(t *testing.T) {
	a, err := New(context.Background(), Options{Listen: "127.0.0.1:0", MCP: http.NotFoundHandler()}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, func() bool {
		return serve(t, a.Handler(), http.MethodGet, "/readyz").Code == http.StatusOK
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	require.Equal(t, http.StatusServiceUnavailable, serve(t, a.Handler(), http.MethodGet, "/readyz").Code)
}
