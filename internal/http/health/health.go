package health

import (
	"net/http"
	"sync/atomic"
)

// Handler serves liveness and readiness probes for the MCP HTTP transport.
type Handler struct {
	ready atomic.Bool
}

// New returns a handler that starts not ready.
func New() *Handler {
	return &Handler{}
}

// SetReady marks the handler as ready.
func (h *Handler) SetReady() {
	h.ready.Store(true)
}

// SetNotReady marks the handler as not ready, e.g. while draining.
func (h *Handler) SetNotReady() {
	h.ready.Store(false)
}

// IsReady reports the current readiness.
func (h *Handler) IsReady() bool {
	return h.ready.Load()
}

// Healthz handles liveness probes.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	write(w, http.StatusOK, "ok")
}

// Readyz handles readiness probes.
func (h *Handler) Readyz(w http.ResponseWriter, _ *http.Request) {
	if h.IsReady() {
		write(w, http.StatusOK, "ready")
		return
	}
	write(w, http.StatusServiceUnavailable, "not ready")
}

func write(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
