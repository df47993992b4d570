package limits

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/dimerapp/config-parser/internal/templates"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	// Allowed reports whether the call may proceed.
	Allowed bool
	// Reason explains a denial.
	Reason string
}

type toolState struct {
	count   int
	limiter *rate.Limiter
}

// Store limits tool usage by total count and rate, tracked per tool.
type Store struct {
	mu            sync.Mutex
	byTool        map[string]*toolState
	maxTotal      int
	ratePerMinute int
	renderer      templates.Renderer
}

// New returns a Store. Zero maxTotal or ratePerMinute disables that limit.
func New(maxTotal, ratePerMinute int, renderer templates.Renderer) *Store {
	return &Store{
		byTool:        make(map[string]*toolState),
		maxTotal:      maxTotal,
		ratePerMinute: ratePerMinute,
		renderer:      renderer,
	}
}

// Enabled reports whether any limit is configured.
func (s *Store) Enabled() bool {
	return s != nil && (s.maxTotal > 0 || s.ratePerMinute > 0)
}

// Allow records one call of tool when it is within limits.
func (s *Store) Allow(tool string) Decision {
	if !s.Enabled() {
		return Decision{Allowed: true}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.byTool[tool]
	if state == nil {
		state = &toolState{}
		if s.ratePerMinute > 0 {
			state.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.ratePerMinute)), s.ratePerMinute)
		}
		s.byTool[tool] = state
	}

	data := map[string]any{"Tool": tool}
	if s.maxTotal > 0 && state.count >= s.maxTotal {
		return Decision{Reason: templates.Text(s.renderer, "limits.max_total", data, "Maximum number of calls exceeded")}
	}
	if state.limiter != nil && !state.limiter.Allow() {
		return Decision{Reason: templates.Text(s.renderer, "limits.rate_limit", data, "Rate limit exceeded")}
	}

	state.count++
	return Decision{Allowed: true}
}
