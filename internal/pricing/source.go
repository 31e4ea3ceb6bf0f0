package pricing

import (
	"math/rand/v2"
	"sync"
)

// Source supplies the demand perturbation. It is an explicit dependency so
// tests can pin the draw and get fully deterministic quotes.
type Source interface {
	Uniform(low, high float64) float64
}

// randSource wraps math/rand/v2 behind a mutex so one engine can serve
// concurrent reservations.
type randSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandomSource returns the production source, seeded from the system
// entropy pool.
func NewRandomSource() Source {
	return &randSource{r: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

func (s *randSource) Uniform(low, high float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return low + s.r.Float64()*(high-low)
}

// FixedSource always returns the same value, ignoring the requested range.
// Intended for tests that need deterministic pricing.
type FixedSource float64

func (s FixedSource) Uniform(_, _ float64) float64 { return float64(s) }
