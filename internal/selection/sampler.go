// Package selection draws the question subset an exam paper is built
// from: a uniform sample without replacement over the eligible set.
package selection

import (
	"math/rand"
	"sync"
	"time"

	"compliance-service/internal/models"
)

// Sampler is shared across concurrent requests; the mutex serializes
// draws because rand.Rand is not safe for concurrent use.
type Sampler struct {
	mu   sync.Mutex
	rand *rand.Rand
}

func NewSampler() *Sampler {
	return &Sampler{rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeededSampler returns a deterministic sampler for reproducible runs.
func NewSeededSampler(seed int64) *Sampler {
	return &Sampler{rand: rand.New(rand.NewSource(seed))}
}

// Sample returns n questions drawn uniformly without replacement. The
// input slice is not modified. When n meets or exceeds the pool size the
// whole pool is returned in drawn order.
func (s *Sampler) Sample(questions []models.Question, n int) []models.Question {
	if n <= 0 {
		return []models.Question{}
	}
	pool := make([]models.Question, len(questions))
	copy(pool, questions)
	if n > len(pool) {
		n = len(pool)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// Partial Fisher-Yates: each draw swaps the pick into position i, so
	// no index can be drawn twice.
	for i := 0; i < n; i++ {
		j := i + s.rand.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}
