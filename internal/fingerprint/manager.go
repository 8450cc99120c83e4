// Package fingerprint maintains the tiered corpus of browser fingerprints and
// the rotation of the active record per tier.
package fingerprint

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Record is one browser identity: the header values a client presents when
// impersonating that browser. Records are immutable once issued; rotation
// replaces them wholesale.
type Record struct {
	ID             string `json:"id"`
	UserAgent      string `json:"user_agent"`
	Accept         string `json:"accept"`
	AcceptLanguage string `json:"accept_language"`
	AcceptEncoding string `json:"accept_encoding"`
	DNT            string `json:"dnt"`
}

// Manager holds one active record per tier and rotates them from the backing
// corpus. Lookups take the read lock; rotation takes the write lock, so a
// rotation is never observable half-applied.
type Manager struct {
	mu     sync.RWMutex
	active map[string]Record
	corpus map[string][]Record
	rng    *rand.Rand
}

// NewManager returns a Manager seeded from the wall clock with the built-in
// corpus and an active record selected for every tier.
func NewManager() *Manager {
	return NewManagerWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewManagerWithRand is for deterministic tests.
func NewManagerWithRand(rng *rand.Rand) *Manager {
	m := &Manager{
		active: make(map[string]Record),
		corpus: defaultCorpus(),
		rng:    rng,
	}
	m.Rotate()
	return m
}

// Get returns the active record for tier. The second return is false when the
// tier has no backing record.
func (m *Manager) Get(tier string) (Record, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.active[tier]
	return rec, ok
}

// Tiers lists the tiers the corpus backs.
func (m *Manager) Tiers() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tiers := make([]string, 0, len(m.corpus))
	for tier := range m.corpus {
		tiers = append(tiers, tier)
	}
	return tiers
}

// Rotate replaces the active record of every tier with a fresh pick from the
// corpus under a new identity. Callers racing Get during a rotation see either
// the old set or the new set, never a mix.
func (m *Manager) Rotate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for tier, candidates := range m.corpus {
		if len(candidates) == 0 {
			continue
		}
		rec := candidates[m.rng.Intn(len(candidates))]
		rec.ID = tier + "-" + uuid.New().String()[:8]
		m.active[tier] = rec
	}
}
