// Package headers assembles the outbound header set for a selected
// fingerprint: a fixed mandatory core plus probabilistic extras that keep
// repeated requests from looking identical.
package headers

import (
	"math/rand"
	"sync"
	"time"

	"github.com/quietpath/quietpath/internal/fingerprint"
)

// Augmentation probabilities. Cache-Control and the Sec-Fetch triplet are
// independent trials; the triplet is added as a unit or not at all.
const (
	cacheControlProb = 0.7
	secFetchProb     = 0.5
)

// Builder produces header maps from fingerprint records. The random source is
// injectable so tests can pin the trials.
type Builder struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewBuilder returns a Builder seeded from the wall clock.
func NewBuilder() *Builder {
	return NewBuilderWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewBuilderWithRand is for deterministic tests.
func NewBuilderWithRand(rng *rand.Rand) *Builder {
	return &Builder{rng: rng}
}

// Build returns the header set for a fingerprint: the 7 mandatory entries,
// plus Cache-Control with probability 0.7 and the Sec-Fetch triplet with
// probability 0.5.
func (b *Builder) Build(fp fingerprint.Record) map[string]string {
	h := map[string]string{
		"User-Agent":                fp.UserAgent,
		"Accept":                    fp.Accept,
		"Accept-Language":           fp.AcceptLanguage,
		"Accept-Encoding":           fp.AcceptEncoding,
		"DNT":                       fp.DNT,
		"Connection":                "keep-alive",
		"Upgrade-Insecure-Requests": "1",
	}

	b.mu.Lock()
	addCacheControl := b.rng.Float64() < cacheControlProb
	addSecFetch := b.rng.Float64() < secFetchProb
	b.mu.Unlock()

	if addCacheControl {
		h["Cache-Control"] = "max-age=0"
	}
	if addSecFetch {
		h["Sec-Fetch-Dest"] = "document"
		h["Sec-Fetch-Mode"] = "navigate"
		h["Sec-Fetch-Site"] = "none"
	}

	return h
}
