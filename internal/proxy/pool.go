// Package proxy holds the shared proxy pool and its risk-conditioned
// selection policy.
package proxy

import (
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Descriptor identifies one upstream proxy.
type Descriptor struct {
	URL              string `json:"proxy_url" yaml:"url"`
	Kind             string `json:"proxy_type" yaml:"kind"`
	RotationInterval int64  `json:"rotation_interval" yaml:"rotation_interval"`
}

// Direct is the fallback used when the pool is empty: connect without a proxy.
func Direct() Descriptor {
	return Descriptor{URL: "direct", Kind: "direct", RotationInterval: 300}
}

// Pool is an ordered, read-mostly list of proxies. Selection takes the read
// lock; SetProxies is the only mutation path and takes the write lock.
type Pool struct {
	mu      sync.RWMutex
	proxies []Descriptor

	// rand.Rand is not safe for concurrent use; selections under the read
	// lock still race on it without this guard.
	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewPool returns an empty pool seeded from the wall clock.
func NewPool() *Pool {
	return NewPoolWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewPoolWithRand is for deterministic tests.
func NewPoolWithRand(rng *rand.Rand) *Pool {
	return &Pool{rng: rng}
}

// SetProxies replaces the pool contents.
func (p *Pool) SetProxies(proxies []Descriptor) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.proxies = make([]Descriptor, len(proxies))
	copy(p.proxies, proxies)
}

// Len reports the pool size.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.proxies)
}

// Select picks a proxy for a risk score. An empty pool always yields the
// direct descriptor. High-risk targets (score > 0.5) draw uniformly from the
// pool to model rotating proxies; everything else sticks to the first entry.
func (p *Pool) Select(score float64) Descriptor {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if len(p.proxies) == 0 {
		return Direct()
	}

	idx := 0
	if score > 0.5 {
		p.rngMu.Lock()
		idx = p.rng.Intn(len(p.proxies))
		p.rngMu.Unlock()
	}
	return p.proxies[idx]
}

// poolFile is the YAML shape of PROXY_POOL_FILE.
type poolFile struct {
	Proxies []Descriptor `yaml:"proxies"`
}

// LoadFile populates the pool from a YAML file. Missing rotation intervals
// default to 300 seconds; entries without a URL are rejected.
func (p *Pool) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read proxy pool file: %w", err)
	}

	var pf poolFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return fmt.Errorf("parse proxy pool file: %w", err)
	}

	for i := range pf.Proxies {
		if pf.Proxies[i].URL == "" {
			return fmt.Errorf("proxy pool file: entry %d has no url", i)
		}
		if pf.Proxies[i].Kind == "" {
			pf.Proxies[i].Kind = "datacenter"
		}
		if pf.Proxies[i].RotationInterval <= 0 {
			pf.Proxies[i].RotationInterval = 300
		}
	}

	p.SetProxies(pf.Proxies)
	return nil
}
