// Package risk estimates how likely a target domain is to detect automated
// browsing. Scores are normalized to [0,1] and cached for the lifetime of the
// process; there is no eviction.
package risk

import (
	"net/url"
	"strings"
	"sync"
)

// Assessor computes and memoizes a risk score per target. A single mutex
// covers the whole check-compute-insert sequence, so every lookup (cache hits
// included) serializes behind it. That contention point is intentional and
// covered by tests; replacing it with a read/upgrade pattern is a deliberate
// redesign, not a cleanup.
type Assessor struct {
	mu        sync.Mutex
	cache     map[string]float64
	patterns  []DetectionPattern
	heuristic func(string) float64
}

// NewAssessor returns an Assessor with the built-in scoring heuristic and the
// static detection-pattern catalog.
func NewAssessor() *Assessor {
	return &Assessor{
		cache:     make(map[string]float64),
		patterns:  defaultPatterns(),
		heuristic: ScoreTarget,
	}
}

// NewAssessorWithHeuristic is for tests that need to observe or replace the
// underlying computation.
func NewAssessorWithHeuristic(h func(string) float64) *Assessor {
	a := NewAssessor()
	a.heuristic = h
	return a
}

// Score returns the cached risk score for target, computing and caching it on
// first sight. For a fixed target the result is pure and reproducible.
func (a *Assessor) Score(target string) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	if cached, ok := a.cache[target]; ok {
		return cached
	}

	score := a.heuristic(target)
	a.cache[target] = score
	return score
}

// CacheSize reports the number of memoized targets.
func (a *Assessor) CacheSize() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.cache)
}

// Patterns returns the detection-pattern catalog. The catalog is descriptive
// data for operators; nothing in the scoring path consults it.
func (a *Assessor) Patterns() []DetectionPattern {
	out := make([]DetectionPattern, len(a.patterns))
	copy(out, a.patterns)
	return out
}

// ScoreTarget is the additive scoring heuristic. Substring checks run against
// the raw target, case-sensitive and unnormalized. The .gov/.mil suffix check
// runs against the URL host when the target parses as one, so
// "https://irs.gov/file" still counts as a government target.
func ScoreTarget(target string) float64 {
	score := 0.0

	// CDN-protected sites
	if strings.Contains(target, "cloudflare") || strings.Contains(target, "akamai") {
		score += 0.3
	}

	// Government sites
	if hasDomainSuffix(target, ".gov") || hasDomainSuffix(target, ".mil") {
		score += 0.5
	}

	// Known anti-bot services
	if strings.Contains(target, "recaptcha") || strings.Contains(target, "captcha") {
		score += 0.4
	}

	// Social media platforms
	if strings.Contains(target, "facebook") || strings.Contains(target, "twitter") ||
		strings.Contains(target, "linkedin") || strings.Contains(target, "instagram") {
		score += 0.6
	}

	return clamp01(score)
}

func hasDomainSuffix(target, suffix string) bool {
	if u, err := url.Parse(target); err == nil && u.Host != "" {
		return strings.HasSuffix(u.Hostname(), suffix)
	}
	return strings.HasSuffix(target, suffix)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
