// Package orchestrator composes risk scoring, tiering, and resource selection
// into one evasion profile per request, and schedules background fingerprint
// rotation.
package orchestrator

import (
	"github.com/quietpath/quietpath/internal/event"
	"github.com/quietpath/quietpath/internal/fingerprint"
	"github.com/quietpath/quietpath/internal/headers"
	"github.com/quietpath/quietpath/internal/policy"
	"github.com/quietpath/quietpath/internal/proxy"
	"github.com/quietpath/quietpath/internal/risk"
	"github.com/quietpath/quietpath/internal/tlsprofile"
)

// Request is one configuration request from a crawling client.
type Request struct {
	Target   string `json:"target"`
	JobType  string `json:"job_type"`
	Priority int    `json:"priority"`
}

// Configuration is the issued evasion profile.
type Configuration struct {
	Headers       map[string]string  `json:"headers"`
	TLS           tlsprofile.Profile `json:"tls_config"`
	Proxy         proxy.Descriptor   `json:"proxy_config"`
	Timing        policy.TimingBand  `json:"timing_config"`
	FingerprintID string             `json:"fingerprint_id"`
}

// FingerprintProvider is the slice of the fingerprint manager the
// orchestrator consumes.
type FingerprintProvider interface {
	Get(tier string) (fingerprint.Record, bool)
	Rotate()
}

// TLSProvider is the slice of the TLS profile manager the orchestrator
// consumes.
type TLSProvider interface {
	Get(name string) (tlsprofile.Profile, bool)
}

// Orchestrator holds shared references to the resources; each is guarded by
// its own lock, so distinct requests proceed concurrently across resources.
// Nothing here is a global: construct one at startup and pass it down.
type Orchestrator struct {
	risk         *risk.Assessor
	fingerprints FingerprintProvider
	tls          TLSProvider
	proxies      *proxy.Pool
	headers      *headers.Builder

	// emit receives one audit record per issued configuration; nil disables
	// emission. Failures downstream must not fail the request.
	emit func(event.Issued)
}

// New wires an Orchestrator. emit may be nil.
func New(assessor *risk.Assessor, fp FingerprintProvider, tls TLSProvider, pool *proxy.Pool, hb *headers.Builder, emit func(event.Issued)) *Orchestrator {
	return &Orchestrator{
		risk:         assessor,
		fingerprints: fp,
		tls:          tls,
		proxies:      pool,
		headers:      hb,
		emit:         emit,
	}
}

// Configure runs the pipeline: score, select fingerprint, TLS profile, proxy,
// timing band, then assemble headers. The first stage to fail short-circuits;
// no partial configuration is ever returned.
func (o *Orchestrator) Configure(req Request) (Configuration, error) {
	score := o.risk.Score(req.Target)

	fpTier := policy.FingerprintTier(score)
	fp, ok := o.fingerprints.Get(fpTier)
	if !ok {
		return Configuration{}, &ResourceUnavailableError{Resource: "fingerprint"}
	}

	tlsName := policy.TLSTier(score)
	profile, ok := o.tls.Get(tlsName)
	if !ok {
		return Configuration{}, &ResourceUnavailableError{Resource: "tls_profile"}
	}

	prx := o.proxies.Select(score)
	band := policy.TimingFor(score)
	hdrs := o.headers.Build(fp)

	cfg := Configuration{
		Headers:       hdrs,
		TLS:           profile,
		Proxy:         prx,
		Timing:        band,
		FingerprintID: fp.ID,
	}

	if o.emit != nil {
		ev := event.NewIssued(req.Target, req.JobType, req.Priority, score, band)
		ev.FingerprintTier = fpTier
		ev.FingerprintID = fp.ID
		ev.TLSProfile = profile.Name
		ev.ProxyKind = prx.Kind
		o.emit(ev)
	}

	return cfg, nil
}

// RotateNow triggers a manual fingerprint rotation. It shares the manager's
// exclusive critical section with the scheduler, so a manual rotation cannot
// interleave with a scheduled one.
func (o *Orchestrator) RotateNow() {
	o.fingerprints.Rotate()
}

// Fingerprint exposes tier lookup for the HTTP surface.
func (o *Orchestrator) Fingerprint(tier string) (fingerprint.Record, bool) {
	return o.fingerprints.Get(tier)
}
