// Package event defines the audit record emitted for every evasion profile
// the service issues. Records flow to the configured sinks; they are an audit
// trail, not service state.
package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/quietpath/quietpath/internal/policy"
)

// Issued captures one configuration decision. Optional fields are omitted
// when empty.
type Issued struct {
	EventID string `json:"event_id,omitempty"`
	TS      string `json:"ts,omitempty"` // ISO8601

	Target   string `json:"target,omitempty"`
	JobType  string `json:"job_type,omitempty"`
	Priority int    `json:"priority,omitempty"`

	RiskScore       float64 `json:"risk_score"`
	FingerprintTier string  `json:"fingerprint_tier,omitempty"`
	FingerprintID   string  `json:"fingerprint_id,omitempty"`
	TLSProfile      string  `json:"tls_profile,omitempty"`
	ProxyKind       string  `json:"proxy_kind,omitempty"`
	HumanSimulation bool    `json:"human_simulation"`
}

// NewIssued stamps identity and timestamp on a record.
func NewIssued(target, jobType string, priority int, score float64, band policy.TimingBand) Issued {
	return Issued{
		EventID:         uuid.New().String(),
		TS:              time.Now().UTC().Format(time.RFC3339Nano),
		Target:          target,
		JobType:         jobType,
		Priority:        priority,
		RiskScore:       score,
		HumanSimulation: band.HumanSimulation,
	}
}
