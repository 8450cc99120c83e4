// Package policy maps risk scores onto named tiers and timing bands. All
// functions are pure; comparisons are strict, so a score sitting exactly on a
// threshold falls to the lower tier.
package policy

// Fingerprint tiers, highest to lowest.
const (
	TierStealth  = "stealth"
	TierStandard = "standard"
	TierSimple   = "simple"
)

// TLS profile names.
const (
	TLSChromeLatest    = "chrome_latest"
	TLSFirefoxStandard = "firefox_standard"
)

// TimingBand describes the request pacing for a risk level.
// MinDelayMS <= MaxDelayMS always holds.
type TimingBand struct {
	MinDelayMS      int64 `json:"request_delay_min"`
	MaxDelayMS      int64 `json:"request_delay_max"`
	PageLoadDelayMS int64 `json:"page_load_delay"`
	HumanSimulation bool  `json:"human_simulation"`
}

// FingerprintTier selects the fingerprint class for a score.
func FingerprintTier(score float64) string {
	switch {
	case score > 0.7:
		return TierStealth
	case score > 0.4:
		return TierStandard
	default:
		return TierSimple
	}
}

// TLSTier selects the TLS emulation profile name for a score.
func TLSTier(score float64) string {
	if score > 0.6 {
		return TLSChromeLatest
	}
	return TLSFirefoxStandard
}

// TimingFor selects the delay band for a score.
func TimingFor(score float64) TimingBand {
	switch {
	case score > 0.7:
		// Slow, human-like pacing for high-risk targets.
		return TimingBand{MinDelayMS: 2000, MaxDelayMS: 8000, PageLoadDelayMS: 3000, HumanSimulation: true}
	case score > 0.4:
		return TimingBand{MinDelayMS: 1000, MaxDelayMS: 4000, PageLoadDelayMS: 2000, HumanSimulation: true}
	default:
		return TimingBand{MinDelayMS: 500, MaxDelayMS: 2000, PageLoadDelayMS: 1000, HumanSimulation: false}
	}
}
