package risk

// DetectionPattern describes a class of anti-bot response the crawler side may
// encounter: a category, the indicator strings that identify it, and a weight.
// The catalog is static reference data; scoring does not consult it.
type DetectionPattern struct {
	Category   string   `json:"category"`
	Indicators []string `json:"indicators"`
	Weight     float64  `json:"weight"`
}

func defaultPatterns() []DetectionPattern {
	return []DetectionPattern{
		{
			Category:   "rate_limiting",
			Indicators: []string{"429", "rate limit"},
			Weight:     0.8,
		},
		{
			Category:   "captcha",
			Indicators: []string{"captcha", "recaptcha"},
			Weight:     0.9,
		},
		{
			Category:   "bot_detection",
			Indicators: []string{"bot detected", "unusual traffic"},
			Weight:     0.95,
		},
	}
}
