package fingerprint

const (
	acceptHTML  = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8"
	acceptChrome = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7"
	acceptBasic = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// defaultCorpus holds the per-tier record candidates. The ID field is blank in
// the corpus; Rotate assigns identities when a record becomes active.
//
// simple:   generic, slightly dated desktop browsers for low-risk targets.
// standard: current mainstream desktop browsers.
// stealth:  latest Chrome/Firefox with full client-hint-era header values.
func defaultCorpus() map[string][]Record {
	return map[string][]Record{
		"simple": {
			{
				UserAgent:      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Safari/537.36",
				Accept:         acceptBasic,
				AcceptLanguage: "en-US,en;q=0.5",
				AcceptEncoding: "gzip, deflate",
				DNT:            "1",
			},
			{
				UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36",
				Accept:         acceptBasic,
				AcceptLanguage: "en-US,en;q=0.9",
				AcceptEncoding: "gzip, deflate",
				DNT:            "0",
			},
		},
		"standard": {
			{
				UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
				Accept:         acceptHTML,
				AcceptLanguage: "en-US,en;q=0.9",
				AcceptEncoding: "gzip, deflate, br",
				DNT:            "1",
			},
			{
				UserAgent:      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
				Accept:         acceptHTML,
				AcceptLanguage: "en-US,en;q=0.9",
				AcceptEncoding: "gzip, deflate, br",
				DNT:            "1",
			},
			{
				UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
				Accept:         acceptHTML,
				AcceptLanguage: "en-US,en;q=0.5",
				AcceptEncoding: "gzip, deflate, br",
				DNT:            "1",
			},
		},
		"stealth": {
			{
				UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
				Accept:         acceptChrome,
				AcceptLanguage: "en-US,en;q=0.9",
				AcceptEncoding: "gzip, deflate, br, zstd",
				DNT:            "1",
			},
			{
				UserAgent:      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
				Accept:         acceptChrome,
				AcceptLanguage: "en-US,en;q=0.9",
				AcceptEncoding: "gzip, deflate, br, zstd",
				DNT:            "1",
			},
			{
				UserAgent:      "Mozilla/5.0 (X11; Linux x86_64; rv:133.0) Gecko/20100101 Firefox/133.0",
				Accept:         acceptHTML,
				AcceptLanguage: "en-US,en;q=0.5",
				AcceptEncoding: "gzip, deflate, br, zstd",
				DNT:            "1",
			},
		},
	}
}
