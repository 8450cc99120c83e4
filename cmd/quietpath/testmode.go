package main

import (
	"log"
	"time"

	"github.com/quietpath/quietpath/internal/orchestrator"
)

// testRequests covers each risk band so every tier of the pipeline runs at
// least once against the configured sinks.
func testRequests() []orchestrator.Request {
	return []orchestrator.Request{
		{Target: "https://example.com/catalog", JobType: "scrape", Priority: 1},
		{Target: "https://shop.example.com/search?q=widgets", JobType: "scrape", Priority: 2},
		{Target: "https://facebook.com/some-profile", JobType: "monitor", Priority: 3},
		{Target: "https://records.example.gov/filings", JobType: "archive", Priority: 5},
		{Target: "https://portal.example.gov/login?recaptcha=1", JobType: "archive", Priority: 4},
	}
}

// runTestMode issues one configuration per sample target so sink wiring can
// be verified without a client.
func runTestMode(orch *orchestrator.Orchestrator) {
	log.Println("test mode: issuing sample configurations...")

	reqs := testRequests()
	for i, req := range reqs {
		cfg, err := orch.Configure(req)
		if err != nil {
			log.Printf("test mode: request %d/%d failed for %s: %v", i+1, len(reqs), req.Target, err)
			continue
		}
		log.Printf("test mode: %d/%d %s -> fingerprint=%s proxy=%s", i+1, len(reqs), req.Target, cfg.FingerprintID, cfg.Proxy.Kind)

		if i < len(reqs)-1 {
			time.Sleep(200 * time.Millisecond)
		}
	}

	log.Println("test mode: done; check the configured sinks for audit records")
}
