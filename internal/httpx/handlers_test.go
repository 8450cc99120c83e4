package httpx

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/quietpath/quietpath/internal/event"
	"github.com/quietpath/quietpath/internal/fingerprint"
	"github.com/quietpath/quietpath/internal/headers"
	"github.com/quietpath/quietpath/internal/orchestrator"
	"github.com/quietpath/quietpath/internal/proxy"
	"github.com/quietpath/quietpath/internal/risk"
	"github.com/quietpath/quietpath/internal/tlsprofile"
	cfg "github.com/quietpath/quietpath/pkg/config"
)

func newTestEnv(t *testing.T, emit func(event.Issued)) Env {
	t.Helper()
	orch := orchestrator.New(
		risk.NewAssessor(),
		fingerprint.NewManagerWithRand(rand.New(rand.NewSource(1))),
		tlsprofile.NewManager(),
		proxy.NewPoolWithRand(rand.New(rand.NewSource(2))),
		headers.NewBuilderWithRand(rand.New(rand.NewSource(3))),
		emit,
	)
	return Env{
		Cfg:  cfg.Config{MaxBodyBytes: 1 << 20},
		Orch: orch,
	}
}

func postJSON(h http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestConfigureEndpoint(t *testing.T) {
	var emitted []event.Issued
	env := newTestEnv(t, func(e event.Issued) { emitted = append(emitted, e) })
	h := NewMux(env)

	rr := postJSON(h, "/security/configure", `{"target":"https://facebook.com/profile","job_type":"scrape","priority":2}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}

	var config orchestrator.Configuration
	if err := json.Unmarshal(rr.Body.Bytes(), &config); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// Social media target scores 0.6: standard fingerprint, sticky proxy,
	// standard timing.
	if config.FingerprintID == "" {
		t.Error("fingerprint_id is empty")
	}
	if !strings.HasPrefix(config.FingerprintID, "standard-") {
		t.Errorf("fingerprint_id = %q, want standard tier", config.FingerprintID)
	}
	if config.TLS.Name != "firefox_standard" {
		t.Errorf("tls_config.name = %q, want firefox_standard", config.TLS.Name)
	}
	if config.Proxy.Kind != "direct" {
		t.Errorf("proxy_config.proxy_type = %q, want direct for empty pool", config.Proxy.Kind)
	}
	if config.Timing.MinDelayMS != 1000 || config.Timing.MaxDelayMS != 4000 {
		t.Errorf("timing band = %+v, want standard band", config.Timing)
	}
	if config.Headers["User-Agent"] == "" {
		t.Error("headers missing User-Agent")
	}

	if len(emitted) != 1 {
		t.Fatalf("emitted %d events, want 1", len(emitted))
	}
	if emitted[0].Target != "https://facebook.com/profile" {
		t.Errorf("event target = %q", emitted[0].Target)
	}
	if emitted[0].RiskScore != 0.6 {
		t.Errorf("event risk score = %v, want 0.6", emitted[0].RiskScore)
	}
}

func TestConfigureRejectsBadRequests(t *testing.T) {
	env := newTestEnv(t, nil)
	h := NewMux(env)

	tests := []struct {
		name       string
		method     string
		body       string
		ct         string
		wantStatus int
	}{
		{"missing target", http.MethodPost, `{"job_type":"scrape"}`, "application/json", http.StatusBadRequest},
		{"malformed json", http.MethodPost, `{"target":`, "application/json", http.StatusBadRequest},
		{"wrong content type", http.MethodPost, `{"target":"https://example.com"}`, "text/plain", http.StatusUnsupportedMediaType},
		{"wrong method", http.MethodGet, "", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/security/configure", bytes.NewReader([]byte(tt.body)))
			if tt.ct != "" {
				req.Header.Set("Content-Type", tt.ct)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d: %s", rr.Code, tt.wantStatus, rr.Body.String())
			}
		})
	}
}

type emptyFingerprints struct{}

func (emptyFingerprints) Get(string) (fingerprint.Record, bool) { return fingerprint.Record{}, false }
func (emptyFingerprints) Rotate()                               {}

func TestConfigureResourceUnavailable(t *testing.T) {
	orch := orchestrator.New(
		risk.NewAssessor(),
		emptyFingerprints{},
		tlsprofile.NewManager(),
		proxy.NewPool(),
		headers.NewBuilder(),
		nil,
	)
	env := Env{Cfg: cfg.Config{MaxBodyBytes: 1 << 20}, Orch: orch}
	h := NewMux(env)

	rr := postJSON(h, "/security/configure", `{"target":"https://example.com"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(resp["error"], "fingerprint") {
		t.Errorf("error = %q, want mention of fingerprint", resp["error"])
	}
}

func TestFingerprintLookup(t *testing.T) {
	env := newTestEnv(t, nil)
	h := NewMux(env)

	for _, tier := range []string{"simple", "standard", "stealth"} {
		req := httptest.NewRequest(http.MethodGet, "/fingerprint/"+tier, nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("GET /fingerprint/%s status = %d, want 200", tier, rr.Code)
			continue
		}
		var record fingerprint.Record
		if err := json.Unmarshal(rr.Body.Bytes(), &record); err != nil {
			t.Errorf("decode %s record: %v", tier, err)
			continue
		}
		if !strings.HasPrefix(record.ID, tier+"-") {
			t.Errorf("record id = %q, want prefix %q", record.ID, tier+"-")
		}
		if record.UserAgent == "" {
			t.Errorf("%s record has empty user agent", tier)
		}
	}
}

func TestFingerprintUnknownTier(t *testing.T) {
	env := newTestEnv(t, nil)
	h := NewMux(env)

	req := httptest.NewRequest(http.MethodGet, "/fingerprint/quantum", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["error"] != "not found" {
		t.Errorf("error = %q, want not found", resp["error"])
	}
}

type countingRotator struct{ calls int }

func (c *countingRotator) RotateNow() { c.calls++ }

func TestRotateEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)
	rot := &countingRotator{}
	env.Scheduler = rot
	h := NewMux(env)

	rr := postJSON(h, "/fingerprint/rotate", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if rot.calls != 1 {
		t.Errorf("rotator calls = %d, want 1", rot.calls)
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["message"] == "" {
		t.Error("expected confirmation message")
	}

	req := httptest.NewRequest(http.MethodGet, "/fingerprint/rotate", nil)
	get := httptest.NewRecorder()
	h.ServeHTTP(get, req)
	if get.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET rotate status = %d, want 405", get.Code)
	}
}

func TestRotateWithoutSchedulerFallsBack(t *testing.T) {
	env := newTestEnv(t, nil)
	h := NewMux(env)

	before := fingerprintID(t, h, "stealth")
	rr := postJSON(h, "/fingerprint/rotate", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	after := fingerprintID(t, h, "stealth")
	if before == after {
		t.Errorf("fingerprint id unchanged across rotation: %q", after)
	}
}

func fingerprintID(t *testing.T, h http.Handler, tier string) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/fingerprint/"+tier, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("GET /fingerprint/%s status = %d", tier, rr.Code)
	}
	var record fingerprint.Record
	if err := json.Unmarshal(rr.Body.Bytes(), &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	return record.ID
}

func TestHealthAndReady(t *testing.T) {
	env := newTestEnv(t, nil)
	h := NewMux(env)

	for _, path := range []string{"/health", "/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, rr.Code)
		}
		var resp map[string]string
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Errorf("decode %s response: %v", path, err)
		}
		if resp["status"] == "" {
			t.Errorf("%s response missing status field", path)
		}
	}
}
