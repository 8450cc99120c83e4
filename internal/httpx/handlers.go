package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/quietpath/quietpath/internal/metrics"
	"github.com/quietpath/quietpath/internal/orchestrator"
	cfg "github.com/quietpath/quietpath/pkg/config"
)

// Rotator is the manual-rotation slice of the scheduler.
type Rotator interface {
	RotateNow()
}

type Env struct {
	Cfg       cfg.Config
	Orch      *orchestrator.Orchestrator
	Scheduler Rotator
	Metrics   *metrics.Metrics
}

func (e Env) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

func (e Env) Ready(w http.ResponseWriter, r *http.Request) {
	// TODO: verify sink connectivity (Kafka/PG) before returning 200
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
}

// POST /security/configure — score the target and issue an evasion profile.
func (e Env) Configure(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "application/json") {
		http.Error(w, "content-type must be application/json", http.StatusUnsupportedMediaType)
		return
	}

	defer r.Body.Close()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, e.Cfg.MaxBodyBytes))
	if err != nil {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}

	var req orchestrator.Request
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Target == "" {
		writeError(w, http.StatusBadRequest, "target is required")
		return
	}

	config, err := e.Orch.Configure(req)
	if err != nil {
		var unavailable *orchestrator.ResourceUnavailableError
		if errors.As(err, &unavailable) {
			if e.Metrics != nil {
				e.Metrics.IncrementResourceUnavailable(unavailable.Resource)
			}
			writeError(w, http.StatusInternalServerError, unavailable.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "configuration failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(config)
}

// GET /fingerprint/{tier} — look up the active fingerprint for a tier.
func (e Env) Fingerprint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tier := strings.TrimPrefix(r.URL.Path, "/fingerprint/")
	if tier == "" || strings.Contains(tier, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	record, ok := e.Orch.Fingerprint(tier)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(record)
}

// POST /fingerprint/rotate — force a rotation outside the schedule.
func (e Env) Rotate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if e.Scheduler != nil {
		e.Scheduler.RotateNow()
	} else {
		e.Orch.RotateNow()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "fingerprints rotated"})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
