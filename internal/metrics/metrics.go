// Package metrics exposes Prometheus instrumentation for the configuration
// service and an optional standalone metrics server.
package metrics

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all the Prometheus metrics for quietpath.
type Metrics struct {
	// Counters
	ConfigurationsIssued *prometheus.CounterVec
	ResourceUnavailable  *prometheus.CounterVec
	Rotations            *prometheus.CounterVec
	SinkErrors           *prometheus.CounterVec
	HTTPRequests         *prometheus.CounterVec

	// Gauges
	RiskCacheSize prometheus.GaugeFunc

	// Histograms
	HTTPDuration *prometheus.HistogramVec
}

// Config holds configuration for the metrics server.
type Config struct {
	Enabled    bool
	Addr       string
	TLSCert    string
	TLSKey     string
	ClientCA   string
	RequireTLS bool
}

// LoadConfig loads metrics configuration from environment variables.
func LoadConfig() Config {
	return Config{
		Enabled:    getBool("METRICS_ENABLED", false),
		Addr:       getOr("METRICS_ADDR", "127.0.0.1:9090"),
		TLSCert:    getOr("METRICS_TLS_CERT", ""),
		TLSKey:     getOr("METRICS_TLS_KEY", ""),
		ClientCA:   getOr("METRICS_CLIENT_CA", ""),
		RequireTLS: getBool("METRICS_REQUIRE_TLS", false),
	}
}

// NewMetrics creates and registers all quietpath metrics. cacheSize feeds the
// risk-cache gauge; pass nil to skip it.
func NewMetrics(cacheSize func() float64) *Metrics {
	m := &Metrics{
		ConfigurationsIssued: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quietpath_configurations_issued_total",
				Help: "Total evasion configurations issued by fingerprint tier",
			},
			[]string{"tier"},
		),

		ResourceUnavailable: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quietpath_resource_unavailable_total",
				Help: "Total configuration failures by missing resource",
			},
			[]string{"resource"},
		),

		Rotations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quietpath_fingerprint_rotations_total",
				Help: "Total fingerprint rotations by trigger",
			},
			[]string{"trigger"},
		),

		SinkErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quietpath_sink_errors_total",
				Help: "Total errors writing audit events to a sink",
			},
			[]string{"sink", "error_type"},
		),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quietpath_http_requests_total",
				Help: "Total HTTP requests by endpoint and status",
			},
			[]string{"endpoint", "method", "status"},
		),

		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quietpath_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"endpoint", "method"},
		),
	}

	prometheus.MustRegister(m.ConfigurationsIssued)
	prometheus.MustRegister(m.ResourceUnavailable)
	prometheus.MustRegister(m.Rotations)
	prometheus.MustRegister(m.SinkErrors)
	prometheus.MustRegister(m.HTTPRequests)
	prometheus.MustRegister(m.HTTPDuration)

	if cacheSize != nil {
		m.RiskCacheSize = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "quietpath_risk_cache_size",
				Help: "Number of memoized risk-score targets",
			},
			cacheSize,
		)
		prometheus.MustRegister(m.RiskCacheSize)
	}

	return m
}

// Convenience methods for common operations.

func (m *Metrics) IncrementConfigurationsIssued(tier string) {
	m.ConfigurationsIssued.WithLabelValues(tier).Inc()
}

func (m *Metrics) IncrementResourceUnavailable(resource string) {
	m.ResourceUnavailable.WithLabelValues(resource).Inc()
}

func (m *Metrics) IncrementRotations(trigger string) {
	m.Rotations.WithLabelValues(trigger).Inc()
}

func (m *Metrics) IncrementSinkErrors(sink, errorType string) {
	m.SinkErrors.WithLabelValues(sink, errorType).Inc()
}

func (m *Metrics) IncrementHTTPRequests(endpoint, method, status string) {
	m.HTTPRequests.WithLabelValues(endpoint, method, status).Inc()
}

func (m *Metrics) ObserveHTTPDuration(endpoint, method string, duration time.Duration) {
	m.HTTPDuration.WithLabelValues(endpoint, method).Observe(duration.Seconds())
}

// Server represents the metrics HTTP server.
type Server struct {
	server *http.Server
	config Config
}

// NewServer creates a new metrics server.
func NewServer(config Config) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	srv := &http.Server{
		Addr:         config.Addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if config.RequireTLS && config.TLSCert != "" && config.TLSKey != "" {
		tlsConfig := &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
		if config.ClientCA != "" {
			clientCAs, err := loadCertPool(config.ClientCA)
			if err != nil {
				log.Printf("metrics: failed to load client CA: %v", err)
			} else {
				tlsConfig.ClientCAs = clientCAs
				tlsConfig.ClientAuth = tls.RequireAndVerifyClientCert
			}
		}
		srv.TLSConfig = tlsConfig
	}

	return &Server{server: srv, config: config}
}

// Start starts the metrics server in a separate goroutine.
func (s *Server) Start(ctx context.Context) error {
	if !s.config.Enabled {
		log.Printf("metrics: disabled (METRICS_ENABLED=false)")
		return nil
	}

	go func() {
		var err error
		if s.config.RequireTLS && s.config.TLSCert != "" && s.config.TLSKey != "" {
			log.Printf("metrics: HTTPS server listening on %s", s.config.Addr)
			err = s.server.ListenAndServeTLS(s.config.TLSCert, s.config.TLSKey)
		} else {
			log.Printf("metrics: HTTP server listening on %s", s.config.Addr)
			err = s.server.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Printf("metrics: server error: %v", err)
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the metrics server.
func (s *Server) Shutdown(ctx context.Context) error {
	if !s.config.Enabled {
		return nil
	}
	log.Printf("metrics: shutting down server...")
	return s.server.Shutdown(ctx)
}

// Helper functions.

func getOr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func loadCertPool(certFile string) (*x509.CertPool, error) {
	pem, err := os.ReadFile(certFile)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, errors.New("no certificates parsed from " + certFile)
	}
	return pool, nil
}
