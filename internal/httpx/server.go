package httpx

import "net/http"

func NewMux(e Env) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", e.Health)
	mux.HandleFunc("/ready", e.Ready)
	mux.HandleFunc("/security/configure", e.Configure)

	// Exact route registered before the prefix route wins the match.
	mux.HandleFunc("/fingerprint/rotate", e.Rotate)
	mux.HandleFunc("/fingerprint/", e.Fingerprint)

	return RequestLogger(MetricsMiddleware(e.Metrics)(cors(mux)))
}
