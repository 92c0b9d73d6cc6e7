package httpapi

import (
	"encoding/json"
	stdhttp "net/http"
	"time"

	"vidgen/internal/infra"
	"vidgen/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options collects the router's collaborators.
type Options struct {
	Gateway stdhttp.Handler
	// PathPrefix is where the gateway is mounted. It must match the
	// prefix the gateway strips; defaults to /api.
	PathPrefix    string
	Logger        infra.Logger
	CountryLookup middleware.CountryLookup
	CORSOrigins   []string
	RateLimitPerM int
}

// NewRouter mounts the gateway beneath its path prefix plus the operational
// endpoints. Everything under the prefix is relayed upstream; the gateway
// itself strips the prefix.
func NewRouter(opts Options) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP, chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(opts.CORSOrigins))
	r.Use(middleware.Logger(opts.Logger, opts.CountryLookup))
	if opts.RateLimitPerM > 0 {
		r.Use(middleware.RateLimit(opts.RateLimitPerM, time.Minute))
	}

	prefix := opts.PathPrefix
	if prefix == "" {
		prefix = "/api"
	}

	r.Get("/v1/healthz", health)
	r.Handle("/metrics", promhttp.Handler())
	r.Handle(prefix+"/*", opts.Gateway)

	return r
}

func health(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
