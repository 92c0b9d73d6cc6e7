package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpapi "vidgen/internal/http/httpapi"
	"vidgen/internal/infra"
	"vidgen/internal/infra/geoip"
	"vidgen/internal/middleware"
	"vidgen/internal/proxy"
)

func main() {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if cfg.UpstreamToken == "" {
		logger.Warn().Msg("REPLICATE_API_TOKEN is not set; proxied requests will fail with a configuration error")
	}

	var lookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open geoip database")
	}
	if resolver != nil {
		defer resolver.Close()
		lookup = resolver.CountryCode
	}

	gateway := proxy.New(proxy.Options{
		BaseURL:    cfg.UpstreamBaseURL,
		Token:      cfg.UpstreamToken,
		PathPrefix: cfg.ProxyPathPrefix,
		HTTPClient: &http.Client{Timeout: cfg.UpstreamTimeout},
		Logger:     &logger,
	})

	router := httpapi.NewRouter(httpapi.Options{
		Gateway:       gateway,
		PathPrefix:    cfg.ProxyPathPrefix,
		Logger:        logger,
		CountryLookup: lookup,
		CORSOrigins:   cfg.CORSAllowedOrigins,
		RateLimitPerM: cfg.RateLimitPerMin,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("gateway listening on :%s (upstream %s)", cfg.Port, cfg.UpstreamBaseURL)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
