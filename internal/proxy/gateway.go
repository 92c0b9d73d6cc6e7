// Package proxy implements the trust-boundary relay in front of the
// upstream generation API. It is the only component that ever sees the
// upstream credential; clients talk to it with no credentials at all.
package proxy

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"vidgen/internal/infra"
)

// Options configures the gateway.
type Options struct {
	// BaseURL is the upstream API root, e.g. https://api.replicate.com/v1.
	BaseURL string
	// Token is the upstream credential. It may be empty; every request is
	// then answered with a configuration error without touching upstream.
	Token string
	// PathPrefix is stripped from inbound request paths before the
	// remainder is concatenated onto BaseURL.
	PathPrefix string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Gateway forwards any method on any sub-path beneath its prefix to the
// upstream API, injecting the credential on the way out. It performs no
// retries and no semantic transformation: upstream status codes and bodies
// are mirrored verbatim, including non-2xx responses.
type Gateway struct {
	baseURL    string
	token      string
	prefix     string
	httpClient *http.Client
	logger     *infra.Logger
}

// New constructs a gateway with sane defaults.
func New(opts Options) *Gateway {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.replicate.com/v1"
	}
	prefix := opts.PathPrefix
	if prefix == "" {
		prefix = "/api"
	}
	return &Gateway{
		baseURL:    baseURL,
		token:      strings.TrimSpace(opts.Token),
		prefix:     prefix,
		httpClient: httpClient,
		logger:     opts.Logger,
	}
}

// hop-by-hop headers must not be forwarded in either direction.
var hopHeaders = []string{
	"Connection", "Keep-Alive", "Proxy-Authenticate", "Proxy-Authorization",
	"Proxy-Connection", "Te", "Trailer", "Transfer-Encoding", "Upgrade",
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if g.token == "" {
		g.writeError(w, http.StatusInternalServerError, "configuration_error",
			"upstream credential is not configured")
		observe(r.Method, "configuration_error", time.Since(start))
		return
	}

	subpath := strings.TrimPrefix(r.URL.Path, g.prefix)
	if !strings.HasPrefix(subpath, "/") {
		subpath = "/" + subpath
	}
	target := g.baseURL + subpath
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	var body io.Reader
	if r.Body != nil && r.Method != http.MethodGet && r.Method != http.MethodHead {
		body = r.Body
	}
	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, body)
	if err != nil {
		g.writeError(w, http.StatusInternalServerError, "bad_request",
			fmt.Sprintf("build upstream request: %v", err))
		observe(r.Method, "bad_request", time.Since(start))
		return
	}
	copyHeaders(req.Header, r.Header)
	// The client's own Authorization, if any, never reaches upstream;
	// only the gateway's credential does.
	req.Header.Set("Authorization", "Bearer "+g.token)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		if g.logger != nil {
			g.logger.Error().Err(err).Str("target", target).Msg("proxy: upstream unreachable")
		}
		g.writeError(w, http.StatusInternalServerError, "upstream_unreachable",
			fmt.Sprintf("reach upstream: %v", err))
		observe(r.Method, "upstream_unreachable", time.Since(start))
		return
	}
	defer resp.Body.Close()

	copyHeaders(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)

	observe(r.Method, fmt.Sprintf("%d", resp.StatusCode), time.Since(start))
	if g.logger != nil {
		g.logger.Debug().
			Str("method", r.Method).
			Str("subpath", subpath).
			Int("status", resp.StatusCode).
			Dur("elapsed", time.Since(start)).
			Msg("proxy: forwarded")
	}
}

func copyHeaders(dst, src http.Header) {
	for key, values := range src {
		if key == "Authorization" || key == "Host" || isHopHeader(key) {
			continue
		}
		for _, v := range values {
			dst.Add(key, v)
		}
	}
}

func isHopHeader(key string) bool {
	for _, h := range hopHeaders {
		if strings.EqualFold(h, key) {
			return true
		}
	}
	return false
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError emits a gateway-local error. The code field distinguishes these
// from upstream responses, which are passed through untouched.
func (g *Gateway) writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: errorDetail{Code: code, Message: message}})
}
