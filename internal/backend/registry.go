// Package backend holds the closed set of supported video-generation models
// and builds their submission payloads. All backend-specific knowledge lives
// here; the orchestrator never branches on a model identifier.
package backend

import (
	"fmt"
	"sort"

	"vidgen/internal/domain"
)

// Config describes one generation backend: where to submit and how to shape
// the request body. The set of configs is fixed at process start.
type Config struct {
	// ID is the public model identifier used by callers.
	ID string
	// Name is the human-readable display name.
	Name string
	// Version pins an exact model revision. When set, submissions go to
	// the generic predictions endpoint with the version in the body.
	Version string
	// Endpoint is the submission path relative to the upstream API root.
	Endpoint string
	// DefaultGuidance is applied when the caller leaves guidance unset.
	// Zero means the backend has no guidance parameter at all.
	DefaultGuidance float64
	// SupportsEnhance reports whether the backend accepts an upstream
	// prompt-rewriting flag.
	SupportsEnhance bool

	build func(cfg Config, prompt string, opts domain.TuningOptions) map[string]any
}

// Payload is the request body sent to the submission endpoint.
type Payload struct {
	Version string         `json:"version,omitempty"`
	Input   map[string]any `json:"input"`
}

var registry = map[string]Config{
	"ltx-video": {
		ID:              "ltx-video",
		Name:            "Lightricks LTX-Video",
		Endpoint:        "/models/lightricks/ltx-video/predictions",
		DefaultGuidance: 3,
		build:           buildLTX,
	},
	"wan-2.1-t2v": {
		ID:              "wan-2.1-t2v",
		Name:            "Wan 2.1 Text-to-Video 480p",
		Endpoint:        "/models/wavespeedai/wan-2.1-t2v-480p/predictions",
		DefaultGuidance: 5,
		SupportsEnhance: true,
		build:           buildWan,
	},
	"hunyuan-video": {
		ID:              "hunyuan-video",
		Name:            "Tencent HunyuanVideo",
		Version:         "6c9132aee14409cd6568d030453f1ba50f5f3412b844fe67f78a9eb62d55664f",
		Endpoint:        "/predictions",
		DefaultGuidance: 6,
		build:           buildHunyuan,
	},
	"minimax-video-01": {
		ID:              "minimax-video-01",
		Name:            "MiniMax video-01",
		Endpoint:        "/models/minimax/video-01/predictions",
		SupportsEnhance: true,
		build:           buildMiniMax,
	},
}

// Resolve returns the configuration for a model identifier.
func Resolve(id string) (Config, error) {
	cfg, ok := registry[id]
	if !ok {
		return Config{}, fmt.Errorf("%w: %q", domain.ErrUnknownModel, id)
	}
	return cfg, nil
}

// IDs returns the supported model identifiers in stable order.
func IDs() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// BuildPayload translates a prompt and tuning options into the submission
// body for the given model. The prompt is passed through verbatim; tuning
// fields the backend does not support are dropped.
func BuildPayload(id, prompt string, opts domain.TuningOptions) (Payload, error) {
	cfg, err := Resolve(id)
	if err != nil {
		return Payload{}, err
	}
	return Payload{
		Version: cfg.Version,
		Input:   cfg.build(cfg, prompt, opts.Clamp()),
	}, nil
}

func (c Config) guidance(opts domain.TuningOptions) float64 {
	if opts.GuidanceScale != 0 {
		return opts.GuidanceScale
	}
	return c.DefaultGuidance
}
