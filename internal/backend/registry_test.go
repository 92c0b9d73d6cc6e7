package backend

import (
	"errors"
	"reflect"
	"testing"

	"vidgen/internal/domain"
)

func TestResolveKnownModels(t *testing.T) {
	for _, id := range IDs() {
		cfg, err := Resolve(id)
		if err != nil {
			t.Fatalf("Resolve(%q) returned error: %v", id, err)
		}
		if cfg.ID != id {
			t.Fatalf("Resolve(%q).ID = %q", id, cfg.ID)
		}
		if cfg.Endpoint == "" {
			t.Fatalf("Resolve(%q) has empty endpoint", id)
		}
		if cfg.build == nil {
			t.Fatalf("Resolve(%q) has no payload builder", id)
		}
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	for _, id := range IDs() {
		first, err := Resolve(id)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", id, err)
		}
		second, err := Resolve(id)
		if err != nil {
			t.Fatalf("Resolve(%q) second call: %v", id, err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("Resolve(%q) not stable: %#v vs %#v", id, first, second)
		}
	}
}

func TestResolveUnknownModel(t *testing.T) {
	_, err := Resolve("sora-9000")
	if !errors.Is(err, domain.ErrUnknownModel) {
		t.Fatalf("Resolve(unknown) error = %v, want ErrUnknownModel", err)
	}
	if _, err := BuildPayload("sora-9000", "a cat", domain.TuningOptions{}); !errors.Is(err, domain.ErrUnknownModel) {
		t.Fatalf("BuildPayload(unknown) error = %v, want ErrUnknownModel", err)
	}
}

func TestVersionPinnedBackendUsesGenericEndpoint(t *testing.T) {
	cfg, err := Resolve("hunyuan-video")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Version == "" {
		t.Fatalf("hunyuan-video should pin a version")
	}
	if cfg.Endpoint != "/predictions" {
		t.Fatalf("endpoint = %q, want /predictions", cfg.Endpoint)
	}
	payload, err := BuildPayload("hunyuan-video", "a cat", domain.TuningOptions{})
	if err != nil {
		t.Fatalf("BuildPayload: %v", err)
	}
	if payload.Version != cfg.Version {
		t.Fatalf("payload version = %q, want %q", payload.Version, cfg.Version)
	}
}

func TestModelRoutedBackendsOmitVersion(t *testing.T) {
	for _, id := range IDs() {
		cfg, _ := Resolve(id)
		if cfg.Version != "" {
			continue
		}
		payload, err := BuildPayload(id, "a cat", domain.TuningOptions{})
		if err != nil {
			t.Fatalf("BuildPayload(%q): %v", id, err)
		}
		if payload.Version != "" {
			t.Fatalf("%s: model-routed backend leaked a version %q", id, payload.Version)
		}
	}
}
