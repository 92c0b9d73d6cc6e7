package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveURL(t *testing.T) {
	media := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/mp4")
		_, _ = w.Write([]byte("mp4-bytes"))
	}))
	defer media.Close()

	store, err := NewFileStore(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	path, err := store.SaveURL(context.Background(), media.URL+"/x.mp4", "out/x.mp4")
	if err != nil {
		t.Fatalf("SaveURL: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(data) != "mp4-bytes" {
		t.Fatalf("saved content = %q", data)
	}
	if filepath.Base(path) != "x.mp4" {
		t.Fatalf("saved path = %q", path)
	}
}

func TestSaveURLRejectsBadInput(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if _, err := store.SaveURL(context.Background(), "not-a-url", "x.mp4"); err == nil {
		t.Fatalf("accepted an invalid media url")
	}
	if _, err := store.SaveURL(context.Background(), "https://cdn.example.com/x.mp4", "../escape.mp4"); err == nil {
		t.Fatalf("accepted a traversal key")
	}
}

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "a/b.mp4", want: "a/b.mp4"},
		{in: "./a.mp4", want: "a.mp4"},
		{in: "/a.mp4", want: "a.mp4"},
		{in: "a\\b.mp4", want: "a/b.mp4"},
		{in: "../a.mp4", wantErr: true},
		{in: "  ", wantErr: true},
	}
	for _, tc := range tests {
		got, err := sanitizeKey(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("sanitizeKey(%q) accepted", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("sanitizeKey(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("sanitizeKey(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
