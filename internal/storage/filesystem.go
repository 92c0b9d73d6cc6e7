// Package storage saves generated media onto the local filesystem. The
// download step is purely local: the media URL comes back from the
// orchestrator and is fetched like any public object.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// FileStore persists media files under a base directory.
type FileStore struct {
	basePath   string
	httpClient *http.Client
}

// NewFileStore initializes a FileStore rooted at basePath.
func NewFileStore(basePath string, httpClient *http.Client) (*FileStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &FileStore{basePath: basePath, httpClient: httpClient}, nil
}

// BasePath returns the configured root directory.
func (s *FileStore) BasePath() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

// SaveURL streams the media at mediaURL into the store at the given relative
// key and returns the absolute path written. Keys are cleaned to prevent
// directory traversal.
func (s *FileStore) SaveURL(ctx context.Context, mediaURL, key string) (string, error) {
	if s == nil {
		return "", errors.New("storage: no store configured")
	}
	parsed, err := url.Parse(strings.TrimSpace(mediaURL))
	if err != nil || parsed.Scheme == "" {
		return "", fmt.Errorf("storage: invalid media url: %s", mediaURL)
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return "", fmt.Errorf("storage: build download request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage: download media: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("storage: download status %d", resp.StatusCode)
	}

	fullPath := filepath.Join(s.basePath, filepath.FromSlash(cleanKey))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("storage: ensure directory: %w", err)
	}
	out, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("storage: create file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	return fullPath, nil
}

// sanitizeKey normalizes a key and prevents escaping the storage root.
func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("storage: key is required")
	}
	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimPrefix(key, "./")
	key = strings.TrimLeft(key, "/")
	cleaned := filepath.Clean(key)
	cleaned = strings.ReplaceAll(cleaned, "\\", "/")
	if cleaned == "." || strings.HasPrefix(cleaned, "../") {
		return "", errors.New("storage: invalid key")
	}
	return cleaned, nil
}
