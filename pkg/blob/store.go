package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store persists immutable artifacts and returns a public retrieval URL.
// Overwrites are allowed; re-ending a session rewrites its analysis.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// LocalStore writes artifacts under a directory the API server exposes
// statically (the /artifacts route).
type LocalStore struct {
	root    string
	baseURL string
}

func NewLocalStore(root, baseURL string) *LocalStore {
	return &LocalStore{
		root:    root,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (s *LocalStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid artifact key: %s", key)
	}

	path := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create artifact directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}

	return fmt.Sprintf("%s/artifacts/%s", s.baseURL, key), nil
}
