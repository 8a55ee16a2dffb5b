// Package storage provides the blob store attachment binaries are uploaded
// to. The local implementation writes under a root directory and serves the
// files over the API's static file route.
package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStore stores blobs on the local filesystem.
type LocalStore struct {
	root    string
	baseURL string
}

// NewLocalStore prepares the upload root. baseURL is the externally visible
// prefix the stored keys are served from, e.g. http://localhost:8080/files.
func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if root == "" {
		root = "./uploads"
	}
	if err := os.MkdirAll(root, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &LocalStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Root returns the directory blobs are written under.
func (s *LocalStore) Root() string { return s.root }

// Upload writes the blob and returns its public URL.
func (s *LocalStore) Upload(ctx context.Context, key string, content []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	cleaned, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	fullPath := filepath.Join(s.root, filepath.FromSlash(cleaned))
	if err := os.MkdirAll(filepath.Dir(fullPath), os.ModePerm); err != nil {
		return "", fmt.Errorf("create blob directory: %w", err)
	}
	if err := os.WriteFile(fullPath, content, 0o644); err != nil {
		return "", fmt.Errorf("write blob: %w", err)
	}
	return s.PublicURL(cleaned), nil
}

// PublicURL returns the URL a stored key is reachable at.
func (s *LocalStore) PublicURL(key string) string {
	cleaned, err := cleanKey(key)
	if err != nil {
		return ""
	}
	return s.baseURL + "/" + cleaned
}

// cleanKey normalizes a blob key and refuses anything escaping the root.
func cleanKey(key string) (string, error) {
	cleaned := path.Clean(strings.ReplaceAll(key, "\\", "/"))
	if cleaned == "." || cleaned == "/" || strings.HasPrefix(cleaned, "../") || strings.HasPrefix(cleaned, "/") {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return cleaned, nil
}
