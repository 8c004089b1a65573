package helper

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalBlobService menyimpan object di disk (dev / single node).
// File disajikan oleh app.Static pada PublicBaseURL.
type LocalBlobService struct {
	Root          string
	PublicBaseURL string
}

func NewLocalBlobService(root, publicBaseURL string) (*LocalBlobService, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("STORAGE_LOCAL_DIR kosong")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir storage root: %w", err)
	}
	return &LocalBlobService{Root: root, PublicBaseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

func (s *LocalBlobService) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	full := filepath.Join(s.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("mkdir object dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write object %q: %w", key, err)
	}
	return s.PublicBaseURL + "/" + key, nil
}

func (s *LocalBlobService) Delete(ctx context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(s.Root, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete object %q: %w", key, err)
	}
	return nil
}
