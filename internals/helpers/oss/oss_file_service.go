package helper

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"phqa_backend/internals/configs"
)

/*
BlobService adalah facade upload/hapus yang seragam untuk service lembar kerja.

- Put(ctx, key, contentType, data) -> publicURL
- Delete(ctx, key) menghapus object berdasarkan object key (bukan URL)
*/
type BlobService interface {
	Put(ctx context.Context, key, contentType string, data []byte) (publicURL string, err error)
	Delete(ctx context.Context, key string) error
}

// NewBlobServiceFromEnv memilih backend sesuai STORAGE_DRIVER (local|gcs).
func NewBlobServiceFromEnv(ctx context.Context) (BlobService, error) {
	switch configs.StorageDriver {
	case "gcs":
		return NewGCSBlobService(ctx, configs.GCSBucket)
	case "local", "":
		return NewLocalBlobService(configs.StorageLocalDir, configs.StoragePublicBaseURL)
	default:
		return nil, errors.New("STORAGE_DRIVER tidak dikenal: " + configs.StorageDriver)
	}
}

func cleanKey(key string) (string, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" || strings.Contains(key, "..") {
		return "", fiber.NewError(fiber.StatusBadRequest, "object key tidak valid")
	}
	return key, nil
}

// --------------------------------------------------
// Mock untuk unit test
// --------------------------------------------------

type MockBlobService struct {
	PutFn    func(ctx context.Context, key, contentType string, data []byte) (string, error)
	DeleteFn func(ctx context.Context, key string) error
}

func (m *MockBlobService) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if m.PutFn == nil {
		return "", errors.New("not implemented")
	}
	return m.PutFn(ctx, key, contentType, data)
}

func (m *MockBlobService) Delete(ctx context.Context, key string) error {
	if m.DeleteFn == nil {
		return errors.New("not implemented")
	}
	return m.DeleteFn(ctx, key)
}
