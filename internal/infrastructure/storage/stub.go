package storage

import (
	"context"
	"errors"

	financeapp "github.com/stitchpos/backend/internal/application/finance"
)

// StubReceiptStorage accepts uploads without persisting anything. Used
// in development when no object store is configured; the returned URLs
// resolve nowhere.
type StubReceiptStorage struct {
	BaseURL string
}

// NewStubReceiptStorage creates a new StubReceiptStorage
func NewStubReceiptStorage() *StubReceiptStorage {
	return &StubReceiptStorage{
		BaseURL: "https://storage.invalid",
	}
}

// Ensure StubReceiptStorage implements ReceiptStorage
var _ financeapp.ReceiptStorage = (*StubReceiptStorage)(nil)

// Upload pretends to store the object and returns a fake URL
func (s *StubReceiptStorage) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	if len(data) == 0 {
		return "", errors.New("object data is empty")
	}
	return s.BaseURL + "/" + key, nil
}
