package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubReceiptStorage_Upload(t *testing.T) {
	t.Run("returns URL built from key", func(t *testing.T) {
		store := NewStubReceiptStorage()

		url, err := store.Upload(context.Background(), "receipts/abc.jpg", "image/jpeg", []byte{0xFF})

		require.NoError(t, err)
		assert.Equal(t, "https://storage.invalid/receipts/abc.jpg", url)
	})

	t.Run("rejects empty key", func(t *testing.T) {
		store := NewStubReceiptStorage()

		_, err := store.Upload(context.Background(), "", "image/jpeg", []byte{0xFF})

		assert.Error(t, err)
	})

	t.Run("rejects empty data", func(t *testing.T) {
		store := NewStubReceiptStorage()

		_, err := store.Upload(context.Background(), "receipts/abc.jpg", "image/jpeg", nil)

		assert.Error(t, err)
	})
}
