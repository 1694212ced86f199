package finance

import "context"

// ReceiptStorage uploads receipt images and returns a public URL.
type ReceiptStorage interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}
