package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/stitchpos/backend/internal/domain/labels"
	"gorm.io/gorm"
)

// GormBarcodeSequenceRepository allocates per-shop barcode sequence
// numbers. The upsert increments and returns in a single statement so
// concurrent allocations never collide.
type GormBarcodeSequenceRepository struct {
	db *gorm.DB
}

// NewGormBarcodeSequenceRepository creates a new GormBarcodeSequenceRepository
func NewGormBarcodeSequenceRepository(db *gorm.DB) *GormBarcodeSequenceRepository {
	return &GormBarcodeSequenceRepository{db: db}
}

// Next returns the next sequence value for the shop, starting at 1.
func (r *GormBarcodeSequenceRepository) Next(ctx context.Context, shopID uuid.UUID) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).Raw(
		`INSERT INTO barcode_sequences (shop_id, value) VALUES (?, 1)
		 ON CONFLICT (shop_id) DO UPDATE SET value = barcode_sequences.value + 1
		 RETURNING value`,
		shopID,
	).Scan(&value).Error
	if err != nil {
		return 0, err
	}
	return value, nil
}

// Ensure GormBarcodeSequenceRepository implements BarcodeSequenceRepository
var _ labels.BarcodeSequenceRepository = (*GormBarcodeSequenceRepository)(nil)
