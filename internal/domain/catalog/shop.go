package catalog

import (
	"time"

	"github.com/stitchpos/backend/internal/domain/shared"
)

// Shop is a retail location. Stock groups, transactions and expenses are
// scoped to a shop.
type Shop struct {
	shared.BaseEntity
	Name    string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Address string `gorm:"type:varchar(300)"`
	Phone   string `gorm:"type:varchar(30)"`
}

// TableName returns the table name for GORM
func (Shop) TableName() string {
	return "shops"
}

// NewShop creates a new shop
func NewShop(name, address, phone string) (*Shop, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_SHOP_NAME", "Shop name cannot be empty")
	}
	return &Shop{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Address:    address,
		Phone:      phone,
	}, nil
}

// Rename changes the shop name
func (s *Shop) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_SHOP_NAME", "Shop name cannot be empty")
	}
	s.Name = name
	s.UpdatedAt = time.Now()
	return nil
}
