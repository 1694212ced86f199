package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchpos/backend/internal/domain/catalog"
)

// CreateStockGroupRequest creates a stock group with optional variants
type CreateStockGroupRequest struct {
	GroupName     string                 `json:"group_name" binding:"required"`
	Category      string                 `json:"category"`
	UnitPrice     decimal.Decimal        `json:"unit_price"`
	OriginalPrice decimal.Decimal        `json:"original_price"`
	Currency      string                 `json:"currency"`
	Variants      []VariantRequest       `json:"variants,omitempty"`
	Tiers         []WholesaleTierRequest `json:"wholesale_tiers,omitempty"`
}

// UpdateStockGroupRequest renames and reprices an existing group
type UpdateStockGroupRequest struct {
	GroupName     string          `json:"group_name" binding:"required"`
	Category      string          `json:"category"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	OriginalPrice decimal.Decimal `json:"original_price"`
}

// VariantRequest defines a color with its size quantities
type VariantRequest struct {
	Color     string         `json:"color" binding:"required"`
	ColorCode string         `json:"color_code"`
	Sizes     map[string]int `json:"sizes"`
}

// SetQuantityRequest sets the quantity of one (color, size) bucket
type SetQuantityRequest struct {
	Color    string `json:"color" binding:"required"`
	Size     string `json:"size" binding:"required"`
	Quantity int    `json:"quantity"`
}

// WholesaleTierRequest defines one exact-quantity tier
type WholesaleTierRequest struct {
	MinQuantity int             `json:"min_quantity" binding:"required,min=1"`
	Price       decimal.Decimal `json:"price"`
}

// SizeQuantityResponse is one size bucket in API responses
type SizeQuantityResponse struct {
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

// VariantResponse is one color variant in API responses
type VariantResponse struct {
	ID        uuid.UUID              `json:"id"`
	Color     string                 `json:"color"`
	ColorCode string                 `json:"color_code,omitempty"`
	Barcode   string                 `json:"barcode,omitempty"`
	Sizes     []SizeQuantityResponse `json:"sizes"`
}

// WholesaleTierResponse is one tier in API responses
type WholesaleTierResponse struct {
	MinQuantity int             `json:"min_quantity"`
	Price       decimal.Decimal `json:"price"`
}

// StockGroupResponse is the full stock group in API responses
type StockGroupResponse struct {
	ID            uuid.UUID               `json:"id"`
	GroupName     string                  `json:"group_name"`
	Category      string                  `json:"category,omitempty"`
	UnitPrice     decimal.Decimal         `json:"unit_price"`
	OriginalPrice decimal.Decimal         `json:"original_price"`
	Currency      string                  `json:"currency"`
	TotalQuantity int                     `json:"total_quantity"`
	Variants      []VariantResponse       `json:"variants"`
	Tiers         []WholesaleTierResponse `json:"wholesale_tiers,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

// ToStockGroupResponse converts the aggregate into the API shape
func ToStockGroupResponse(g *catalog.StockGroup) StockGroupResponse {
	variants := make([]VariantResponse, 0, len(g.ColorVariants))
	for i := range g.ColorVariants {
		v := &g.ColorVariants[i]
		sizes := make([]SizeQuantityResponse, 0, len(v.SizeQuantities))
		for j := range v.SizeQuantities {
			sq := &v.SizeQuantities[j]
			sizes = append(sizes, SizeQuantityResponse{Size: sq.Size, Quantity: sq.Quantity})
		}
		variants = append(variants, VariantResponse{
			ID:        v.ID,
			Color:     v.Color,
			ColorCode: v.ColorCode,
			Barcode:   v.Barcode,
			Sizes:     sizes,
		})
	}

	tiers := make([]WholesaleTierResponse, 0, len(g.WholesaleTiers))
	for i := range g.WholesaleTiers {
		tiers = append(tiers, WholesaleTierResponse{
			MinQuantity: g.WholesaleTiers[i].MinQuantity,
			Price:       g.WholesaleTiers[i].Price,
		})
	}

	return StockGroupResponse{
		ID:            g.ID,
		GroupName:     g.GroupName,
		Category:      g.Category,
		UnitPrice:     g.UnitPrice,
		OriginalPrice: g.OriginalPrice,
		Currency:      g.Currency.String(),
		TotalQuantity: g.TotalQuantity(),
		Variants:      variants,
		Tiers:         tiers,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}

// CreateShopRequest registers a shop
type CreateShopRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// ShopResponse is the shop in API responses
type ShopResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address string    `json:"address,omitempty"`
	Phone   string    `json:"phone,omitempty"`
}

// ToShopResponse converts the entity into the API shape
func ToShopResponse(s *catalog.Shop) ShopResponse {
	return ShopResponse{
		ID:      s.ID,
		Name:    s.Name,
		Address: s.Address,
		Phone:   s.Phone,
	}
}
