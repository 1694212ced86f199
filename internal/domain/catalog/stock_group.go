package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchpos/backend/internal/domain/shared"
	"github.com/stitchpos/backend/internal/domain/shared/valueobject"
)

// StockGroup is a product definition shared across color/size variants.
// It is the aggregate root for catalog and stock operations.
type StockGroup struct {
	shared.ShopAggregateRoot
	GroupName     string               `gorm:"type:varchar(200);not null;index"`
	Category      string               `gorm:"type:varchar(100);index"`
	UnitPrice     decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"` // Selling price per unit
	OriginalPrice decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"` // Acquisition cost, used for profit only
	Currency      valueobject.Currency `gorm:"type:varchar(3);not null;default:'THB'"`

	ColorVariants  []ColorVariant  `gorm:"foreignKey:StockGroupID;references:ID"`
	WholesaleTiers []WholesaleTier `gorm:"foreignKey:StockGroupID;references:ID"`
}

// TableName returns the table name for GORM
func (StockGroup) TableName() string {
	return "stock_groups"
}

// ColorVariant is one color option of a stock group, owning its own
// size -> quantity map. It never exists outside its group.
type ColorVariant struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	StockGroupID uuid.UUID `gorm:"type:uuid;not null;index"`
	Color        string    `gorm:"type:varchar(50);not null"`
	ColorCode    string    `gorm:"type:varchar(20)"` // Hex display code, e.g. "#1a2b3c"
	Barcode      string    `gorm:"type:varchar(20);index"`

	SizeQuantities []SizeQuantity `gorm:"foreignKey:ColorVariantID;references:ID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (ColorVariant) TableName() string {
	return "color_variants"
}

// SizeQuantity holds the on-hand quantity for one size of a color variant.
// Quantity never goes negative; decrements are clamped at zero.
type SizeQuantity struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ColorVariantID uuid.UUID `gorm:"type:uuid;not null;index"`
	Size           string    `gorm:"type:varchar(20);not null"`
	Quantity       int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (SizeQuantity) TableName() string {
	return "size_quantities"
}

// WholesaleTier is a bulk-quantity price break. A tier applies only when the
// total cart quantity for the group equals MinQuantity exactly, not when it
// merely exceeds it.
type WholesaleTier struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	StockGroupID uuid.UUID       `gorm:"type:uuid;not null;index"`
	MinQuantity  int             `gorm:"not null"`
	Price        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (WholesaleTier) TableName() string {
	return "wholesale_tiers"
}

// NewStockGroup creates a new stock group
func NewStockGroup(shopID uuid.UUID, groupName, category string, unitPrice, originalPrice valueobject.Money) (*StockGroup, error) {
	if groupName == "" {
		return nil, shared.NewDomainError("INVALID_GROUP_NAME", "Group name cannot be empty")
	}
	if len(groupName) > 200 {
		return nil, shared.NewDomainError("INVALID_GROUP_NAME", "Group name cannot exceed 200 characters")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if unitPrice.Currency() != originalPrice.Currency() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price and original price must share a currency")
	}
	// OriginalPrice may exceed UnitPrice: selling at a loss is allowed and
	// simply yields negative per-unit profit in reports.

	group := &StockGroup{
		ShopAggregateRoot: shared.NewShopAggregateRoot(shopID),
		GroupName:         groupName,
		Category:          category,
		UnitPrice:         unitPrice.Amount(),
		OriginalPrice:     originalPrice.Amount(),
		Currency:          unitPrice.Currency(),
		ColorVariants:     make([]ColorVariant, 0),
		WholesaleTiers:    make([]WholesaleTier, 0),
	}

	group.AddDomainEvent(NewStockGroupCreatedEvent(group))

	return group, nil
}

// UpdatePricing updates the selling and acquisition prices
func (g *StockGroup) UpdatePricing(unitPrice, originalPrice valueobject.Money) error {
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if unitPrice.Currency() != originalPrice.Currency() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price and original price must share a currency")
	}

	g.UnitPrice = unitPrice.Amount()
	g.OriginalPrice = originalPrice.Amount()
	g.Currency = unitPrice.Currency()
	g.UpdatedAt = time.Now()

	return nil
}

// Rename changes the group name
func (g *StockGroup) Rename(groupName string) error {
	if groupName == "" {
		return shared.NewDomainError("INVALID_GROUP_NAME", "Group name cannot be empty")
	}
	g.GroupName = groupName
	g.UpdatedAt = time.Now()
	return nil
}

// AddColorVariant adds a new color variant to the group
func (g *StockGroup) AddColorVariant(color, colorCode string) (*ColorVariant, error) {
	if color == "" {
		return nil, shared.NewDomainError("INVALID_COLOR", "Color name cannot be empty")
	}
	if g.findVariant(color) != nil {
		return nil, shared.NewDomainError("DUPLICATE_COLOR", "Color variant already exists in group")
	}

	now := time.Now()
	variant := ColorVariant{
		ID:             uuid.New(),
		StockGroupID:   g.ID,
		Color:          color,
		ColorCode:      colorCode,
		SizeQuantities: make([]SizeQuantity, 0),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	g.ColorVariants = append(g.ColorVariants, variant)
	g.UpdatedAt = now

	return &g.ColorVariants[len(g.ColorVariants)-1], nil
}

// SetSizeQuantity sets the on-hand quantity for a (color, size) pair,
// creating the size row if it does not exist yet
func (g *StockGroup) SetSizeQuantity(color, size string, quantity int) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if size == "" {
		return shared.NewDomainError("INVALID_SIZE", "Size cannot be empty")
	}

	variant := g.findVariant(color)
	if variant == nil {
		return shared.NewDomainError("VARIANT_NOT_FOUND", "Color variant not found")
	}

	for idx := range variant.SizeQuantities {
		if variant.SizeQuantities[idx].Size == size {
			variant.SizeQuantities[idx].Quantity = quantity
			variant.UpdatedAt = time.Now()
			g.UpdatedAt = variant.UpdatedAt
			return nil
		}
	}

	variant.SizeQuantities = append(variant.SizeQuantities, SizeQuantity{
		ID:             uuid.New(),
		ColorVariantID: variant.ID,
		Size:           size,
		Quantity:       quantity,
	})
	variant.UpdatedAt = time.Now()
	g.UpdatedAt = variant.UpdatedAt
	return nil
}

// SetWholesaleTiers replaces the wholesale tier table for the group
func (g *StockGroup) SetWholesaleTiers(tiers []WholesaleTier) error {
	for _, tier := range tiers {
		if tier.MinQuantity <= 0 {
			return shared.NewDomainError("INVALID_TIER", "Tier quantity must be positive")
		}
		if tier.Price.IsNegative() {
			return shared.NewDomainError("INVALID_TIER", "Tier price cannot be negative")
		}
	}

	g.WholesaleTiers = make([]WholesaleTier, 0, len(tiers))
	for _, tier := range tiers {
		if tier.ID == uuid.Nil {
			tier.ID = uuid.New()
		}
		tier.StockGroupID = g.ID
		g.WholesaleTiers = append(g.WholesaleTiers, tier)
	}
	g.UpdatedAt = time.Now()
	return nil
}

// MatchWholesaleTier returns the tier whose MinQuantity equals totalQuantity
// exactly, or nil when no tier matches. Moving one unit away from the tier
// quantity removes the match.
func (g *StockGroup) MatchWholesaleTier(totalQuantity int) *WholesaleTier {
	for idx := range g.WholesaleTiers {
		if g.WholesaleTiers[idx].MinQuantity == totalQuantity {
			return &g.WholesaleTiers[idx]
		}
	}
	return nil
}

// ReduceStock decrements the quantity at (color, size), clamped at zero.
// The color is matched by case-insensitive NAME, not by variant id, because
// carts carry color names. Returns the applied delta and false when the
// variant or size row does not exist (callers log a warning and move on).
func (g *StockGroup) ReduceStock(color, size string, qty int) (int, bool) {
	if qty <= 0 {
		return 0, true
	}
	sq := g.findSizeQuantity(color, size)
	if sq == nil {
		return 0, false
	}

	applied := qty
	if applied > sq.Quantity {
		applied = sq.Quantity
	}
	sq.Quantity -= applied
	g.UpdatedAt = time.Now()

	g.AddDomainEvent(NewStockReducedEvent(g, color, size, applied))
	return applied, true
}

// RestoreStock adds qty back to the quantity at (color, size).
// Mirror of ReduceStock; used on cart-item removal and cancellation.
func (g *StockGroup) RestoreStock(color, size string, qty int) (int, bool) {
	if qty <= 0 {
		return 0, true
	}
	sq := g.findSizeQuantity(color, size)
	if sq == nil {
		return 0, false
	}

	sq.Quantity += qty
	g.UpdatedAt = time.Now()

	g.AddDomainEvent(NewStockRestoredEvent(g, color, size, qty))
	return qty, true
}

// CheckStock returns the on-hand quantity at (color, size), or zero when the
// group has no such variant or size. Pure read, never an error.
func (g *StockGroup) CheckStock(color, size string) int {
	sq := g.findSizeQuantity(color, size)
	if sq == nil {
		return 0
	}
	return sq.Quantity
}

// TotalQuantity returns the total on-hand quantity across all variants
func (g *StockGroup) TotalQuantity() int {
	total := 0
	for _, variant := range g.ColorVariants {
		for _, sq := range variant.SizeQuantities {
			total += sq.Quantity
		}
	}
	return total
}

// UnitProfit returns selling price minus acquisition cost per unit.
// May be negative when the group is sold at a loss.
func (g *StockGroup) UnitProfit() decimal.Decimal {
	return g.UnitPrice.Sub(g.OriginalPrice)
}

// GetUnitPriceMoney returns the unit price as a Money value object
func (g *StockGroup) GetUnitPriceMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(g.UnitPrice, g.Currency)
	return m
}

// GetVariant returns the variant with the given color name (case-insensitive)
func (g *StockGroup) GetVariant(color string) *ColorVariant {
	return g.findVariant(color)
}

func (g *StockGroup) findVariant(color string) *ColorVariant {
	for idx := range g.ColorVariants {
		if strings.EqualFold(g.ColorVariants[idx].Color, color) {
			return &g.ColorVariants[idx]
		}
	}
	return nil
}

func (g *StockGroup) findSizeQuantity(color, size string) *SizeQuantity {
	variant := g.findVariant(color)
	if variant == nil {
		return nil
	}
	for idx := range variant.SizeQuantities {
		if variant.SizeQuantities[idx].Size == size {
			return &variant.SizeQuantities[idx]
		}
	}
	return nil
}
