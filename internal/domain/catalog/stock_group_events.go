package catalog

import (
	"github.com/stitchpos/backend/internal/domain/shared"
)

// Event types for the catalog context
const (
	EventTypeStockGroupCreated = "catalog.stock_group.created"
	EventTypeStockReduced      = "catalog.stock.reduced"
	EventTypeStockRestored     = "catalog.stock.restored"
)

// StockGroupCreatedEvent is emitted when a stock group is created
type StockGroupCreatedEvent struct {
	shared.BaseDomainEvent
	GroupName string `json:"group_name"`
	Category  string `json:"category"`
}

// NewStockGroupCreatedEvent creates a new StockGroupCreatedEvent
func NewStockGroupCreatedEvent(group *StockGroup) *StockGroupCreatedEvent {
	return &StockGroupCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockGroupCreated, "StockGroup", group.ID, group.ShopID),
		GroupName:       group.GroupName,
		Category:        group.Category,
	}
}

// StockReducedEvent is emitted when on-hand stock is decremented
type StockReducedEvent struct {
	shared.BaseDomainEvent
	Color    string `json:"color"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

// NewStockReducedEvent creates a new StockReducedEvent
func NewStockReducedEvent(group *StockGroup, color, size string, qty int) *StockReducedEvent {
	return &StockReducedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReduced, "StockGroup", group.ID, group.ShopID),
		Color:           color,
		Size:            size,
		Quantity:        qty,
	}
}

// StockRestoredEvent is emitted when on-hand stock is incremented back
type StockRestoredEvent struct {
	shared.BaseDomainEvent
	Color    string `json:"color"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

// NewStockRestoredEvent creates a new StockRestoredEvent
func NewStockRestoredEvent(group *StockGroup, color, size string, qty int) *StockRestoredEvent {
	return &StockRestoredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockRestored, "StockGroup", group.ID, group.ShopID),
		Color:           color,
		Size:            size,
		Quantity:        qty,
	}
}
