package catalog

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/stitchpos/backend/internal/domain/catalog"
	"github.com/stitchpos/backend/internal/domain/shared"
	"github.com/stitchpos/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// StockGroupService handles the stock-group catalog operations
type StockGroupService struct {
	stockRepo catalog.StockGroupRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

func NewStockGroupService(stockRepo catalog.StockGroupRepository, publisher shared.EventPublisher, logger *zap.Logger) *StockGroupService {
	return &StockGroupService{
		stockRepo: stockRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// Create creates a stock group with its initial variants and tiers
func (s *StockGroupService) Create(ctx context.Context, shopID uuid.UUID, req CreateStockGroupRequest) (*StockGroupResponse, error) {
	currency := valueobject.DefaultCurrency
	if req.Currency != "" {
		currency = valueobject.Currency(req.Currency)
		if !currency.IsValid() {
			return nil, shared.NewDomainError("INVALID_CURRENCY", fmt.Sprintf("unsupported currency: %s", req.Currency))
		}
	}

	unitPrice, err := valueobject.NewMoney(req.UnitPrice, currency)
	if err != nil {
		return nil, err
	}
	originalPrice, err := valueobject.NewMoney(req.OriginalPrice, currency)
	if err != nil {
		return nil, err
	}

	group, err := catalog.NewStockGroup(shopID, req.GroupName, req.Category, unitPrice, originalPrice)
	if err != nil {
		return nil, err
	}

	for _, v := range req.Variants {
		if _, err := group.AddColorVariant(v.Color, v.ColorCode); err != nil {
			return nil, err
		}
		for size, qty := range v.Sizes {
			if err := group.SetSizeQuantity(v.Color, size, qty); err != nil {
				return nil, err
			}
		}
	}

	if len(req.Tiers) > 0 {
		tiers := make([]catalog.WholesaleTier, 0, len(req.Tiers))
		for _, t := range req.Tiers {
			tiers = append(tiers, catalog.WholesaleTier{MinQuantity: t.MinQuantity, Price: t.Price})
		}
		if err := group.SetWholesaleTiers(tiers); err != nil {
			return nil, err
		}
	}

	if err := s.stockRepo.Save(ctx, group); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, group)

	resp := ToStockGroupResponse(group)
	return &resp, nil
}

// GetByID loads one stock group
func (s *StockGroupService) GetByID(ctx context.Context, id, shopID uuid.UUID) (*StockGroupResponse, error) {
	group, err := s.stockRepo.FindByIDForShop(ctx, id, shopID)
	if err != nil {
		return nil, err
	}
	resp := ToStockGroupResponse(group)
	return &resp, nil
}

// List pages through the shop's catalog; Filter.Search matches group names
func (s *StockGroupService) List(ctx context.Context, shopID uuid.UUID, filter shared.Filter) (*shared.Paginated[StockGroupResponse], error) {
	groups, err := s.stockRepo.FindAllForShop(ctx, shopID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.stockRepo.CountForShop(ctx, shopID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]StockGroupResponse, 0, len(groups))
	for i := range groups {
		items = append(items, ToStockGroupResponse(&groups[i]))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update renames and reprices a group
func (s *StockGroupService) Update(ctx context.Context, id, shopID uuid.UUID, req UpdateStockGroupRequest) (*StockGroupResponse, error) {
	group, err := s.stockRepo.FindByIDForShop(ctx, id, shopID)
	if err != nil {
		return nil, err
	}

	if err := group.Rename(req.GroupName); err != nil {
		return nil, err
	}
	group.Category = req.Category

	unitPrice, err := valueobject.NewMoney(req.UnitPrice, group.Currency)
	if err != nil {
		return nil, err
	}
	originalPrice, err := valueobject.NewMoney(req.OriginalPrice, group.Currency)
	if err != nil {
		return nil, err
	}
	if err := group.UpdatePricing(unitPrice, originalPrice); err != nil {
		return nil, err
	}

	if err := s.stockRepo.SaveWithLock(ctx, group); err != nil {
		return nil, err
	}

	resp := ToStockGroupResponse(group)
	return &resp, nil
}

// AddVariant adds a color with optional initial quantities
func (s *StockGroupService) AddVariant(ctx context.Context, id, shopID uuid.UUID, req VariantRequest) (*StockGroupResponse, error) {
	group, err := s.stockRepo.FindByIDForShop(ctx, id, shopID)
	if err != nil {
		return nil, err
	}

	if _, err := group.AddColorVariant(req.Color, req.ColorCode); err != nil {
		return nil, err
	}
	for size, qty := range req.Sizes {
		if err := group.SetSizeQuantity(req.Color, size, qty); err != nil {
			return nil, err
		}
	}

	if err := s.stockRepo.SaveWithLock(ctx, group); err != nil {
		return nil, err
	}

	resp := ToStockGroupResponse(group)
	return &resp, nil
}

// SetQuantity sets one (color, size) bucket directly, for stock edits
// outside the selling flow
func (s *StockGroupService) SetQuantity(ctx context.Context, id, shopID uuid.UUID, req SetQuantityRequest) (*StockGroupResponse, error) {
	group, err := s.stockRepo.FindByIDForShop(ctx, id, shopID)
	if err != nil {
		return nil, err
	}

	if err := group.SetSizeQuantity(req.Color, req.Size, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.stockRepo.SaveWithLock(ctx, group); err != nil {
		return nil, err
	}

	resp := ToStockGroupResponse(group)
	return &resp, nil
}

// SetTiers replaces the group's wholesale tiers
func (s *StockGroupService) SetTiers(ctx context.Context, id, shopID uuid.UUID, reqs []WholesaleTierRequest) (*StockGroupResponse, error) {
	group, err := s.stockRepo.FindByIDForShop(ctx, id, shopID)
	if err != nil {
		return nil, err
	}

	tiers := make([]catalog.WholesaleTier, 0, len(reqs))
	for _, t := range reqs {
		tiers = append(tiers, catalog.WholesaleTier{MinQuantity: t.MinQuantity, Price: t.Price})
	}
	if err := group.SetWholesaleTiers(tiers); err != nil {
		return nil, err
	}
	if err := s.stockRepo.SaveWithLock(ctx, group); err != nil {
		return nil, err
	}

	resp := ToStockGroupResponse(group)
	return &resp, nil
}

// Delete removes a stock group from the catalog
func (s *StockGroupService) Delete(ctx context.Context, id, shopID uuid.UUID) error {
	if _, err := s.stockRepo.FindByIDForShop(ctx, id, shopID); err != nil {
		return err
	}
	return s.stockRepo.Delete(ctx, id, shopID)
}

// ExportCSV renders the shop's full catalog as a spreadsheet, one row per
// (group, color, size). The output starts with a UTF-8 byte order mark so
// Excel opens it correctly.
func (s *StockGroupService) ExportCSV(ctx context.Context, shopID uuid.UUID) ([]byte, error) {
	filter := shared.DefaultFilter()
	filter.Page = 1
	filter.PageSize = 10000
	groups, err := s.stockRepo.FindAllForShop(ctx, shopID, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("\uFEFF")
	w := csv.NewWriter(&buf)

	header := []string{"Group", "Category", "Color", "Size", "Quantity", "Unit Price", "Original Price", "Currency", "Barcode"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, g := range groups {
		for i := range g.ColorVariants {
			v := &g.ColorVariants[i]
			for j := range v.SizeQuantities {
				sq := &v.SizeQuantities[j]
				record := []string{
					g.GroupName,
					g.Category,
					v.Color,
					sq.Size,
					strconv.Itoa(sq.Quantity),
					g.UnitPrice.StringFixed(2),
					g.OriginalPrice.StringFixed(2),
					g.Currency.String(),
					v.Barcode,
				}
				if err := w.Write(record); err != nil {
					return nil, err
				}
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *StockGroupService) publishEvents(ctx context.Context, group *catalog.StockGroup) {
	events := group.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("could not publish stock group events",
			zap.String("group", group.GroupName), zap.Error(err))
	}
	group.ClearDomainEvents()
}
