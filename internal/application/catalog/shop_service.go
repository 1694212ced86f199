package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/stitchpos/backend/internal/domain/catalog"
)

// ShopService handles shop registration and lookup
type ShopService struct {
	shopRepo catalog.ShopRepository
}

func NewShopService(shopRepo catalog.ShopRepository) *ShopService {
	return &ShopService{shopRepo: shopRepo}
}

// Create registers a new shop
func (s *ShopService) Create(ctx context.Context, req CreateShopRequest) (*ShopResponse, error) {
	shop, err := catalog.NewShop(req.Name, req.Address, req.Phone)
	if err != nil {
		return nil, err
	}
	if err := s.shopRepo.Save(ctx, shop); err != nil {
		return nil, err
	}
	resp := ToShopResponse(shop)
	return &resp, nil
}

// GetByID loads one shop
func (s *ShopService) GetByID(ctx context.Context, id uuid.UUID) (*ShopResponse, error) {
	shop, err := s.shopRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToShopResponse(shop)
	return &resp, nil
}

// List returns all shops
func (s *ShopService) List(ctx context.Context) ([]ShopResponse, error) {
	shops, err := s.shopRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]ShopResponse, 0, len(shops))
	for i := range shops {
		items = append(items, ToShopResponse(&shops[i]))
	}
	return items, nil
}

// Rename changes a shop's name
func (s *ShopService) Rename(ctx context.Context, id uuid.UUID, name string) (*ShopResponse, error) {
	shop, err := s.shopRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := shop.Rename(name); err != nil {
		return nil, err
	}
	if err := s.shopRepo.Save(ctx, shop); err != nil {
		return nil, err
	}
	resp := ToShopResponse(shop)
	return &resp, nil
}
