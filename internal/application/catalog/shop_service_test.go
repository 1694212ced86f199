package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stitchpos/backend/internal/domain/catalog"
)

type MockShopRepository struct {
	mock.Mock
}

func (m *MockShopRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Shop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Shop), args.Error(1)
}

func (m *MockShopRepository) FindAll(ctx context.Context) ([]catalog.Shop, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Shop), args.Error(1)
}

func (m *MockShopRepository) Save(ctx context.Context, shop *catalog.Shop) error {
	args := m.Called(ctx, shop)
	return args.Error(0)
}

func (m *MockShopRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestShopService_Create(t *testing.T) {
	repo := new(MockShopRepository)
	svc := NewShopService(repo)

	repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Shop")).Return(nil)

	resp, err := svc.Create(context.Background(), CreateShopRequest{
		Name:    "Downtown Branch",
		Address: "12 Sukhumvit Rd",
		Phone:   "020000000",
	})
	require.NoError(t, err)
	assert.Equal(t, "Downtown Branch", resp.Name)
	assert.NotEqual(t, uuid.Nil, resp.ID)
	repo.AssertExpectations(t)
}

func TestShopService_Create_EmptyName(t *testing.T) {
	repo := new(MockShopRepository)
	svc := NewShopService(repo)

	_, err := svc.Create(context.Background(), CreateShopRequest{Name: ""})
	require.Error(t, err)
	repo.AssertNotCalled(t, "Save")
}

func TestShopService_Rename(t *testing.T) {
	repo := new(MockShopRepository)
	svc := NewShopService(repo)

	shop, err := catalog.NewShop("Old Name", "", "")
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, shop.ID).Return(shop, nil)
	repo.On("Save", mock.Anything, shop).Return(nil)

	resp, err := svc.Rename(context.Background(), shop.ID, "New Name")
	require.NoError(t, err)
	assert.Equal(t, "New Name", resp.Name)
	repo.AssertExpectations(t)
}

func TestShopService_List(t *testing.T) {
	repo := new(MockShopRepository)
	svc := NewShopService(repo)

	a, _ := catalog.NewShop("A", "", "")
	b, _ := catalog.NewShop("B", "", "")
	repo.On("FindAll", mock.Anything).Return([]catalog.Shop{*a, *b}, nil)

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Name)
}
