package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	catalogapp "github.com/stitchpos/backend/internal/application/catalog"
	"github.com/stitchpos/backend/internal/domain/catalog"
	"github.com/stitchpos/backend/internal/domain/shared"
	"github.com/stitchpos/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockShopRepository implements catalog.ShopRepository for testing
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

func newShopRouter(repo *MockShopRepository) *gin.Engine {
	router := gin.New()
	h := NewShopHandler(catalogapp.NewShopService(repo))
	h.RegisterRoutes(router.Group("/api/v1"))
	return router
}

func TestShopHandlerCreate(t *testing.T) {
	t.Run("creates shop", func(t *testing.T) {
		repo := new(MockShopRepository)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Shop")).Return(nil)
		router := newShopRouter(repo)

		body, _ := json.Marshal(map[string]string{
			"name":    "Downtown Branch",
			"address": "12 Sukhumvit Rd",
			"phone":   "020000000",
		})
		req := httptest.NewRequest("POST", "/api/v1/shops", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		repo.AssertExpectations(t)
	})

	t.Run("rejects missing name", func(t *testing.T) {
		repo := new(MockShopRepository)
		router := newShopRouter(repo)

		req := httptest.NewRequest("POST", "/api/v1/shops", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		repo.AssertNotCalled(t, "Save")
	})
}

func TestShopHandlerGet(t *testing.T) {
	shop, err := catalog.NewShop("Main", "1 High St", "")
	require.NoError(t, err)

	t.Run("returns shop", func(t *testing.T) {
		repo := new(MockShopRepository)
		repo.On("FindByID", mock.Anything, shop.ID).Return(shop, nil)
		router := newShopRouter(repo)

		req := httptest.NewRequest("GET", "/api/v1/shops/"+shop.ID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Main")
	})

	t.Run("maps missing shop to 404", func(t *testing.T) {
		repo := new(MockShopRepository)
		repo.On("FindByID", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)
		router := newShopRouter(repo)

		req := httptest.NewRequest("GET", "/api/v1/shops/"+uuid.New().String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("rejects malformed ID", func(t *testing.T) {
		repo := new(MockShopRepository)
		router := newShopRouter(repo)

		req := httptest.NewRequest("GET", "/api/v1/shops/not-a-uuid", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestShopHandlerRename(t *testing.T) {
	shop, err := catalog.NewShop("Old Name", "", "")
	require.NoError(t, err)

	repo := new(MockShopRepository)
	repo.On("FindByID", mock.Anything, shop.ID).Return(shop, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Shop")).Return(nil)
	router := newShopRouter(repo)

	body, _ := json.Marshal(map[string]string{"name": "New Name"})
	req := httptest.NewRequest("PUT", "/api/v1/shops/"+shop.ID.String(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "New Name")
	repo.AssertExpectations(t)
}
