package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mkrishnan-dev/storefront_backend/internal/apperrors"
	"github.com/mkrishnan-dev/storefront_backend/internal/core/domain"
	portssvc "github.com/mkrishnan-dev/storefront_backend/internal/core/ports/services"
	"github.com/mkrishnan-dev/storefront_backend/internal/core/services"
	"github.com/mkrishnan-dev/storefront_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ProductRepositoryFacade ---
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	args := m.Called(ctx, productID)
	var product *domain.Product
	if args.Get(0) != nil {
		product = args.Get(0).(*domain.Product)
	}
	return product, args.Error(1)
}

func (m *MockProductRepository) FindProducts(ctx context.Context, category string) ([]domain.Product, error) {
	args := m.Called(ctx, category)
	var products []domain.Product
	if args.Get(0) != nil {
		products = args.Get(0).([]domain.Product)
	}
	return products, args.Error(1)
}

func (m *MockProductRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) MarkProductInactive(ctx context.Context, productID string, deletedBy string, deletedAt time.Time) error {
	args := m.Called(ctx, productID, deletedBy, deletedAt)
	return args.Error(0)
}

func (m *MockProductRepository) FindProductsByIDsForUpdate(ctx context.Context, tx pgx.Tx, productIDs []string) (map[string]domain.Product, error) {
	args := m.Called(ctx, tx, productIDs)
	var products map[string]domain.Product
	if args.Get(0) != nil {
		products = args.Get(0).(map[string]domain.Product)
	}
	return products, args.Error(1)
}

func (m *MockProductRepository) AdjustStockInTx(ctx context.Context, tx pgx.Tx, stockChanges map[string]int64, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, tx, stockChanges, updatedBy, updatedAt)
	return args.Error(0)
}

// --- Fake ListingCache ---

// fakeListingCache is an in-memory stand-in for the redis-backed cache.
type fakeListingCache struct {
	payload  []byte
	getErr   error
	setErr   error
	delErr   error
	setCalls int
	delCalls int
}

func (f *fakeListingCache) Get(ctx context.Context) ([]byte, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	if f.payload == nil {
		return nil, false, nil
	}
	return f.payload, true, nil
}

func (f *fakeListingCache) Set(ctx context.Context, payload []byte) error {
	f.setCalls++
	if f.setErr != nil {
		return f.setErr
	}
	f.payload = payload
	return nil
}

func (f *fakeListingCache) Invalidate(ctx context.Context) error {
	f.delCalls++
	if f.delErr != nil {
		return f.delErr
	}
	f.payload = nil
	return nil
}

// --- Test Suite ---
type ProductServiceTestSuite struct {
	suite.Suite
	mockProductRepo *MockProductRepository
	cache           *fakeListingCache
	service         portssvc.ProductSvcFacade
}

func (suite *ProductServiceTestSuite) SetupTest() {
	suite.mockProductRepo = new(MockProductRepository)
	suite.cache = &fakeListingCache{}
	suite.service = services.NewProductService(suite.mockProductRepo, suite.cache)
}

func sampleProducts() []domain.Product {
	return []domain.Product{
		{
			ProductID:     "p1",
			Name:          "Widget",
			Price:         decimal.RequireFromString("19.99"),
			Category:      "tools",
			SKU:           "SKU-1",
			StockQuantity: 10,
			IsActive:      true,
		},
		{
			ProductID:     "p2",
			Name:          "Gadget",
			Price:         decimal.RequireFromString("5.00"),
			Category:      "toys",
			SKU:           "SKU-2",
			StockQuantity: 3,
			IsActive:      true,
		},
	}
}

// --- ListProducts caching behavior ---

func (suite *ProductServiceTestSuite) TestListProducts_CacheMissPopulatesCache() {
	ctx := context.Background()
	suite.mockProductRepo.On("FindProducts", ctx, "").Return(sampleProducts(), nil).Once()

	resp, err := suite.service.ListProducts(ctx, dto.ListProductsParams{})

	suite.Require().NoError(err)
	suite.Len(resp.Products, 2)
	suite.Equal(1, suite.cache.setCalls)
	suite.NotNil(suite.cache.payload)
	suite.mockProductRepo.AssertExpectations(suite.T())
}

func (suite *ProductServiceTestSuite) TestListProducts_CacheHitSkipsStore() {
	ctx := context.Background()
	cached := dto.ToListProductsResponse(sampleProducts())
	payload, err := json.Marshal(cached)
	suite.Require().NoError(err)
	suite.cache.payload = payload

	resp, err := suite.service.ListProducts(ctx, dto.ListProductsParams{})

	suite.Require().NoError(err)
	suite.Len(resp.Products, 2)
	suite.Equal("Widget", resp.Products[0].Name)
	suite.mockProductRepo.AssertNotCalled(suite.T(), "FindProducts", mock.Anything, mock.Anything)
}

func (suite *ProductServiceTestSuite) TestListProducts_CacheFailureFallsThrough() {
	ctx := context.Background()
	suite.cache.getErr = errors.New("redis: connection refused")
	suite.mockProductRepo.On("FindProducts", ctx, "").Return(sampleProducts(), nil).Once()

	resp, err := suite.service.ListProducts(ctx, dto.ListProductsParams{})

	suite.Require().NoError(err)
	suite.Len(resp.Products, 2)
	suite.mockProductRepo.AssertExpectations(suite.T())
}

func (suite *ProductServiceTestSuite) TestListProducts_CorruptCacheFallsThrough() {
	ctx := context.Background()
	suite.cache.payload = []byte("{not json")
	suite.mockProductRepo.On("FindProducts", ctx, "").Return(sampleProducts(), nil).Once()

	resp, err := suite.service.ListProducts(ctx, dto.ListProductsParams{})

	suite.Require().NoError(err)
	suite.Len(resp.Products, 2)
}

func (suite *ProductServiceTestSuite) TestListProducts_CategoryFilterBypassesCache() {
	ctx := context.Background()
	cached := dto.ToListProductsResponse(sampleProducts())
	payload, err := json.Marshal(cached)
	suite.Require().NoError(err)
	suite.cache.payload = payload

	filtered := sampleProducts()[:1]
	suite.mockProductRepo.On("FindProducts", ctx, "tools").Return(filtered, nil).Once()

	resp, err := suite.service.ListProducts(ctx, dto.ListProductsParams{Category: "tools"})

	suite.Require().NoError(err)
	suite.Len(resp.Products, 1)
	// A filtered listing must never overwrite the full-listing snapshot.
	suite.Equal(0, suite.cache.setCalls)
}

// --- Mutations invalidate the cache ---

func (suite *ProductServiceTestSuite) TestCreateProduct_InvalidatesCache() {
	ctx := context.Background()
	suite.cache.payload = []byte("stale")
	suite.mockProductRepo.On("SaveProduct", ctx, mock.MatchedBy(func(p domain.Product) bool {
		return p.Name == "Widget" && p.Price.Equal(decimal.RequireFromString("19.99")) && p.IsActive
	})).Return(nil).Once()

	product, err := suite.service.CreateProduct(ctx, dto.CreateProductRequest{
		Name:          "Widget",
		Price:         "19.99",
		Category:      "tools",
		SKU:           "SKU-1",
		StockQuantity: 10,
	}, "admin-1")

	suite.Require().NoError(err)
	suite.NotEmpty(product.ProductID)
	suite.Equal(1, suite.cache.delCalls)
	suite.Nil(suite.cache.payload)
}

func (suite *ProductServiceTestSuite) TestCreateProduct_InvalidPrice() {
	ctx := context.Background()

	_, err := suite.service.CreateProduct(ctx, dto.CreateProductRequest{
		Name:     "Widget",
		Price:    "nineteen",
		Category: "tools",
		SKU:      "SKU-1",
	}, "admin-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockProductRepo.AssertNotCalled(suite.T(), "SaveProduct", mock.Anything, mock.Anything)
}

func (suite *ProductServiceTestSuite) TestCreateProduct_NegativePrice() {
	ctx := context.Background()

	_, err := suite.service.CreateProduct(ctx, dto.CreateProductRequest{
		Name:     "Widget",
		Price:    "-1.00",
		Category: "tools",
		SKU:      "SKU-1",
	}, "admin-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ProductServiceTestSuite) TestUpdateProduct_InvalidatesCache() {
	ctx := context.Background()
	existing := sampleProducts()[0]
	newPrice := "24.99"

	suite.mockProductRepo.On("FindProductByID", ctx, "p1").Return(&existing, nil).Once()
	suite.mockProductRepo.On("UpdateProduct", ctx, mock.MatchedBy(func(p domain.Product) bool {
		return p.Price.Equal(decimal.RequireFromString("24.99"))
	})).Return(nil).Once()

	updated, err := suite.service.UpdateProduct(ctx, "p1", dto.UpdateProductRequest{Price: &newPrice}, "admin-1")

	suite.Require().NoError(err)
	suite.True(updated.Price.Equal(decimal.RequireFromString("24.99")))
	suite.Equal(1, suite.cache.delCalls)
}

func (suite *ProductServiceTestSuite) TestDeleteProduct_InvalidatesCache() {
	ctx := context.Background()
	suite.mockProductRepo.On("MarkProductInactive", ctx, "p1", "admin-1", mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeleteProduct(ctx, "p1", "admin-1")

	suite.Require().NoError(err)
	suite.Equal(1, suite.cache.delCalls)
}

func (suite *ProductServiceTestSuite) TestDeleteProduct_InvalidationFailureTolerated() {
	ctx := context.Background()
	suite.cache.delErr = errors.New("redis: connection refused")
	suite.mockProductRepo.On("MarkProductInactive", ctx, "p1", "admin-1", mock.AnythingOfType("time.Time")).Return(nil).Once()

	// The mutation already happened; a cache failure must not surface.
	suite.NoError(suite.service.DeleteProduct(ctx, "p1", "admin-1"))
}

func TestProductServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProductServiceTestSuite))
}
