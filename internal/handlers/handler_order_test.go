package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mkrishnan-dev/storefront_backend/internal/apperrors"
	"github.com/mkrishnan-dev/storefront_backend/internal/core/domain"
	portssvc "github.com/mkrishnan-dev/storefront_backend/internal/core/ports/services"
	"github.com/mkrishnan-dev/storefront_backend/internal/dto"
	"github.com/mkrishnan-dev/storefront_backend/internal/handlers"
	"github.com/mkrishnan-dev/storefront_backend/pkg/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AuthService ---
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, username string, password string) (*domain.User, string, time.Time, error) {
	args := m.Called(ctx, username, password)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.String(1), args.Get(2).(time.Time), args.Error(3)
}

func (m *MockAuthService) IssueSession(ctx context.Context, user *domain.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockAuthService) VerifyToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) RevokeToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthService) RevokeAllSessions(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAuthService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.AuthSvcFacade = (*MockAuthService)(nil)

// --- Mock OrderService ---
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, userID string, req dto.CreateOrderRequest) (*domain.Order, []domain.OrderItem, error) {
	args := m.Called(ctx, userID, req)
	var order *domain.Order
	if args.Get(0) != nil {
		order = args.Get(0).(*domain.Order)
	}
	var items []domain.OrderItem
	if args.Get(1) != nil {
		items = args.Get(1).([]domain.OrderItem)
	}
	return order, items, args.Error(2)
}

func (m *MockOrderService) GetOrderByID(ctx context.Context, orderID string, requestingUserID string) (*domain.Order, []domain.OrderItem, error) {
	args := m.Called(ctx, orderID, requestingUserID)
	var order *domain.Order
	if args.Get(0) != nil {
		order = args.Get(0).(*domain.Order)
	}
	var items []domain.OrderItem
	if args.Get(1) != nil {
		items = args.Get(1).([]domain.OrderItem)
	}
	return order, items, args.Error(2)
}

func (m *MockOrderService) ListOrdersByUser(ctx context.Context, userID string, limit int, offset int) ([]domain.Order, error) {
	args := m.Called(ctx, userID, limit, offset)
	var orders []domain.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]domain.Order)
	}
	return orders, args.Error(1)
}

func (m *MockOrderService) UpdateOrderStatus(ctx context.Context, orderID string, status string, updaterUserID string) (*domain.Order, error) {
	args := m.Called(ctx, orderID, status, updaterUserID)
	var order *domain.Order
	if args.Get(0) != nil {
		order = args.Get(0).(*domain.Order)
	}
	return order, args.Error(1)
}

func (m *MockOrderService) CancelOrder(ctx context.Context, orderID string, requestingUserID string) (*domain.Order, error) {
	args := m.Called(ctx, orderID, requestingUserID)
	var order *domain.Order
	if args.Get(0) != nil {
		order = args.Get(0).(*domain.Order)
	}
	return order, args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.OrderSvcFacade = (*MockOrderService)(nil)

// --- Test Suite ---
type OrderHandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	mockAuthService  *MockAuthService
	mockOrderService *MockOrderService
}

const testBearerToken = "valid-session-token"

func (suite *OrderHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	suite.mockAuthService = new(MockAuthService)
	suite.mockOrderService = new(MockOrderService)

	cfg := &config.Config{IsProduction: true}
	services := &portssvc.ServiceContainer{
		Auth:  suite.mockAuthService,
		Order: suite.mockOrderService,
	}
	handlers.RegisterOrderRoutes(suite.router, cfg, services)
}

func (suite *OrderHandlerTestSuite) authedRequest(method, url string, body any) *http.Request {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	suite.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+testBearerToken)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func (suite *OrderHandlerTestSuite) expectAuthenticatedAs(userID string) {
	suite.mockAuthService.On("VerifyToken", mock.Anything, testBearerToken).Return(userID, nil).Once()
}

// --- Test Cases ---

func (suite *OrderHandlerTestSuite) TestCreateOrder_Success() {
	suite.expectAuthenticatedAs("user-1")

	created := &domain.Order{
		OrderID:     "order-1",
		UserID:      "user-1",
		Status:      domain.OrderStatusPending,
		TotalAmount: decimal.RequireFromString("59.97"),
	}
	items := []domain.OrderItem{
		{
			OrderItemID: "item-1",
			OrderID:     "order-1",
			ProductID:   "p1",
			Quantity:    3,
			UnitPrice:   decimal.RequireFromString("19.99"),
			TotalPrice:  decimal.RequireFromString("59.97"),
		},
	}
	suite.mockOrderService.On("CreateOrder", mock.Anything, "user-1", mock.MatchedBy(func(req dto.CreateOrderRequest) bool {
		return len(req.Items) == 1 && req.Items[0].ProductID == "p1" && req.Items[0].Quantity == 3
	})).Return(created, items, nil).Once()

	reqBody := dto.CreateOrderRequest{
		Items:           []dto.OrderItemRequest{{ProductID: "p1", Quantity: 3}},
		ShippingAddress: "1 Main St",
		BillingAddress:  "1 Main St",
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodPost, "/api/v1/orders", reqBody))

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.OrderResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("order-1", resp.OrderID)
	suite.True(resp.TotalAmount.Equal(decimal.RequireFromString("59.97")))
	suite.Len(resp.Items, 1)
	suite.mockOrderService.AssertExpectations(suite.T())
}

func (suite *OrderHandlerTestSuite) TestCreateOrder_InsufficientStock() {
	suite.expectAuthenticatedAs("user-1")

	stockErr := &apperrors.StockError{ProductID: "p1", ProductName: "Widget", Available: 1, Requested: 3}
	suite.mockOrderService.On("CreateOrder", mock.Anything, "user-1", mock.Anything).Return(nil, nil, stockErr).Once()

	reqBody := dto.CreateOrderRequest{
		Items:           []dto.OrderItemRequest{{ProductID: "p1", Quantity: 3}},
		ShippingAddress: "1 Main St",
		BillingAddress:  "1 Main St",
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodPost, "/api/v1/orders", reqBody))

	suite.Equal(http.StatusConflict, w.Code)

	var resp handlers.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Contains(resp.Error, "Widget")
}

func (suite *OrderHandlerTestSuite) TestCreateOrder_MissingBearer() {
	req, err := http.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader([]byte("{}")))
	suite.Require().NoError(err)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockOrderService.AssertNotCalled(suite.T(), "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *OrderHandlerTestSuite) TestCreateOrder_RevokedToken() {
	suite.mockAuthService.On("VerifyToken", mock.Anything, testBearerToken).Return("", apperrors.ErrUnauthorized).Once()

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodPost, "/api/v1/orders", dto.CreateOrderRequest{}))

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockOrderService.AssertNotCalled(suite.T(), "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *OrderHandlerTestSuite) TestGetOrder_OtherUsersOrderForbidden() {
	suite.expectAuthenticatedAs("user-2")

	suite.mockOrderService.On("GetOrderByID", mock.Anything, "order-1", "user-2").Return(nil, nil, apperrors.ErrForbidden).Once()

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodGet, "/api/v1/orders/order-1", nil))

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *OrderHandlerTestSuite) TestGetOrder_NotFound() {
	suite.expectAuthenticatedAs("user-1")

	suite.mockOrderService.On("GetOrderByID", mock.Anything, "order-x", "user-1").Return(nil, nil, apperrors.ErrNotFound).Once()

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodGet, "/api/v1/orders/order-x", nil))

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *OrderHandlerTestSuite) TestUpdateOrderStatus_UnknownStatusRejectedByBinding() {
	suite.expectAuthenticatedAs("user-1")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodPatch, "/api/v1/orders/order-1/status", dto.UpdateOrderStatusRequest{Status: "teleported"}))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockOrderService.AssertNotCalled(suite.T(), "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *OrderHandlerTestSuite) TestUpdateOrderStatus_TerminalOrderConflict() {
	suite.expectAuthenticatedAs("user-1")

	suite.mockOrderService.On("UpdateOrderStatus", mock.Anything, "order-1", "shipped", "user-1").
		Return(nil, apperrors.NewConflictError("order in status \"delivered\" permits no further changes")).Once()

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodPatch, "/api/v1/orders/order-1/status", dto.UpdateOrderStatusRequest{Status: "shipped"}))

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *OrderHandlerTestSuite) TestCancelOrder_Success() {
	suite.expectAuthenticatedAs("user-1")

	cancelled := &domain.Order{OrderID: "order-1", UserID: "user-1", Status: domain.OrderStatusCancelled}
	suite.mockOrderService.On("CancelOrder", mock.Anything, "order-1", "user-1").Return(cancelled, nil).Once()

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodPost, "/api/v1/orders/order-1/cancel", nil))

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.OrderResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(string(domain.OrderStatusCancelled), resp.Status)
}

func (suite *OrderHandlerTestSuite) TestListOrders_Success() {
	suite.expectAuthenticatedAs("user-1")

	orders := []domain.Order{
		{OrderID: "order-2", UserID: "user-1", Status: domain.OrderStatusPending},
		{OrderID: "order-1", UserID: "user-1", Status: domain.OrderStatusDelivered},
	}
	suite.mockOrderService.On("ListOrdersByUser", mock.Anything, "user-1", 20, 0).Return(orders, nil).Once()

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodGet, "/api/v1/orders", nil))

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ListOrdersResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Orders, 2)
	suite.Equal("order-2", resp.Orders[0].OrderID)
}

// --- Run Test Suite ---
func TestOrderHandler(t *testing.T) {
	suite.Run(t, new(OrderHandlerTestSuite))
}
