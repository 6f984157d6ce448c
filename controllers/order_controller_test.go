package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ShehanaHewage/TheCloset/middleware"
	"github.com/ShehanaHewage/TheCloset/models"
	"github.com/ShehanaHewage/TheCloset/services"
)

// --- Mock Service ---

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Place(ctx context.Context, req *models.PlaceOrderRequest) (*models.Order, *services.ServiceError) {
	args := m.Called(ctx, req)
	if args.Get(1) != nil {
		return nil, args.Get(1).(*services.ServiceError)
	}
	return args.Get(0).(*models.Order), nil
}

func (m *MockOrderService) Track(ctx context.Context, trackingCode string) (*models.Order, *services.ServiceError) {
	args := m.Called(ctx, trackingCode)
	if args.Get(1) != nil {
		return nil, args.Get(1).(*services.ServiceError)
	}
	return args.Get(0).(*models.Order), nil
}

func (m *MockOrderService) Get(ctx context.Context, id string) (*models.Order, *services.ServiceError) {
	args := m.Called(ctx, id)
	if args.Get(1) != nil {
		return nil, args.Get(1).(*services.ServiceError)
	}
	return args.Get(0).(*models.Order), nil
}

func (m *MockOrderService) ListForUser(ctx context.Context, userID string) ([]models.Order, *services.ServiceError) {
	args := m.Called(ctx, userID)
	if args.Get(1) != nil {
		return nil, args.Get(1).(*services.ServiceError)
	}
	return args.Get(0).([]models.Order), nil
}

func (m *MockOrderService) List(ctx context.Context, status string, page, limit int) ([]models.Order, int64, *services.ServiceError) {
	args := m.Called(ctx, status, page, limit)
	if args.Get(2) != nil {
		return nil, 0, args.Get(2).(*services.ServiceError)
	}
	return args.Get(0).([]models.Order), args.Get(1).(int64), nil
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, id, status string) (*models.Order, *services.ServiceError) {
	args := m.Called(ctx, id, status)
	if args.Get(1) != nil {
		return nil, args.Get(1).(*services.ServiceError)
	}
	return args.Get(0).(*models.Order), nil
}

// --- Tests ---

func orderRouter(svc services.OrderService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	controller := NewOrderController(svc)
	router.POST("/orders", controller.Place)
	router.GET("/orders/track/:trackingCode", controller.Track)
	router.PATCH("/orders/:id/status", controller.UpdateStatus)
	return router
}

func TestPlaceOrderController(t *testing.T) {
	t.Run("Success - 201 Created for guest order", func(t *testing.T) {
		mockService := new(MockOrderService)
		placed := &models.Order{TrackingCode: "A1B2C3D4", Status: models.OrderStatusPlaced}
		mockService.On("Place", mock.Anything, mock.MatchedBy(func(req *models.PlaceOrderRequest) bool {
			return req.UserID == "" && len(req.Items) == 1
		})).Return(placed, nil).Once()

		router := orderRouter(mockService)
		payload := `{"items":[{"item":{"id":"64f1c0ffee0000000000abcd"},"pieces":2}],"contactNumber":"0771234567","billingAddress":"12 Main St","shippingAddress":"12 Main St"}`
		req, _ := http.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusCreated, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "A1B2C3D4")
		mockService.AssertExpectations(t)
	})

	t.Run("Success - authenticated order carries account id", func(t *testing.T) {
		mockService := new(MockOrderService)
		placed := &models.Order{TrackingCode: "A1B2C3D4", Status: models.OrderStatusPlaced}
		mockService.On("Place", mock.Anything, mock.MatchedBy(func(req *models.PlaceOrderRequest) bool {
			return req.UserID == "64f1c0ffee0000000000abcd"
		})).Return(placed, nil).Once()

		gin.SetMode(gin.TestMode)
		router := gin.New()
		controller := NewOrderController(mockService)
		router.POST("/orders", func(c *gin.Context) {
			c.Set(middleware.ContextUserIDKey, "64f1c0ffee0000000000abcd")
		}, controller.Place)

		payload := `{"items":[{"item":{"id":"64f1c0ffee0000000000abcd"},"pieces":1}],"contactNumber":"0771234567","billingAddress":"12 Main St","shippingAddress":"12 Main St","userId":"spoofed"}`
		req, _ := http.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusCreated, recorder.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failure - invalid body - 400", func(t *testing.T) {
		mockService := new(MockOrderService)
		router := orderRouter(mockService)

		req, _ := http.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(`{"items":`))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockService.AssertNotCalled(t, "Place")
	})

	t.Run("Failure - insufficient stock - 400", func(t *testing.T) {
		mockService := new(MockOrderService)
		mockService.On("Place", mock.Anything, mock.Anything).
			Return(nil, services.NewServiceError(http.StatusBadRequest, "Not enough stock for item Linen Shirt")).Once()

		router := orderRouter(mockService)
		payload := `{"items":[{"item":{"id":"64f1c0ffee0000000000abcd"},"pieces":99}],"contactNumber":"0771234567","billingAddress":"12 Main St","shippingAddress":"12 Main St"}`
		req, _ := http.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Not enough stock")
		mockService.AssertExpectations(t)
	})
}

func TestTrackOrderController(t *testing.T) {
	t.Run("Success - 200 OK", func(t *testing.T) {
		mockService := new(MockOrderService)
		order := &models.Order{TrackingCode: "A1B2C3D4", Status: models.OrderStatusProcessing}
		mockService.On("Track", mock.Anything, "A1B2C3D4").Return(order, nil).Once()

		router := orderRouter(mockService)
		req, _ := http.NewRequest(http.MethodGet, "/orders/track/A1B2C3D4", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), models.OrderStatusProcessing)
		mockService.AssertExpectations(t)
	})

	t.Run("Failure - unknown code - 404", func(t *testing.T) {
		mockService := new(MockOrderService)
		mockService.On("Track", mock.Anything, "DEADBEEF").
			Return(nil, services.NewServiceError(http.StatusNotFound, "Order not found")).Once()

		router := orderRouter(mockService)
		req, _ := http.NewRequest(http.MethodGet, "/orders/track/DEADBEEF", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Order not found")
		mockService.AssertExpectations(t)
	})
}

func TestUpdateOrderStatusController(t *testing.T) {
	t.Run("Success - 200 OK", func(t *testing.T) {
		mockService := new(MockOrderService)
		order := &models.Order{TrackingCode: "A1B2C3D4", Status: models.OrderStatusCanceled}
		mockService.On("UpdateStatus", mock.Anything, "64f1c0ffee0000000000abcd", models.OrderStatusCanceled).
			Return(order, nil).Once()

		router := orderRouter(mockService)
		req, _ := http.NewRequest(http.MethodPatch, "/orders/64f1c0ffee0000000000abcd/status", bytes.NewBufferString(`{"status":"canceled"}`))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), models.OrderStatusCanceled)
		mockService.AssertExpectations(t)
	})

	t.Run("Failure - invalid status - 400", func(t *testing.T) {
		mockService := new(MockOrderService)
		mockService.On("UpdateStatus", mock.Anything, "64f1c0ffee0000000000abcd", "shipped").
			Return(nil, services.NewServiceError(http.StatusBadRequest, "Invalid status. Must be one of: placed, processing, delivered, canceled")).Once()

		router := orderRouter(mockService)
		req, _ := http.NewRequest(http.MethodPatch, "/orders/64f1c0ffee0000000000abcd/status", bytes.NewBufferString(`{"status":"shipped"}`))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Invalid status")
		mockService.AssertExpectations(t)
	})
}
