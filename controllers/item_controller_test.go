package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ShehanaHewage/TheCloset/models"
	"github.com/ShehanaHewage/TheCloset/services"
)

// --- Mock Service ---

type MockItemService struct {
	mock.Mock
}

func (m *MockItemService) List(ctx context.Context, filter models.ItemFilter, page, limit int) ([]models.Item, int64, *services.ServiceError) {
	args := m.Called(ctx, filter, page, limit)
	if args.Get(2) != nil {
		return nil, 0, args.Get(2).(*services.ServiceError)
	}
	return args.Get(0).([]models.Item), args.Get(1).(int64), nil
}

func (m *MockItemService) Get(ctx context.Context, id string) (*models.Item, *services.ServiceError) {
	args := m.Called(ctx, id)
	if args.Get(1) != nil {
		return nil, args.Get(1).(*services.ServiceError)
	}
	return args.Get(0).(*models.Item), nil
}

func (m *MockItemService) Create(ctx context.Context, req *models.CreateItemRequest) (*models.Item, *services.ServiceError) {
	args := m.Called(ctx, req)
	if args.Get(1) != nil {
		return nil, args.Get(1).(*services.ServiceError)
	}
	return args.Get(0).(*models.Item), nil
}

func (m *MockItemService) Update(ctx context.Context, id string, req *models.UpdateItemRequest) (*models.Item, *services.ServiceError) {
	args := m.Called(ctx, id, req)
	if args.Get(1) != nil {
		return nil, args.Get(1).(*services.ServiceError)
	}
	return args.Get(0).(*models.Item), nil
}

func (m *MockItemService) Delete(ctx context.Context, id string) *services.ServiceError {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*services.ServiceError)
	}
	return nil
}

// --- Tests ---

func itemRouter(svc services.ItemService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	controller := NewItemController(svc, nil)
	router.GET("/items", controller.List)
	router.GET("/items/:id", controller.Get)
	router.POST("/items", controller.Create)
	return router
}

func TestListItemsController(t *testing.T) {
	t.Run("Success - returns pagination metadata", func(t *testing.T) {
		mockService := new(MockItemService)
		items := []models.Item{{ID: primitive.NewObjectID(), Code: "TS001", Title: "Linen Shirt"}}
		mockService.On("List", mock.Anything, mock.Anything, 2, 5).Return(items, int64(12), nil).Once()

		router := itemRouter(mockService)
		req, _ := http.NewRequest(http.MethodGet, "/items?page=2&limit=5", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)

		var body struct {
			Items      []models.Item     `json:"items"`
			Pagination models.Pagination `json:"pagination"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Len(t, body.Items, 1)
		assert.Equal(t, int64(12), body.Pagination.Total)
		assert.Equal(t, 2, body.Pagination.Page)
		assert.Equal(t, 5, body.Pagination.Limit)
		assert.Equal(t, 3, body.Pagination.Pages)
		mockService.AssertExpectations(t)
	})

	t.Run("Success - snake_case and camelCase filters both accepted", func(t *testing.T) {
		inStock := true
		start := 10.0
		expected := models.ItemFilter{Type: "shirt", StartPrice: &start, StockStatus: &inStock}

		for _, query := range []string{
			"/items?type=shirt&startPrice=10&stockStatus=true",
			"/items?type=shirt&start_price=10&stock_status=true",
		} {
			mockService := new(MockItemService)
			mockService.On("List", mock.Anything, mock.MatchedBy(func(f models.ItemFilter) bool {
				return f.Type == expected.Type &&
					f.StartPrice != nil && *f.StartPrice == start &&
					f.StockStatus != nil && *f.StockStatus
			}), 1, 10).Return([]models.Item{}, int64(0), nil).Once()

			router := itemRouter(mockService)
			req, _ := http.NewRequest(http.MethodGet, query, nil)
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)

			assert.Equal(t, http.StatusOK, recorder.Code, query)
			mockService.AssertExpectations(t)
		}
	})

	t.Run("Failure - malformed price filter - 400", func(t *testing.T) {
		mockService := new(MockItemService)
		router := itemRouter(mockService)

		req, _ := http.NewRequest(http.MethodGet, "/items?startPrice=cheap", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"success":false`)
		mockService.AssertNotCalled(t, "List")
	})

	t.Run("Success - limit clamped to maximum", func(t *testing.T) {
		mockService := new(MockItemService)
		mockService.On("List", mock.Anything, mock.Anything, 1, 100).Return([]models.Item{}, int64(0), nil).Once()

		router := itemRouter(mockService)
		req, _ := http.NewRequest(http.MethodGet, "/items?limit=5000", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		mockService.AssertExpectations(t)
	})
}

func TestCreateItemController(t *testing.T) {
	t.Run("Success - 201 Created", func(t *testing.T) {
		mockService := new(MockItemService)
		created := &models.Item{ID: primitive.NewObjectID(), Code: "TS001", Title: "Linen Shirt", Price: 24.50, Stock: 10}
		mockService.On("Create", mock.Anything, mock.Anything).Return(created, nil).Once()

		router := itemRouter(mockService)
		payload := `{"code":"TS001","title":"Linen Shirt","price":24.50,"stock":10}`
		req, _ := http.NewRequest(http.MethodPost, "/items", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusCreated, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "TS001")
		mockService.AssertExpectations(t)
	})

	t.Run("Failure - invalid body - 400", func(t *testing.T) {
		mockService := new(MockItemService)
		router := itemRouter(mockService)

		req, _ := http.NewRequest(http.MethodPost, "/items", bytes.NewBufferString(`{"price":-1}`))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockService.AssertNotCalled(t, "Create")
	})

	t.Run("Failure - duplicate code - 400", func(t *testing.T) {
		mockService := new(MockItemService)
		mockService.On("Create", mock.Anything, mock.Anything).
			Return(nil, services.NewServiceError(http.StatusBadRequest, "Item already exists with code TS001")).Once()

		router := itemRouter(mockService)
		payload := `{"code":"TS001","title":"Linen Shirt","price":24.50,"stock":10}`
		req, _ := http.NewRequest(http.MethodPost, "/items", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Item already exists with code TS001")
		mockService.AssertExpectations(t)
	})
}

func TestGetItemController(t *testing.T) {
	t.Run("Failure - not found - 404", func(t *testing.T) {
		mockService := new(MockItemService)
		id := primitive.NewObjectID().Hex()
		mockService.On("Get", mock.Anything, id).
			Return(nil, services.NewServiceError(http.StatusNotFound, "Item not found")).Once()

		router := itemRouter(mockService)
		req, _ := http.NewRequest(http.MethodGet, "/items/"+id, nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Item not found")
		mockService.AssertExpectations(t)
	})
}
