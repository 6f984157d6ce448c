package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/ShehanaHewage/TheCloset/models"
	"github.com/ShehanaHewage/TheCloset/repository"
)

// ItemService defines the catalog business logic.
type ItemService interface {
	List(ctx context.Context, filter models.ItemFilter, page, limit int) ([]models.Item, int64, *ServiceError)
	Get(ctx context.Context, id string) (*models.Item, *ServiceError)
	Create(ctx context.Context, req *models.CreateItemRequest) (*models.Item, *ServiceError)
	Update(ctx context.Context, id string, req *models.UpdateItemRequest) (*models.Item, *ServiceError)
	Delete(ctx context.Context, id string) *ServiceError
}

type itemServiceImpl struct {
	repo   repository.ItemRepository
	logger *zap.Logger
}

// NewItemService creates an ItemService.
func NewItemService(repo repository.ItemRepository, logger *zap.Logger) ItemService {
	return &itemServiceImpl{repo: repo, logger: logger}
}

func (s *itemServiceImpl) List(ctx context.Context, filter models.ItemFilter, page, limit int) ([]models.Item, int64, *ServiceError) {
	items, total, err := s.repo.Find(ctx, filter, page, limit)
	if err != nil {
		s.logger.Error("Failed to list items", zap.Error(err))
		return nil, 0, NewServiceError(500, "Failed to retrieve items")
	}
	return items, total, nil
}

func (s *itemServiceImpl) Get(ctx context.Context, id string) (*models.Item, *ServiceError) {
	oid, svcErr := parseItemID(id)
	if svcErr != nil {
		return nil, svcErr
	}

	item, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewServiceError(404, "Item not found")
		}
		s.logger.Error("Failed to look up item", zap.String("id", id), zap.Error(err))
		return nil, NewServiceError(500, "Failed to retrieve item")
	}
	return item, nil
}

func (s *itemServiceImpl) Create(ctx context.Context, req *models.CreateItemRequest) (*models.Item, *ServiceError) {
	if _, err := s.repo.FindByCode(ctx, req.Code); err == nil {
		return nil, NewServiceError(400, fmt.Sprintf("Item already exists with code %s", req.Code))
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		s.logger.Error("Failed to check item code", zap.Error(err))
		return nil, NewServiceError(500, "Failed to create item")
	}

	item := &models.Item{
		Code:        req.Code,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Type:        req.Type,
		Size:        req.Size,
		Image:       req.Image,
		CreatedAt:   nowUTC(),
		UpdatedAt:   nowUTC(),
	}

	id, err := s.repo.Create(ctx, item)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, NewServiceError(400, fmt.Sprintf("Item already exists with code %s", req.Code))
		}
		s.logger.Error("Failed to insert item", zap.Error(err))
		return nil, NewServiceError(500, "Failed to create item")
	}
	item.ID = id

	s.logger.Info("Item created", zap.String("code", item.Code))
	return item, nil
}

func (s *itemServiceImpl) Update(ctx context.Context, id string, req *models.UpdateItemRequest) (*models.Item, *ServiceError) {
	oid, svcErr := parseItemID(id)
	if svcErr != nil {
		return nil, svcErr
	}

	updates := bson.M{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, NewServiceError(400, "Price must be positive")
		}
		updates["price"] = *req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, NewServiceError(400, "Stock cannot be negative")
		}
		updates["stock"] = *req.Stock
	}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.Size != nil {
		updates["size"] = *req.Size
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}

	matched, err := s.repo.Update(ctx, oid, updates)
	if err != nil {
		s.logger.Error("Failed to update item", zap.String("id", id), zap.Error(err))
		return nil, NewServiceError(500, "Failed to update item")
	}
	if matched == 0 {
		return nil, NewServiceError(404, "Item not found")
	}

	item, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		s.logger.Error("Failed to reload item", zap.String("id", id), zap.Error(err))
		return nil, NewServiceError(500, "Failed to retrieve item")
	}
	return item, nil
}

func (s *itemServiceImpl) Delete(ctx context.Context, id string) *ServiceError {
	oid, svcErr := parseItemID(id)
	if svcErr != nil {
		return svcErr
	}

	deleted, err := s.repo.Delete(ctx, oid)
	if err != nil {
		s.logger.Error("Failed to delete item", zap.String("id", id), zap.Error(err))
		return NewServiceError(500, "Failed to delete item")
	}
	if deleted == 0 {
		return NewServiceError(404, "Item not found")
	}

	s.logger.Info("Item deleted", zap.String("id", id))
	return nil
}

func parseItemID(id string) (primitive.ObjectID, *ServiceError) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, NewServiceError(400, "Invalid item ID format")
	}
	return oid, nil
}
