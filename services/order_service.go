package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/ShehanaHewage/TheCloset/models"
	"github.com/ShehanaHewage/TheCloset/repository"
)

// trackingCodeAttempts bounds the collision retry loop on code generation.
const trackingCodeAttempts = 5

// OrderService defines the order business logic.
type OrderService interface {
	Place(ctx context.Context, req *models.PlaceOrderRequest) (*models.Order, *ServiceError)
	Track(ctx context.Context, trackingCode string) (*models.Order, *ServiceError)
	Get(ctx context.Context, id string) (*models.Order, *ServiceError)
	ListForUser(ctx context.Context, userID string) ([]models.Order, *ServiceError)
	List(ctx context.Context, status string, page, limit int) ([]models.Order, int64, *ServiceError)
	UpdateStatus(ctx context.Context, id, status string) (*models.Order, *ServiceError)
}

type orderServiceImpl struct {
	orders repository.OrderRepository
	items  repository.ItemRepository
	logger *zap.Logger
}

// NewOrderService creates an OrderService.
func NewOrderService(orders repository.OrderRepository, items repository.ItemRepository, logger *zap.Logger) OrderService {
	return &orderServiceImpl{orders: orders, items: items, logger: logger}
}

// Place validates the requested lines against the live catalog, reserves the
// stock, and persists the order. Stock is taken with per-item conditional
// decrements (decrement only while stock >= pieces); if any line cannot be
// reserved, or the final insert fails, every decrement already applied is
// rolled back, so a failed placement never leaves a net stock change.
func (s *orderServiceImpl) Place(ctx context.Context, req *models.PlaceOrderRequest) (*models.Order, *ServiceError) {
	if strings.TrimSpace(req.ContactNumber) == "" ||
		strings.TrimSpace(req.BillingAddress) == "" ||
		strings.TrimSpace(req.ShippingAddress) == "" {
		return nil, NewServiceError(400, "Missing required fields")
	}
	if len(req.Items) == 0 {
		return nil, NewServiceError(400, "Order must contain at least one item")
	}

	var userID *primitive.ObjectID
	if req.UserID != "" {
		oid, err := primitive.ObjectIDFromHex(req.UserID)
		if err != nil {
			return nil, NewServiceError(400, "Invalid user ID format")
		}
		userID = &oid
	}

	lines, total, svcErr := s.validateLines(ctx, req.Items)
	if svcErr != nil {
		return nil, svcErr
	}

	reserved, svcErr := s.reserveStock(ctx, lines)
	if svcErr != nil {
		return nil, svcErr
	}

	trackingCode, svcErr := s.newTrackingCode(ctx)
	if svcErr != nil {
		s.releaseStock(ctx, reserved)
		return nil, svcErr
	}

	order := &models.Order{
		TrackingCode:    trackingCode,
		Status:          models.OrderStatusPlaced,
		PaymentMethod:   models.PaymentMethodCOD,
		Items:           lines,
		Total:           total,
		ContactNumber:   req.ContactNumber,
		BillingAddress:  req.BillingAddress,
		ShippingAddress: req.ShippingAddress,
		UserID:          userID,
		CreatedAt:       nowUTC(),
		UpdatedAt:       nowUTC(),
	}

	id, err := s.orders.Create(ctx, order)
	if err != nil {
		s.releaseStock(ctx, reserved)
		s.logger.Error("Failed to insert order", zap.Error(err))
		return nil, NewServiceError(500, "Failed to create order")
	}
	order.ID = id

	s.logger.Info("Order placed",
		zap.String("trackingCode", order.TrackingCode),
		zap.Int("lines", len(order.Items)),
		zap.Float64("total", order.Total),
	)
	return order, nil
}

func (s *orderServiceImpl) Track(ctx context.Context, trackingCode string) (*models.Order, *ServiceError) {
	order, err := s.orders.FindByTrackingCode(ctx, trackingCode)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewServiceError(404, "Order not found")
		}
		s.logger.Error("Failed to look up order", zap.String("trackingCode", trackingCode), zap.Error(err))
		return nil, NewServiceError(500, "Failed to retrieve order")
	}
	return order, nil
}

func (s *orderServiceImpl) Get(ctx context.Context, id string) (*models.Order, *ServiceError) {
	oid, svcErr := parseOrderID(id)
	if svcErr != nil {
		return nil, svcErr
	}
	return s.findOrder(ctx, oid)
}

func (s *orderServiceImpl) ListForUser(ctx context.Context, userID string) ([]models.Order, *ServiceError) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, NewServiceError(400, "Invalid user ID format")
	}

	orders, err := s.orders.FindByUser(ctx, oid)
	if err != nil {
		s.logger.Error("Failed to list user orders", zap.Error(err))
		return nil, NewServiceError(500, "Failed to retrieve orders")
	}
	return orders, nil
}

func (s *orderServiceImpl) List(ctx context.Context, status string, page, limit int) ([]models.Order, int64, *ServiceError) {
	if status != "" && !models.ValidOrderStatus(status) {
		return nil, 0, NewServiceError(400, "Invalid status. Must be one of: placed, processing, delivered, canceled")
	}

	orders, total, err := s.orders.Find(ctx, status, page, limit)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err))
		return nil, 0, NewServiceError(500, "Failed to retrieve orders")
	}
	return orders, total, nil
}

// UpdateStatus transitions an order and reverses its stock effect when the
// transition crosses the cancellation boundary: entering canceled restores
// every line's pieces, leaving canceled re-applies the same decrements. The
// per-line adjustments go to the store as one bulk write. Both directions use
// unconditional increments so cancel/un-cancel cycles stay exactly
// stock-neutral.
func (s *orderServiceImpl) UpdateStatus(ctx context.Context, id, status string) (*models.Order, *ServiceError) {
	if !models.ValidOrderStatus(status) {
		return nil, NewServiceError(400, "Invalid status. Must be one of: placed, processing, delivered, canceled")
	}

	oid, svcErr := parseOrderID(id)
	if svcErr != nil {
		return nil, svcErr
	}

	order, svcErr := s.findOrder(ctx, oid)
	if svcErr != nil {
		return nil, svcErr
	}

	var adjustments []repository.StockAdjustment
	switch {
	case status == models.OrderStatusCanceled && order.Status != models.OrderStatusCanceled:
		adjustments = stockAdjustments(order.Items, 1)
	case status != models.OrderStatusCanceled && order.Status == models.OrderStatusCanceled:
		adjustments = stockAdjustments(order.Items, -1)
	}

	if len(adjustments) > 0 {
		if err := s.items.AdjustStockBulk(ctx, adjustments); err != nil {
			s.logger.Error("Failed to adjust stock for status transition",
				zap.String("orderId", id),
				zap.String("from", order.Status),
				zap.String("to", status),
				zap.Error(err),
			)
			return nil, NewServiceError(500, "Failed to update order status")
		}
	}

	matched, err := s.orders.UpdateStatus(ctx, oid, status)
	if err != nil || matched == 0 {
		// Stock was already adjusted; compensate before reporting failure.
		if len(adjustments) > 0 {
			if rbErr := s.items.AdjustStockBulk(ctx, invertAdjustments(adjustments)); rbErr != nil {
				s.logger.Error("Failed to roll back stock adjustment", zap.String("orderId", id), zap.Error(rbErr))
			}
		}
		if err != nil {
			s.logger.Error("Failed to update order status", zap.String("orderId", id), zap.Error(err))
			return nil, NewServiceError(500, "Failed to update order status")
		}
		return nil, NewServiceError(404, "Order not found")
	}

	s.logger.Info("Order status updated",
		zap.String("orderId", id),
		zap.String("from", order.Status),
		zap.String("to", status),
	)
	return s.findOrder(ctx, oid)
}

// validateLines resolves each requested line against the catalog and builds
// the frozen snapshot lines. Prices are captured here and never re-read.
func (s *orderServiceImpl) validateLines(ctx context.Context, reqLines []models.OrderLineRequest) ([]models.OrderLine, float64, *ServiceError) {
	var total float64
	lines := make([]models.OrderLine, 0, len(reqLines))

	for _, reqLine := range reqLines {
		if reqLine.Item.ID == "" || reqLine.Pieces <= 0 {
			return nil, 0, NewServiceError(400, "Invalid item format in order")
		}

		itemID, err := primitive.ObjectIDFromHex(reqLine.Item.ID)
		if err != nil {
			return nil, 0, NewServiceError(400, "Invalid item ID format")
		}

		item, err := s.items.FindByID(ctx, itemID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, 0, NewServiceError(400, fmt.Sprintf("Item with ID %s not found", reqLine.Item.ID))
			}
			s.logger.Error("Failed to look up order item", zap.String("itemId", reqLine.Item.ID), zap.Error(err))
			return nil, 0, NewServiceError(500, "Failed to create order")
		}

		if item.Stock < reqLine.Pieces {
			return nil, 0, NewServiceError(400, fmt.Sprintf("Not enough stock for item %s", item.Title))
		}

		subtotal := item.Price * float64(reqLine.Pieces)
		total += subtotal
		lines = append(lines, models.OrderLine{
			Item: models.OrderItemSnapshot{
				ID:    item.ID,
				Code:  item.Code,
				Title: item.Title,
				Price: item.Price,
				Size:  item.Size,
				Type:  item.Type,
				Image: item.Image,
			},
			Pieces:   reqLine.Pieces,
			Subtotal: subtotal,
		})
	}

	return lines, total, nil
}

// reserveStock decrements stock line by line under the stock >= pieces guard.
// On the first failure it restores the lines already taken and reports
// insufficient stock; the earlier validation pass can be stale by then, the
// conditional decrement is the authoritative check.
func (s *orderServiceImpl) reserveStock(ctx context.Context, lines []models.OrderLine) ([]models.OrderLine, *ServiceError) {
	reserved := make([]models.OrderLine, 0, len(lines))

	for _, line := range lines {
		err := s.items.DecrementStockIfAvailable(ctx, line.Item.ID, line.Pieces)
		if err != nil {
			s.releaseStock(ctx, reserved)
			if errors.Is(err, repository.ErrInsufficientStock) {
				return nil, NewServiceError(400, fmt.Sprintf("Not enough stock for item %s", line.Item.Title))
			}
			s.logger.Error("Failed to reserve stock", zap.String("itemId", line.Item.ID.Hex()), zap.Error(err))
			return nil, NewServiceError(500, "Failed to create order")
		}
		reserved = append(reserved, line)
	}

	return reserved, nil
}

// releaseStock returns previously reserved pieces. Rollback failures are
// logged, not surfaced; the request is already failing.
func (s *orderServiceImpl) releaseStock(ctx context.Context, reserved []models.OrderLine) {
	for _, line := range reserved {
		if err := s.items.IncrementStock(ctx, line.Item.ID, line.Pieces); err != nil {
			s.logger.Error("Failed to release reserved stock",
				zap.String("itemId", line.Item.ID.Hex()),
				zap.Int("pieces", line.Pieces),
				zap.Error(err),
			)
		}
	}
}

// newTrackingCode generates an 8-character uppercase hex code, retrying on
// collision with an existing order.
func (s *orderServiceImpl) newTrackingCode(ctx context.Context) (string, *ServiceError) {
	for attempt := 0; attempt < trackingCodeAttempts; attempt++ {
		code, err := generateTrackingCode()
		if err != nil {
			s.logger.Error("Failed to generate tracking code", zap.Error(err))
			return "", NewServiceError(500, "Failed to create order")
		}

		exists, err := s.orders.TrackingCodeExists(ctx, code)
		if err != nil {
			s.logger.Error("Failed to check tracking code", zap.Error(err))
			return "", NewServiceError(500, "Failed to create order")
		}
		if !exists {
			return code, nil
		}
		s.logger.Warn("Tracking code collision, retrying", zap.String("code", code))
	}

	return "", NewServiceError(500, "Failed to create order")
}

func (s *orderServiceImpl) findOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, *ServiceError) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewServiceError(404, "Order not found")
		}
		s.logger.Error("Failed to look up order", zap.Error(err))
		return nil, NewServiceError(500, "Failed to retrieve order")
	}
	return order, nil
}

func generateTrackingCode() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}

func stockAdjustments(lines []models.OrderLine, sign int) []repository.StockAdjustment {
	adjustments := make([]repository.StockAdjustment, 0, len(lines))
	for _, line := range lines {
		adjustments = append(adjustments, repository.StockAdjustment{
			ItemID: line.Item.ID,
			Delta:  sign * line.Pieces,
		})
	}
	return adjustments
}

func invertAdjustments(adjustments []repository.StockAdjustment) []repository.StockAdjustment {
	inverted := make([]repository.StockAdjustment, 0, len(adjustments))
	for _, adj := range adjustments {
		inverted = append(inverted, repository.StockAdjustment{ItemID: adj.ItemID, Delta: -adj.Delta})
	}
	return inverted
}

func parseOrderID(id string) (primitive.ObjectID, *ServiceError) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, NewServiceError(400, "Invalid order ID format")
	}
	return oid, nil
}
