package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses.
const (
	OrderStatusPlaced     = "placed"
	OrderStatusProcessing = "processing"
	OrderStatusDelivered  = "delivered"
	OrderStatusCanceled   = "canceled"
)

// PaymentMethodCOD is the only supported payment method.
const PaymentMethodCOD = "Cash on delivery"

// ValidOrderStatus reports whether status is one of the known order statuses.
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPlaced, OrderStatusProcessing, OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

// OrderItemSnapshot is the frozen copy of an item's descriptive fields taken
// at placement time. Later catalog edits never affect it; the id is kept only
// for stock adjustment on cancellation.
type OrderItemSnapshot struct {
	ID    primitive.ObjectID `bson:"id" json:"id"`
	Code  string             `bson:"code" json:"code"`
	Title string             `bson:"title" json:"title"`
	Price float64            `bson:"price" json:"price"`
	Size  string             `bson:"size,omitempty" json:"size,omitempty"`
	Type  string             `bson:"type,omitempty" json:"type,omitempty"`
	Image string             `bson:"image,omitempty" json:"image,omitempty"`
}

// OrderLine is one snapshot line of an order.
type OrderLine struct {
	Item     OrderItemSnapshot `bson:"item" json:"item"`
	Pieces   int               `bson:"pieces" json:"pieces"`
	Subtotal float64           `bson:"subtotal" json:"subtotal"`
}

// Order is a stored order document.
type Order struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	TrackingCode    string              `bson:"trackingCode" json:"trackingCode"`
	Status          string              `bson:"status" json:"status"`
	PaymentMethod   string              `bson:"paymentMethod" json:"paymentMethod"`
	Items           []OrderLine         `bson:"items" json:"items"`
	Total           float64             `bson:"total" json:"total"`
	ContactNumber   string              `bson:"contactNumber" json:"contactNumber"`
	BillingAddress  string              `bson:"billingAddress" json:"billingAddress"`
	ShippingAddress string              `bson:"shippingAddress" json:"shippingAddress"`
	UserID          *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// OrderLineRequest is one requested line of a new order.
type OrderLineRequest struct {
	Item struct {
		ID string `json:"id"`
	} `json:"item"`
	Pieces int `json:"pieces"`
}

// PlaceOrderRequest is the payload for POST /orders. UserID is optional;
// guest checkout is allowed.
type PlaceOrderRequest struct {
	Items           []OrderLineRequest `json:"items"`
	ContactNumber   string             `json:"contactNumber"`
	BillingAddress  string             `json:"billingAddress"`
	ShippingAddress string             `json:"shippingAddress"`
	UserID          string             `json:"userId"`
}

// UpdateOrderStatusRequest is the payload for PATCH /orders/:id/status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}
