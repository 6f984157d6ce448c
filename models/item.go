package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Item is a catalog (clothing) item document.
type Item struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code        string             `bson:"code" json:"code"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	Stock       int                `bson:"stock" json:"stock"`
	Type        string             `bson:"type,omitempty" json:"type,omitempty"`
	Size        string             `bson:"size,omitempty" json:"size,omitempty"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CreateItemRequest is the payload for POST /items.
type CreateItemRequest struct {
	Code        string  `json:"code" binding:"required"`
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Stock       int     `json:"stock" binding:"gte=0"`
	Type        string  `json:"type"`
	Size        string  `json:"size"`
	Image       string  `json:"image"`
}

// UpdateItemRequest is the payload for PUT /items/:id. Nil fields are left
// untouched; the item code is immutable.
type UpdateItemRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Type        *string  `json:"type"`
	Size        *string  `json:"size"`
	Image       *string  `json:"image"`
}

// ItemFilter captures the optional catalog query filters.
type ItemFilter struct {
	Code        string
	Type        string
	Size        string
	Title       string
	StartPrice  *float64
	EndPrice    *float64
	StockStatus *bool
}
