package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User account types.
const (
	UserTypeRegular = "regular"
	UserTypeAdmin   = "admin"
)

// User is a stored account document. The password hash is never serialized.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName string             `bson:"firstName" json:"firstName"`
	LastName  string             `bson:"lastName" json:"lastName"`
	Address   string             `bson:"address,omitempty" json:"address,omitempty"`
	Mobile    string             `bson:"mobile,omitempty" json:"mobile,omitempty"`
	Username  string             `bson:"username" json:"username"`
	Password  string             `bson:"password" json:"-"`
	Type      string             `bson:"type" json:"type"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RegisterRequest is the payload for POST /users/register.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	Mobile    string `json:"mobile"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

// LoginRequest is the payload for POST /users/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token and the authenticated user.
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// UpdateProfileRequest is the self-service profile update payload. Nil fields
// are left untouched.
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Address   *string `json:"address"`
	Mobile    *string `json:"mobile"`
}

// ChangePasswordRequest is the payload for PUT /users/me/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// AdminUpdateUserRequest is the admin user-management payload. Type is only
// applied when it names a valid account type.
type AdminUpdateUserRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Address   *string `json:"address"`
	Mobile    *string `json:"mobile"`
	Type      *string `json:"type"`
}
