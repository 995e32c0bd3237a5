package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStatus is the account state an administrator can set on a customer.
type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserInactive  UserStatus = "inactive"
	UserSuspended UserStatus = "suspended"
	UserPending   UserStatus = "pending"
)

// Valid reports whether s is a known user status.
func (s UserStatus) Valid() bool {
	switch s {
	case UserActive, UserInactive, UserSuspended, UserPending:
		return true
	}
	return false
}

// BlocksLogin reports whether the status also disables the login identity.
// The status field and the is_active flag are written together so the two
// never disagree.
func (s UserStatus) BlocksLogin() bool {
	return s == UserSuspended || s == UserInactive
}

// User represents a storefront customer
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UID           string             `bson:"uid" json:"uid"`
	Name          string             `bson:"name" json:"name"`
	Email         string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone         string             `bson:"phone,omitempty" json:"phone,omitempty"`
	PasswordHash  string             `bson:"password_hash,omitempty" json:"-"`
	Address       string             `bson:"address,omitempty" json:"address,omitempty"`
	City          string             `bson:"city,omitempty" json:"city,omitempty"`
	State         string             `bson:"state,omitempty" json:"state,omitempty"`
	Pincode       string             `bson:"pincode,omitempty" json:"pincode,omitempty"`
	WalletBalance float64            `bson:"wallet_balance" json:"wallet_balance"`
	TotalSavings  float64            `bson:"total_savings" json:"total_savings"`
	Status        UserStatus         `bson:"status" json:"status"`
	IsActive      bool               `bson:"is_active" json:"is_active"`
	IsVerified    bool               `bson:"is_verified" json:"is_verified"`
	Provider      string             `bson:"provider,omitempty" json:"provider,omitempty"` // "email" or "phone"
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
	LastLogin     *time.Time         `bson:"last_login,omitempty" json:"last_login,omitempty"`
	CreatedBy     string             `bson:"created_by,omitempty" json:"created_by,omitempty"`
}

// UserStats summarizes a customer's account for the profile screen.
type UserStats struct {
	TotalOrders   int     `json:"total_orders"`
	WishlistCount int     `json:"wishlist_count"`
	TotalSavings  float64 `json:"total_savings"`
	WalletBalance float64 `json:"wallet_balance"`
}
