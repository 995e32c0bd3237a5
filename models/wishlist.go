package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WishlistItem represents a saved product in a wishlist
type WishlistItem struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ProductID    primitive.ObjectID `bson:"product_id" json:"product_id"`
	ProductName  string             `bson:"product_name" json:"product_name"`
	ProductPrice float64            `bson:"product_price" json:"product_price"`
	ProductImage string             `bson:"product_image,omitempty" json:"product_image,omitempty"`
	AddedAt      time.Time          `bson:"added_at" json:"added_at"`
}

// Wishlist represents a user's saved products
type Wishlist struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	Items  []WishlistItem     `bson:"items" json:"items"`
}

// Contains reports whether productID is already saved.
func (w Wishlist) Contains(productID primitive.ObjectID) bool {
	for _, item := range w.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}
