package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem represents an item in the cart
type CartItem struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ProductID     primitive.ObjectID `bson:"product_id" json:"product_id"`
	Quantity      int                `bson:"quantity" json:"quantity"`
	Price         float64            `bson:"price" json:"price"`
	OriginalPrice float64            `bson:"original_price,omitempty" json:"original_price,omitempty"`
}

// Cart represents a user's shopping cart
type Cart struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	Items  []CartItem         `bson:"items" json:"items"`
}

// Subtotal sums price times quantity across the cart.
func (c Cart) Subtotal() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// Savings sums the spread between original and current prices for items that
// carry a discount.
func (c Cart) Savings() float64 {
	var total float64
	for _, item := range c.Items {
		if item.OriginalPrice > item.Price {
			total += (item.OriginalPrice - item.Price) * float64(item.Quantity)
		}
	}
	return total
}
