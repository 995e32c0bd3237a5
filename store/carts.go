package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"freshmart/apperr"
	"freshmart/models"
)

// GetCart fetches a user's cart, creating an empty one if missing.
func (s *Store) GetCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := s.col(ColCarts).FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		cart = models.Cart{UserID: userID, Items: []models.CartItem{}}
		res, insErr := s.col(ColCarts).InsertOne(ctx, cart)
		if insErr != nil {
			return nil, apperr.Internal(insErr)
		}
		cart.ID = res.InsertedID.(primitive.ObjectID)
		return &cart, nil
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &cart, nil
}

// AddToCart adds qty of a product, merging with an existing line item.
func (s *Store) AddToCart(ctx context.Context, userID primitive.ObjectID, product *models.Product, qty int) (*models.Cart, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == product.ID {
			cart.Items[i].Quantity += qty
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, models.CartItem{
			ID:            primitive.NewObjectID(),
			ProductID:     product.ID,
			Quantity:      qty,
			Price:         product.Price,
			OriginalPrice: product.OriginalPrice,
		})
	}
	return s.saveCartItems(ctx, cart)
}

// UpdateCartItem sets the quantity on one line item; zero removes it.
func (s *Store) UpdateCartItem(ctx context.Context, userID, itemID primitive.ObjectID, qty int) (*models.Cart, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apperr.NotFound("cart item not found")
	}
	if qty <= 0 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	} else {
		cart.Items[idx].Quantity = qty
	}
	return s.saveCartItems(ctx, cart)
}

// RemoveCartItem deletes one line item.
func (s *Store) RemoveCartItem(ctx context.Context, userID, itemID primitive.ObjectID) (*models.Cart, error) {
	return s.UpdateCartItem(ctx, userID, itemID, 0)
}

// ClearCart empties the user's cart.
func (s *Store) ClearCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.Items = []models.CartItem{}
	return s.saveCartItems(ctx, cart)
}

func (s *Store) saveCartItems(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Cart
	err := s.col(ColCarts).FindOneAndUpdate(ctx, bson.M{"_id": cart.ID},
		bson.M{"$set": bson.M{"items": cart.Items}}, opts).Decode(&updated)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &updated, nil
}
