package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"freshmart/apperr"
	"freshmart/models"
)

// GetWishlist fetches a user's wishlist, creating an empty one if missing.
func (s *Store) GetWishlist(ctx context.Context, userID primitive.ObjectID) (*models.Wishlist, error) {
	var wl models.Wishlist
	err := s.col(ColWishlists).FindOne(ctx, bson.M{"user_id": userID}).Decode(&wl)
	if err == mongo.ErrNoDocuments {
		wl = models.Wishlist{UserID: userID, Items: []models.WishlistItem{}}
		res, insErr := s.col(ColWishlists).InsertOne(ctx, wl)
		if insErr != nil {
			return nil, apperr.Internal(insErr)
		}
		wl.ID = res.InsertedID.(primitive.ObjectID)
		return &wl, nil
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &wl, nil
}

// ToggleWishlist adds the product when absent, removes it when present, and
// reports whether it is now saved.
func (s *Store) ToggleWishlist(ctx context.Context, userID primitive.ObjectID, product *models.Product) (bool, error) {
	wl, err := s.GetWishlist(ctx, userID)
	if err != nil {
		return false, err
	}

	if wl.Contains(product.ID) {
		_, err := s.col(ColWishlists).UpdateOne(ctx, bson.M{"_id": wl.ID},
			bson.M{"$pull": bson.M{"items": bson.M{"product_id": product.ID}}})
		if err != nil {
			return false, apperr.Internal(err)
		}
		return false, nil
	}

	item := models.WishlistItem{
		ID:           primitive.NewObjectID(),
		ProductID:    product.ID,
		ProductName:  product.Name,
		ProductPrice: product.Price,
		ProductImage: product.Image,
		AddedAt:      time.Now(),
	}
	_, err = s.col(ColWishlists).UpdateOne(ctx, bson.M{"_id": wl.ID},
		bson.M{"$push": bson.M{"items": item}})
	if err != nil {
		return false, apperr.Internal(err)
	}
	return true, nil
}

// InWishlist reports whether productID is saved in the user's wishlist.
func (s *Store) InWishlist(ctx context.Context, userID, productID primitive.ObjectID) (bool, error) {
	wl, err := s.GetWishlist(ctx, userID)
	if err != nil {
		return false, err
	}
	return wl.Contains(productID), nil
}

// RemoveWishlistItem deletes one saved item by product id.
func (s *Store) RemoveWishlistItem(ctx context.Context, userID, productID primitive.ObjectID) error {
	wl, err := s.GetWishlist(ctx, userID)
	if err != nil {
		return err
	}
	res, err := s.col(ColWishlists).UpdateOne(ctx, bson.M{"_id": wl.ID},
		bson.M{"$pull": bson.M{"items": bson.M{"product_id": productID}}})
	if err != nil {
		return apperr.Internal(err)
	}
	if res.ModifiedCount == 0 {
		return apperr.NotFound("wishlist item not found")
	}
	return nil
}

// ClearWishlist removes every saved item.
func (s *Store) ClearWishlist(ctx context.Context, userID primitive.ObjectID) error {
	wl, err := s.GetWishlist(ctx, userID)
	if err != nil {
		return err
	}
	_, err = s.col(ColWishlists).UpdateOne(ctx, bson.M{"_id": wl.ID},
		bson.M{"$set": bson.M{"items": []models.WishlistItem{}}})
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}
