package store

import (
	"context"
	"log"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"freshmart/apperr"
	"freshmart/models"
)

// CreateUser inserts a new customer, rejecting duplicate email or phone.
// A cart and a wishlist are created alongside the account.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	or := bson.A{}
	if user.Email != "" {
		or = append(or, bson.M{"email": user.Email})
	}
	if user.Phone != "" {
		or = append(or, bson.M{"phone": user.Phone})
	}
	if len(or) > 0 {
		count, err := s.col(ColUsers).CountDocuments(ctx, bson.M{"$or": or})
		if err != nil {
			return apperr.Internal(err)
		}
		if count > 0 {
			return apperr.AlreadyExists("email or phone already registered")
		}
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	res, err := s.col(ColUsers).InsertOne(ctx, user)
	if err != nil {
		return apperr.Internal(err)
	}
	user.ID = res.InsertedID.(primitive.ObjectID)

	if _, err := s.col(ColCarts).InsertOne(ctx, models.Cart{UserID: user.ID, Items: []models.CartItem{}}); err != nil {
		return apperr.Internal(err)
	}
	if _, err := s.col(ColWishlists).InsertOne(ctx, models.Wishlist{UserID: user.ID, Items: []models.WishlistItem{}}); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// GetUser fetches one customer by id.
func (s *Store) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

// GetUserByEmail fetches one customer by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

// GetUserByPhone fetches one customer by phone.
func (s *Store) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"phone": phone})
}

func (s *Store) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := s.col(ColUsers).FindOne(ctx, filter).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &user, nil
}

// UpdateUser applies fields to a customer record and returns the result.
// Duplicate email/phone against other accounts is rejected.
func (s *Store) UpdateUser(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.User, error) {
	for _, key := range []string{"email", "phone"} {
		val, ok := fields[key]
		if !ok || val == "" {
			continue
		}
		count, err := s.col(ColUsers).CountDocuments(ctx, bson.M{key: val, "_id": bson.M{"$ne": id}})
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if count > 0 {
			return nil, apperr.AlreadyExists(key + " already registered")
		}
	}

	fields["updated_at"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.User
	err := s.col(ColUsers).FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &updated, nil
}

// UpdateUserStatus sets a customer's status and, in the same write, the
// is_active flag that gates login. The two always move together.
func (s *Store) UpdateUserStatus(ctx context.Context, id primitive.ObjectID, status models.UserStatus) (*models.User, error) {
	if !status.Valid() {
		return nil, apperr.InvalidArgument("unknown user status " + string(status))
	}
	return s.UpdateUser(ctx, id, bson.M{
		"status":    status,
		"is_active": !status.BlocksLogin(),
	})
}

// DeleteUser removes a customer and their cart and wishlist. A user already
// gone is treated as deleted.
func (s *Store) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col(ColUsers).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Internal(err)
	}
	if res.DeletedCount > 0 {
		// Best effort: orphaned carts and wishlists are harmless but noisy.
		if _, err := s.col(ColCarts).DeleteOne(ctx, bson.M{"user_id": id}); err != nil {
			log.Printf("delete user %s: cart cleanup failed: %v", id.Hex(), err)
		}
		if _, err := s.col(ColWishlists).DeleteOne(ctx, bson.M{"user_id": id}); err != nil {
			log.Printf("delete user %s: wishlist cleanup failed: %v", id.Hex(), err)
		}
	}
	return nil
}

// ListUsers returns all customers, newest first.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.findUsers(ctx, bson.M{})
}

// SearchUsers matches term case-insensitively against name, email and phone.
func (s *Store) SearchUsers(ctx context.Context, term string) ([]models.User, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	return s.findUsers(ctx, bson.M{"$or": bson.A{
		bson.M{"name": pattern},
		bson.M{"email": pattern},
		bson.M{"phone": pattern},
	}})
}

func (s *Store) findUsers(ctx context.Context, filter bson.M) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.col(ColUsers).Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, apperr.Internal(err)
	}
	return users, nil
}

// CountUsers counts all customers.
func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	count, err := s.col(ColUsers).CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, apperr.Internal(err)
	}
	return count, nil
}

// WatchUsers delivers the full customer set, newest first, on every change.
// Same contract as WatchOrders.
func (s *Store) WatchUsers(ctx context.Context) <-chan []models.User {
	return watchCollection(ctx, s.col(ColUsers), s.ListUsers)
}
