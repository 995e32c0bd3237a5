// Package store is the single write path to MongoDB. Every mutation the
// portal or the storefront performs goes through here; handlers never touch
// collections directly.
package store

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	ColUsers      = "users"
	ColAdmins     = "admins"
	ColOrders     = "orders"
	ColProducts   = "products"
	ColCategories = "categories"
	ColCarts      = "carts"
	ColWishlists  = "wishlists"
)

// Store wraps a MongoDB database handle.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// New creates a Store on client's dbName database and ensures indexes.
func New(client *mongo.Client, dbName string) *Store {
	s := &Store{client: client, db: client.Database(dbName)}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.ensureIndexes(ctx); err != nil {
		log.Printf("WARNING: ensure indexes failed: %v", err)
	}
	return s
}

// col gets the named collection.
func (s *Store) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	type idx struct {
		col    string
		keys   bson.D
		unique bool
	}

	indexes := []idx{
		{ColUsers, bson.D{{Key: "email", Value: 1}}, false},
		{ColUsers, bson.D{{Key: "phone", Value: 1}}, false},
		{ColUsers, bson.D{{Key: "uid", Value: 1}}, true},
		{ColUsers, bson.D{{Key: "created_at", Value: -1}}, false},

		{ColAdmins, bson.D{{Key: "email", Value: 1}}, true},

		{ColOrders, bson.D{{Key: "user_id", Value: 1}}, false},
		{ColOrders, bson.D{{Key: "status", Value: 1}}, false},
		{ColOrders, bson.D{{Key: "order_number", Value: 1}}, true},
		{ColOrders, bson.D{{Key: "created_at", Value: -1}}, false},

		{ColProducts, bson.D{{Key: "category_id", Value: 1}}, false},
		{ColProducts, bson.D{{Key: "is_featured", Value: 1}}, false},

		{ColCarts, bson.D{{Key: "user_id", Value: 1}}, true},
		{ColWishlists, bson.D{{Key: "user_id", Value: 1}}, true},
	}

	for _, i := range indexes {
		model := mongo.IndexModel{Keys: i.keys}
		if i.unique {
			model.Options = options.Index().SetUnique(true)
		}
		if _, err := s.col(i.col).Indexes().CreateOne(ctx, model); err != nil {
			return err
		}
	}
	return nil
}
