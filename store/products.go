package store

import (
	"context"
	"log"
	"math"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"freshmart/apperr"
	"freshmart/models"
)

// ProductQuery carries the catalog listing filters.
type ProductQuery struct {
	Search      string
	CategoryID  *primitive.ObjectID
	Subcategory string
	MinPrice    *float64
	MaxPrice    *float64
	MinDiscount *int
	InStockOnly bool
	Featured    *bool
	SortBy      string // relevance, price-low, price-high, discount
	Page        int
	PageSize    int
}

// ListProducts returns a filtered, sorted catalog page.
func (s *Store) ListProducts(ctx context.Context, q ProductQuery) (*models.ProductPage, error) {
	filter := bson.M{"is_active": true}
	if q.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
		}
	}
	if q.CategoryID != nil {
		filter["category_id"] = *q.CategoryID
	}
	if q.Subcategory != "" {
		filter["subcategory"] = q.Subcategory
	}
	if q.MinPrice != nil {
		filter["price"] = bson.M{"$gte": *q.MinPrice}
	}
	if q.MaxPrice != nil {
		if prev, ok := filter["price"].(bson.M); ok {
			prev["$lte"] = *q.MaxPrice
		} else {
			filter["price"] = bson.M{"$lte": *q.MaxPrice}
		}
	}
	if q.MinDiscount != nil {
		filter["discount_percentage"] = bson.M{"$gte": *q.MinDiscount}
	}
	if q.InStockOnly {
		filter["is_in_stock"] = true
	}
	if q.Featured != nil {
		filter["is_featured"] = *q.Featured
	}

	total, err := s.col(ColProducts).CountDocuments(ctx, filter)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	var sort bson.D
	switch q.SortBy {
	case "price-low":
		sort = bson.D{{Key: "price", Value: 1}}
	case "price-high":
		sort = bson.D{{Key: "price", Value: -1}}
	case "discount":
		sort = bson.D{{Key: "discount_percentage", Value: -1}}
	default:
		sort = bson.D{{Key: "is_featured", Value: -1}, {Key: "_id", Value: -1}}
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	opts := options.Find().
		SetSort(sort).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := s.col(ColProducts).Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, apperr.Internal(err)
	}

	return &models.ProductPage{
		Products:   products,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

// FeaturedProducts returns active featured products, best discount first.
func (s *Store) FeaturedProducts(ctx context.Context, limit int) ([]models.Product, error) {
	if limit < 1 || limit > 50 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "discount_percentage", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := s.col(ColProducts).Find(ctx, bson.M{"is_active": true, "is_featured": true}, opts)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, apperr.Internal(err)
	}
	return products, nil
}

// GetProduct fetches one product by id.
func (s *Store) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := s.col(ColProducts).FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("product not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &product, nil
}

// ListCategories returns active categories in display order.
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "display_order", Value: 1}})
	cursor, err := s.col(ColCategories).Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, apperr.Internal(err)
	}
	return categories, nil
}

// CreateProduct inserts a catalog item (admin only).
func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	product.CreatedAt = time.Now()
	product.IsActive = true
	product.IsInStock = product.Stock > 0
	res, err := s.col(ColProducts).InsertOne(ctx, product)
	if err != nil {
		return apperr.Internal(err)
	}
	product.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// UpdateProduct applies fields to a catalog item (admin only).
func (s *Store) UpdateProduct(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Product, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Product
	err := s.col(ColProducts).FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("product not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &updated, nil
}

// DeleteProduct removes a catalog item (admin only).
func (s *Store) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col(ColProducts).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Internal(err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("product not found")
	}
	return nil
}

// DecrementStock reduces a product's stock by qty, clearing is_in_stock when
// it reaches zero. Fails when stock is insufficient.
func (s *Store) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Product
	err := s.col(ColProducts).FindOneAndUpdate(ctx,
		bson.M{"_id": id, "stock": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"stock": -qty}}, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return apperr.FailedPrecondition("insufficient stock")
	}
	if err != nil {
		return apperr.Internal(err)
	}
	if updated.Stock <= 0 {
		s.col(ColProducts).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"is_in_stock": false}})
	}
	return nil
}

// RestoreStock adds qty back to a product's stock and reinstates is_in_stock.
func (s *Store) RestoreStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	_, err := s.col(ColProducts).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"stock": qty}, "$set": bson.M{"is_in_stock": true}})
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// ReserveStock decrements stock for every order line, or for none of them:
// when a line fails, the decrements already applied are restored before the
// error is returned.
func (s *Store) ReserveStock(ctx context.Context, items []models.OrderItem) error {
	for i, item := range items {
		if err := s.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.ReleaseStock(ctx, items[:i])
			return err
		}
	}
	return nil
}

// ReleaseStock returns reserved stock to the catalog. Best effort: a line
// that cannot be restored is logged, not fatal.
func (s *Store) ReleaseStock(ctx context.Context, items []models.OrderItem) {
	for _, item := range items {
		if err := s.RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
			log.Printf("release stock for product %s: %v", item.ProductID.Hex(), err)
		}
	}
}
