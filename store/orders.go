package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"freshmart/apperr"
	"freshmart/models"
)

// InsertOrder stores a new order created at checkout. The caller has already
// set status to confirmed with its initial history entry.
func (s *Store) InsertOrder(ctx context.Context, order *models.Order) error {
	res, err := s.col(ColOrders).InsertOne(ctx, order)
	if err != nil {
		return apperr.Internal(err)
	}
	order.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// GetOrder fetches one order by id.
func (s *Store) GetOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := s.col(ColOrders).FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("order not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &order, nil
}

// ListOrdersByUser returns a user's orders, newest first.
func (s *Store) ListOrdersByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.findOrders(ctx, bson.M{"user_id": userID})
}

// ListOrders returns every order, newest first. The admin dashboard filters
// and paginates this set client-side from its live mirror.
func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.findOrders(ctx, bson.M{})
}

func (s *Store) findOrders(ctx context.Context, filter bson.M) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.col(ColOrders).Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, apperr.Internal(err)
	}
	return orders, nil
}

// TransitionOrder moves an order to next after validating the edge, setting
// the new status, bumping updated_at and appending the history entry in one
// atomic update. The current status is part of the update filter, so a
// concurrent transition cannot slip an illegal edge through; nothing is
// applied locally until the store confirms the write.
func (s *Store) TransitionOrder(ctx context.Context, id primitive.ObjectID, next models.OrderStatus, actor models.Principal) (*models.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := models.ValidateTransition(order.Status, next); err != nil {
		return nil, err
	}

	now := time.Now()
	entry := models.StatusEntry{
		Status:    next,
		Timestamp: now,
		Message:   fmt.Sprintf("Order %s by admin", next),
		UpdatedBy: actor.Email,
	}
	update := bson.M{
		"$set":  bson.M{"status": next, "updated_at": now},
		"$push": bson.M{"status_history": entry},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Order
	err = s.col(ColOrders).FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": order.Status}, update, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		// status changed underneath us between read and write
		return nil, apperr.InvalidTransition(string(order.Status), string(next))
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &updated, nil
}

// AssignDeliveryPartner records who carries the order. Allowed only while the
// order is packed or out for delivery; the status itself does not change.
func (s *Store) AssignDeliveryPartner(ctx context.Context, id primitive.ObjectID, partner models.DeliveryPartner) (*models.Order, error) {
	update := bson.M{
		"$set": bson.M{"delivery_partner": partner, "updated_at": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Order
	err := s.col(ColOrders).FindOneAndUpdate(ctx, bson.M{
		"_id":    id,
		"status": bson.M{"$in": bson.A{models.StatusPacked, models.StatusOutForDelivery}},
	}, update, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		if _, getErr := s.GetOrder(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, apperr.FailedPrecondition("delivery partner can only be assigned while the order is packed or out for delivery")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &updated, nil
}

// WatchOrders opens a change stream on the orders collection and delivers the
// full order set, newest first, on every change. The first snapshot is sent
// immediately. Transient stream failures are logged and the stream reopened
// after a short backoff; the channel closes only when ctx is cancelled.
func (s *Store) WatchOrders(ctx context.Context) <-chan []models.Order {
	return watchCollection(ctx, s.col(ColOrders), s.ListOrders)
}
