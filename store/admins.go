package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"freshmart/apperr"
	"freshmart/models"
)

// CreateAdmin inserts a new administrator account.
func (s *Store) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	count, err := s.col(ColAdmins).CountDocuments(ctx, bson.M{"email": admin.Email})
	if err != nil {
		return apperr.Internal(err)
	}
	if count > 0 {
		return apperr.AlreadyExists("admin with this email already exists")
	}

	admin.CreatedAt = time.Now()
	res, err := s.col(ColAdmins).InsertOne(ctx, admin)
	if err != nil {
		return apperr.Internal(err)
	}
	admin.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// GetAdminByEmail fetches one admin account by email.
func (s *Store) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := s.col(ColAdmins).FindOne(ctx, bson.M{"email": email}).Decode(&admin)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("admin not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &admin, nil
}

// GetAdmin fetches one admin account by id.
func (s *Store) GetAdmin(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	var admin models.Admin
	err := s.col(ColAdmins).FindOne(ctx, bson.M{"_id": id}).Decode(&admin)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("admin not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &admin, nil
}

// ListAdmins returns all administrator accounts, newest first.
func (s *Store) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.col(ColAdmins).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer cursor.Close(ctx)

	admins := []models.Admin{}
	if err := cursor.All(ctx, &admins); err != nil {
		return nil, apperr.Internal(err)
	}
	return admins, nil
}

// CountEnabledSuperAdmins counts non-disabled super_admin accounts, the
// number guarding the last-super-admin invariant.
func (s *Store) CountEnabledSuperAdmins(ctx context.Context) (int64, error) {
	count, err := s.col(ColAdmins).CountDocuments(ctx, bson.M{
		"role":     models.RoleSuperAdmin,
		"disabled": false,
	})
	if err != nil {
		return 0, apperr.Internal(err)
	}
	return count, nil
}

// SetAdminDisabled flips an account's disabled flag after checking the
// removal invariants against actor.
func (s *Store) SetAdminDisabled(ctx context.Context, actor models.Principal, id primitive.ObjectID, disabled bool) (*models.Admin, error) {
	target, err := s.GetAdmin(ctx, id)
	if err != nil {
		return nil, err
	}
	if disabled {
		supers, err := s.CountEnabledSuperAdmins(ctx)
		if err != nil {
			return nil, err
		}
		if err := models.CheckAdminRemoval(actor, *target, supers); err != nil {
			return nil, err
		}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Admin
	err = s.col(ColAdmins).FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"disabled": disabled}}, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("admin not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &updated, nil
}

// DeleteAdmin removes an account after checking the removal invariants. A
// target that is already gone counts as success; the end state is the same.
func (s *Store) DeleteAdmin(ctx context.Context, actor models.Principal, id primitive.ObjectID) error {
	target, err := s.GetAdmin(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil
		}
		return err
	}
	supers, err := s.CountEnabledSuperAdmins(ctx)
	if err != nil {
		return err
	}
	if err := models.CheckAdminRemoval(actor, *target, supers); err != nil {
		return err
	}

	_, err = s.col(ColAdmins).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}
