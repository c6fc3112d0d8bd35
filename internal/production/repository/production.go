package repository

import (
	"context"
	"fmt"

	productionerrors "backstage/internal/production/errors"
	workflowrepo "backstage/internal/workflow/repository"
	"backstage/pkg/config"
	mongotx "backstage/pkg/db/mongo"
	"backstage/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "ServiceAssignments"
)

type ProductionRepository interface {
	CreateAssignments(ctx context.Context, assignments []*model.ServiceAssignment) error
	FindByBooking(ctx context.Context, bookingID string) ([]*model.ServiceAssignment, error)
	// SavePlan stores plan on the booking unless one is already there. It
	// reports whether this call wrote it.
	SavePlan(ctx context.Context, bookingID string, plan *model.ProductionPlan) (bool, error)
}

type mongoProductionRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	bookings   *mongo.Collection
}

func NewMongoProductionRepository(cfg *config.Config) ProductionRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoProductionRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		bookings:   db.Collection(workflowrepo.CollectionName),
	}
}

func (r *mongoProductionRepository) CreateAssignments(ctx context.Context, assignments []*model.ServiceAssignment) error {
	if len(assignments) == 0 {
		return nil
	}
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	docs := make([]any, 0, len(assignments))
	for _, a := range assignments {
		docs = append(docs, a)
	}
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to create service assignments: %w", err)
	}
	return nil
}

func (r *mongoProductionRepository) FindByBooking(ctx context.Context, bookingID string) ([]*model.ServiceAssignment, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"booking_id": bookingID,
		"status":     bson.M{"$ne": model.ServiceCancelled},
	}
	opts := options.Find().SetSort(bson.D{{Key: "assigned_at", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find service assignments: %w", err)
	}
	defer cursor.Close(ctx)

	assignments := []*model.ServiceAssignment{}
	if err := cursor.All(ctx, &assignments); err != nil {
		return nil, fmt.Errorf("failed to decode service assignments: %w", err)
	}
	return assignments, nil
}

func (r *mongoProductionRepository) SavePlan(ctx context.Context, bookingID string, plan *model.ProductionPlan) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(bookingID)
	if err != nil {
		return false, fmt.Errorf("%w: %s", productionerrors.ErrInvalidID, bookingID)
	}
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"_id":        oid,
		"production": bson.M{"$exists": false},
	}
	update := bson.M{"$set": bson.M{"production": plan}}

	result, err := r.bookings.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to save production plan: %w", err)
	}
	return result.ModifiedCount == 1, nil
}
