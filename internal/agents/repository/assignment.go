package repository

import (
	"context"
	"errors"
	"fmt"

	agentserrors "backstage/internal/agents/errors"
	"backstage/pkg/config"
	mongotx "backstage/pkg/db/mongo"
	"backstage/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "AgentAssignments"
)

// ActiveStatuses are the statuses covered by the one-active-assignment-per-
// booking unique index.
var ActiveStatuses = []model.AssignmentStatus{
	model.AssignmentPending,
	model.AssignmentAssigned,
	model.AssignmentCounterOffered,
	model.AssignmentConfirmed,
}

type AssignmentRepository interface {
	Create(ctx context.Context, a *model.AgentAssignment) error
	FindActiveByBooking(ctx context.Context, bookingID string) (*model.AgentAssignment, error)
	FindByBookingAndAgent(ctx context.Context, bookingID, agentID string) (*model.AgentAssignment, error)
	FindByBooking(ctx context.Context, bookingID string) ([]*model.AgentAssignment, error)
	FindByAgent(ctx context.Context, agentID string) ([]*model.AgentAssignment, error)
	// Update writes the negotiable fields of a when the stored assignment is
	// still in expected status.
	Update(ctx context.Context, a *model.AgentAssignment, expected model.AssignmentStatus) error
}

type mongoAssignmentRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoAssignmentRepository(cfg *config.Config) AssignmentRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAssignmentRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoAssignmentRepository) Create(ctx context.Context, a *model.AgentAssignment) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, a); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return agentserrors.ErrDuplicate
		}
		return fmt.Errorf("failed to create agent assignment: %w", err)
	}
	return nil
}

func (r *mongoAssignmentRepository) FindActiveByBooking(ctx context.Context, bookingID string) (*model.AgentAssignment, error) {
	return r.findOne(ctx, bson.M{
		"booking_id": bookingID,
		"status":     bson.M{"$in": ActiveStatuses},
	})
}

// FindByBookingAndAgent returns the newest assignment for the pair.
func (r *mongoAssignmentRepository) FindByBookingAndAgent(ctx context.Context, bookingID, agentID string) (*model.AgentAssignment, error) {
	return r.findOne(ctx, bson.M{"booking_id": bookingID, "agent_id": agentID})
}

func (r *mongoAssignmentRepository) findOne(ctx context.Context, filter bson.M) (*model.AgentAssignment, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	var a model.AgentAssignment
	if err := r.collection.FindOne(ctx, filter, opts).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, agentserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find agent assignment: %w", err)
	}
	return &a, nil
}

func (r *mongoAssignmentRepository) FindByBooking(ctx context.Context, bookingID string) ([]*model.AgentAssignment, error) {
	return r.find(ctx, bson.M{"booking_id": bookingID})
}

func (r *mongoAssignmentRepository) FindByAgent(ctx context.Context, agentID string) ([]*model.AgentAssignment, error) {
	return r.find(ctx, bson.M{"agent_id": agentID})
}

func (r *mongoAssignmentRepository) find(ctx context.Context, filter bson.M) ([]*model.AgentAssignment, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find agent assignments: %w", err)
	}
	defer cursor.Close(ctx)

	assignments := []*model.AgentAssignment{}
	if err := cursor.All(ctx, &assignments); err != nil {
		return nil, fmt.Errorf("failed to decode agent assignments: %w", err)
	}
	return assignments, nil
}

func (r *mongoAssignmentRepository) Update(ctx context.Context, a *model.AgentAssignment, expected model.AssignmentStatus) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":        a.Status,
		"talent_fee":    a.TalentFee,
		"counter_offer": a.CounterOffer,
		"responded_by":  a.RespondedBy,
		"responded_at":  a.RespondedAt,
		"updated_at":    a.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": a.ID, "status": expected}, update)
	if err != nil {
		return fmt.Errorf("failed to update agent assignment: %w", err)
	}
	if result.MatchedCount == 1 {
		return nil
	}

	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": a.ID})
	if err != nil {
		return fmt.Errorf("failed to check agent assignment existence: %w", err)
	}
	if count == 0 {
		return agentserrors.ErrNotFound
	}
	return agentserrors.ErrStaleWrite
}
