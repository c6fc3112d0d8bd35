package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	workflowerrors "backstage/internal/workflow/errors"
	"backstage/pkg/config"
	mongotx "backstage/pkg/db/mongo"
	"backstage/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"
)

// Transition is a compare-and-swap of a booking's workflow. It applies only
// while the stored workflow is still at ExpectedStage and ExpectedVersion
// and the booking is still in ExpectedStatus.
type Transition struct {
	ExpectedStage   model.Stage
	ExpectedVersion int64
	ExpectedStatus  model.BookingStatus
	Workflow        *model.WorkflowState
	Status          model.BookingStatus
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindPending(ctx context.Context) ([]*model.Booking, error)
	SetTechnicalRider(ctx context.Context, id string, rider *model.TechnicalRider, now time.Time) error
	OpenWorkflow(ctx context.Context, id string, wf *model.WorkflowState) error
	ApplyTransition(ctx context.Context, id string, t Transition) error
	Cancel(ctx context.Context, id string, expected model.BookingStatus, reason string, now time.Time) error
	SetConfirmedAgent(ctx context.Context, id, agentID string, now time.Time) error
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", workflowerrors.ErrInvalidID, id)
	}
	return oid, nil
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, workflowerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

// FindPending returns bookings whose workflow has not reached a terminal
// stage, oldest workflow first.
func (r *mongoBookingRepository) FindPending(ctx context.Context) ([]*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"status": model.BookingUnderReview,
		"workflow.current_stage": bson.M{"$in": bson.A{
			model.StageTechnicalReview,
			model.StageAdminReview,
			model.StageFinalApproval,
		}},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "workflow.opened_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetProjection(bson.M{"production": 0})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find pending bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []*model.Booking{}
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepository) SetTechnicalRider(ctx context.Context, id string, rider *model.TechnicalRider, now time.Time) error {
	return r.updateOne(ctx, id,
		bson.M{"status": model.BookingPending},
		bson.M{"$set": bson.M{"technical_rider": rider, "updated_at": now}},
	)
}

// OpenWorkflow installs wf and moves the booking under review. It succeeds
// only for a pending booking without a workflow.
func (r *mongoBookingRepository) OpenWorkflow(ctx context.Context, id string, wf *model.WorkflowState) error {
	return r.updateOne(ctx, id,
		bson.M{
			"status":   model.BookingPending,
			"workflow": bson.M{"$exists": false},
		},
		bson.M{"$set": bson.M{
			"workflow":   wf,
			"status":     model.BookingUnderReview,
			"updated_at": wf.OpenedAt,
		}},
	)
}

func (r *mongoBookingRepository) ApplyTransition(ctx context.Context, id string, t Transition) error {
	return r.updateOne(ctx, id,
		bson.M{
			"status":                 t.ExpectedStatus,
			"workflow.current_stage": t.ExpectedStage,
			"workflow.version":       t.ExpectedVersion,
		},
		bson.M{
			"$set": bson.M{
				"workflow.current_stage": t.Workflow.CurrentStage,
				"workflow.steps":         t.Workflow.Steps,
				"workflow.updated_at":    t.Workflow.UpdatedAt,
				"status":                 t.Status,
				"updated_at":             t.Workflow.UpdatedAt,
			},
			"$inc": bson.M{"workflow.version": 1},
		},
	)
}

func (r *mongoBookingRepository) Cancel(ctx context.Context, id string, expected model.BookingStatus, reason string, now time.Time) error {
	return r.updateOne(ctx, id,
		bson.M{"status": expected},
		bson.M{"$set": bson.M{
			"status":        model.BookingCancelled,
			"cancel_reason": reason,
			"updated_at":    now,
		}},
	)
}

func (r *mongoBookingRepository) SetConfirmedAgent(ctx context.Context, id, agentID string, now time.Time) error {
	return r.updateOne(ctx, id,
		bson.M{"status": bson.M{"$nin": bson.A{model.BookingRejected, model.BookingCancelled}}},
		bson.M{"$set": bson.M{"confirmed_agent_id": agentID, "updated_at": now}},
	)
}

// updateOne applies update when the booking matches guard. A booking that
// exists but fails the guard yields ErrStaleWrite.
func (r *mongoBookingRepository) updateOne(ctx context.Context, id string, guard bson.M, update bson.M) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": oid}
	for k, v := range guard {
		filter[k] = v
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if result.MatchedCount == 1 {
		return nil
	}

	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to check booking existence: %w", err)
	}
	if count == 0 {
		return workflowerrors.ErrNotFound
	}
	return workflowerrors.ErrStaleWrite
}
