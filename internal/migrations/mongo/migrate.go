package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	agentrepo "backstage/internal/agents/repository"
	directoryrepo "backstage/internal/directory/repository"
	documentrepo "backstage/internal/documents/repository"
	"backstage/internal/migrations/mongo/validators"
	productionrepo "backstage/internal/production/repository"
	workflowrepo "backstage/internal/workflow/repository"
	"backstage/pkg/logger"
)

// CollectionDef is the schema validator and index set one collection must carry.
type CollectionDef struct {
	Indexes   []mongo.IndexModel
	Validator bson.M
}

var (
	BookingsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "workflow.current_stage", Value: 1}}},
		{Keys: bson.D{{Key: "workflow.opened_at", Value: 1}}},
		{Keys: bson.D{{Key: "talent_id", Value: 1}, {Key: "event_start", Value: 1}}},
		{Keys: bson.D{{Key: "booker_id", Value: 1}}},
	}

	ProfilesIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "kind", Value: 1},
			{Key: "management_tier", Value: 1},
			{Key: "created_at", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "kind", Value: 1},
			{Key: "service_type", Value: 1},
			{Key: "created_at", Value: 1},
		}},
	}

	// The partial filter uses $in, which needs MongoDB 6.0 or newer.
	AgentAssignmentsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "booking_id", Value: 1}},
			Options: options.Index().
				SetName("one_active_assignment_per_booking").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": bson.M{"$in": agentrepo.ActiveStatuses}}),
		},
		{Keys: bson.D{{Key: "agent_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	ServiceAssignmentsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "booking_id", Value: 1}, {Key: "assigned_at", Value: 1}}},
		{Keys: bson.D{{Key: "professional_id", Value: 1}}},
	}

	AttachmentsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "booking_id", Value: 1}, {Key: "doc_type", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
)

// Collections maps every collection the service writes to its definition.
func Collections() map[string]CollectionDef {
	return map[string]CollectionDef{
		workflowrepo.CollectionName: {
			Indexes:   BookingsIndexes,
			Validator: validators.BookingValidator,
		},
		directoryrepo.CollectionName: {
			Indexes:   ProfilesIndexes,
			Validator: validators.ProfileValidator,
		},
		agentrepo.CollectionName: {
			Indexes:   AgentAssignmentsIndexes,
			Validator: validators.AgentAssignmentValidator,
		},
		productionrepo.CollectionName: {
			Indexes:   ServiceAssignmentsIndexes,
			Validator: validators.ServiceAssignmentValidator,
		},
		documentrepo.CollectionName: {
			Indexes:   AttachmentsIndexes,
			Validator: validators.AttachmentValidator,
		},
	}
}

func RunMigration(ctx context.Context, client *mongo.Client, dbName string, log *logger.Logger) error {
	db := client.Database(dbName)
	log.Info("Running Mongo migrations", "database", dbName)

	for name, def := range Collections() {
		if err := ensureCollection(ctx, db, name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	coll := db.Collection(name)
	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "count", len(models))
	return nil
}
