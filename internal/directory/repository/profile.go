package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	directoryerrors "backstage/internal/directory/errors"
	"backstage/pkg/config"
	mongotx "backstage/pkg/db/mongo"
	"backstage/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Profiles"
)

// ProfileRepository is the directory of talent, agents, professionals and
// bookers. List operations return records in directory order: created_at,
// then _id.
type ProfileRepository interface {
	FindByID(ctx context.Context, id string) (*model.TalentProfile, error)
	FindManagedAgents(ctx context.Context) ([]*model.TalentProfile, error)
	FindProfessionals(ctx context.Context, serviceType model.ServiceType) ([]*model.TalentProfile, error)
	UpsertService(ctx context.Context, userID string, svc *model.ProfessionalService, categories []string) error
	ReserveCapacity(ctx context.Context, agentID string) (bool, error)
	ReleaseCapacity(ctx context.Context, agentID string) error
}

type mongoProfileRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoProfileRepository(cfg *config.Config) ProfileRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoProfileRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

var directoryOrder = bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}

func (r *mongoProfileRepository) FindByID(ctx context.Context, id string) (*model.TalentProfile, error) {
	if id == "" {
		return nil, directoryerrors.ErrInvalidID
	}
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var profile model.TalentProfile
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, directoryerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	return &profile, nil
}

func (r *mongoProfileRepository) FindManagedAgents(ctx context.Context) ([]*model.TalentProfile, error) {
	return r.find(ctx, bson.M{
		"kind":            model.KindAgent,
		"management_tier": model.TierFull,
		"active":          true,
	})
}

func (r *mongoProfileRepository) FindProfessionals(ctx context.Context, serviceType model.ServiceType) ([]*model.TalentProfile, error) {
	return r.find(ctx, bson.M{
		"kind":         model.KindProfessional,
		"active":       true,
		"service_type": serviceType,
	})
}

func (r *mongoProfileRepository) find(ctx context.Context, filter bson.M) ([]*model.TalentProfile, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(directoryOrder))
	if err != nil {
		return nil, fmt.Errorf("failed to find profiles: %w", err)
	}
	defer cursor.Close(ctx)

	profiles := []*model.TalentProfile{}
	if err = cursor.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("failed to decode profiles: %w", err)
	}
	return profiles, nil
}

// UpsertService turns userID into an active professional offering svc,
// creating the directory record when it does not exist yet.
func (r *mongoProfileRepository) UpsertService(ctx context.Context, userID string, svc *model.ProfessionalService, categories []string) error {
	if userID == "" {
		return directoryerrors.ErrInvalidID
	}
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{
		"$set": bson.M{
			"name":            svc.Name,
			"email":           svc.Email,
			"kind":            model.KindProfessional,
			"active":          true,
			"service_type":    svc.ServiceType,
			"specializations": svc.Specializations,
			"region":          svc.Region,
			"portfolio":       svc.Portfolio,
			"rates":           svc.Rates,
			"blocked_dates":   svc.BlockedDates,
			"updated_at":      now,
		},
		"$addToSet": bson.M{
			"service_categories": bson.M{"$each": categories},
		},
		"$setOnInsert": bson.M{
			"management_tier":  model.TierNone,
			"open_assignments": 0,
			"created_at":       now,
		},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to register professional service: %w", err)
	}
	return nil
}

// ReserveCapacity takes one assignment slot from agentID when it has one
// free. The check and the increment are a single conditional update, so
// concurrent reservations cannot overbook the agent.
func (r *mongoProfileRepository) ReserveCapacity(ctx context.Context, agentID string) (bool, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"_id":    agentID,
		"active": true,
		"$expr":  bson.M{"$lt": bson.A{"$open_assignments", "$max_concurrent_assignments"}},
	}
	update := bson.M{
		"$inc": bson.M{"open_assignments": 1},
		"$set": bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to reserve agent capacity: %w", err)
	}
	return result.ModifiedCount == 1, nil
}

func (r *mongoProfileRepository) ReleaseCapacity(ctx context.Context, agentID string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"_id":              agentID,
		"open_assignments": bson.M{"$gt": 0},
	}
	update := bson.M{
		"$inc": bson.M{"open_assignments": -1},
		"$set": bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)},
	}

	if _, err := r.collection.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to release agent capacity: %w", err)
	}
	return nil
}
