package repository

import (
	"context"
	"errors"
	"fmt"

	"backstage/pkg/config"
	mongotx "backstage/pkg/db/mongo"
	"backstage/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Attachments"
)

var ErrNotFound = errors.New("attachment not found")

type AttachmentRepository interface {
	// Save stores a, replacing any earlier rendering of the same document.
	Save(ctx context.Context, a *model.Attachment) error
	FindByBooking(ctx context.Context, bookingID string) ([]*model.Attachment, error)
	FindOne(ctx context.Context, bookingID, docType string) (*model.Attachment, error)
}

type mongoAttachmentRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoAttachmentRepository(cfg *config.Config) AttachmentRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAttachmentRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoAttachmentRepository) Save(ctx context.Context, a *model.Attachment) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"booking_id": a.BookingID, "doc_type": a.DocType}
	update := bson.M{
		"$set": bson.M{
			"category":     a.Category,
			"file_name":    a.FileName,
			"content_type": a.ContentType,
			"size":         a.Size,
			"url":          a.URL,
			"content":      a.Content,
		},
		"$setOnInsert": bson.M{
			"_id":        a.ID,
			"created_at": a.CreatedAt,
		},
	}

	if _, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to save attachment: %w", err)
	}
	return nil
}

func (r *mongoAttachmentRepository) FindByBooking(ctx context.Context, bookingID string) ([]*model.Attachment, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetProjection(bson.M{"content": 0})

	cursor, err := r.collection.Find(ctx, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find attachments: %w", err)
	}
	defer cursor.Close(ctx)

	attachments := []*model.Attachment{}
	if err = cursor.All(ctx, &attachments); err != nil {
		return nil, fmt.Errorf("failed to decode attachments: %w", err)
	}
	return attachments, nil
}

func (r *mongoAttachmentRepository) FindOne(ctx context.Context, bookingID, docType string) (*model.Attachment, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var a model.Attachment
	err := r.collection.FindOne(ctx, bson.M{"booking_id": bookingID, "doc_type": docType}).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find attachment: %w", err)
	}
	return &a, nil
}
