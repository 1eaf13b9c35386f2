package db

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ukydev/fleet-admin/internal/mapper"
	"github.com/ukydev/fleet-admin/internal/models"
)

// WaitlistStore performs waitlist reads and writes.
type WaitlistStore struct {
	col *mongo.Collection
}

// NewWaitlistStore creates a waitlist store over the given database.
func NewWaitlistStore(database *mongo.Database) *WaitlistStore {
	return &WaitlistStore{col: database.Collection(CollectionWaitlist)}
}

// List returns all waitlist entries ordered by creation time, newest first.
func (s *WaitlistStore) List(ctx context.Context) ([]models.WaitlistEntry, error) {
	cursor, err := s.col.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		log.WithError(err).WithField("entity", "waitlist").Error("list failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		log.WithError(err).WithField("entity", "waitlist").Error("list decode failed")
		return nil, err
	}

	entries := make([]models.WaitlistEntry, 0, len(docs))
	for _, doc := range docs {
		e, err := mapper.WaitlistEntryFromDoc(docID(doc), doc)
		if err != nil {
			log.WithError(err).WithField("entity", "waitlist").Error("map failed")
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Create inserts a waitlist entry and returns the new id.
func (s *WaitlistStore) Create(ctx context.Context, email string) (string, error) {
	res, err := s.col.InsertOne(ctx, bson.M{
		"email":      email,
		"created_at": time.Now().UTC(),
	})
	if err != nil {
		log.WithError(err).WithField("entity", "waitlist").Error("create failed")
		return "", err
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

// Delete removes a single waitlist entry.
func (s *WaitlistStore) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := s.col.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"entity": "waitlist", "id": id}).Error("delete failed")
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
