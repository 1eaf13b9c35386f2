package db

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ukydev/fleet-admin/internal/mapper"
	"github.com/ukydev/fleet-admin/internal/models"
)

// UserStore holds the store-side mirror of auth records. Documents are keyed
// by uid so that auth records and mirrors line up one to one.
type UserStore struct {
	col *mongo.Collection
}

// NewUserStore creates a user mirror store over the given database.
func NewUserStore(database *mongo.Database) *UserStore {
	return &UserStore{col: database.Collection(CollectionUsers)}
}

// List returns all user mirrors ordered by creation time, newest first.
func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	cursor, err := s.col.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		log.WithError(err).WithField("entity", "user").Error("list failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		log.WithError(err).WithField("entity", "user").Error("list decode failed")
		return nil, err
	}

	users := make([]models.User, 0, len(docs))
	for _, doc := range docs {
		u, err := mapper.UserFromDoc(docID(doc), doc)
		if err != nil {
			log.WithError(err).WithField("entity", "user").Error("map failed")
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// GetByUID returns the mirror for the given uid, or nil when absent.
func (s *UserStore) GetByUID(ctx context.Context, uid string) (*models.User, error) {
	var doc bson.M
	err := s.col.FindOne(ctx, bson.M{"_id": uid}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"entity": "user", "uid": uid}).Error("get failed")
		return nil, err
	}

	u, err := mapper.UserFromDoc(uid, doc)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"entity": "user", "uid": uid}).Error("map failed")
		return nil, err
	}
	return &u, nil
}

// Upsert writes the full mirror document for a user. Used by the sync job
// and by user creation.
func (s *UserStore) Upsert(ctx context.Context, u models.User) error {
	set := bson.M{
		"email":        u.Email,
		"display_name": u.DisplayName,
		"photo_url":    u.PhotoURL,
		"role":         string(u.Role),
		"admin":        u.Admin,
		"providers":    u.Providers,
		"updated_at":   time.Now().UTC(),
	}
	if u.CreatedAt != nil {
		set["created_at"] = *u.CreatedAt
	}
	if u.LastSignIn != nil {
		set["last_sign_in"] = *u.LastSignIn
	}

	_, err := s.col.UpdateOne(ctx, bson.M{"_id": u.UID},
		bson.M{"$set": set}, options.Update().SetUpsert(true))
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"entity": "user", "uid": u.UID}).Error("upsert failed")
		return err
	}
	return nil
}

// SetRole mirrors a role change. The admin flag and role string are always
// written together.
func (s *UserStore) SetRole(ctx context.Context, uid string, role models.Role, admin bool) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": bson.M{
		"role":       string(role),
		"admin":      admin,
		"updated_at": time.Now().UTC(),
	}}, options.Update().SetUpsert(true))
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"entity": "user", "uid": uid}).Error("role mirror failed")
		return err
	}
	return nil
}
