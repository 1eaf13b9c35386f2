package db

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ukydev/fleet-admin/internal/models"
)

// AuthRecordStore holds the authentication provider's records: credentials
// plus the custom claims attached to issued tokens. The users collection is
// a mirror of these records, reconciled by the sync job.
type AuthRecordStore struct {
	col *mongo.Collection
}

// NewAuthRecordStore creates an auth record store over the given database.
func NewAuthRecordStore(database *mongo.Database) *AuthRecordStore {
	return &AuthRecordStore{col: database.Collection(CollectionAuthRecords)}
}

// List returns every auth record.
func (s *AuthRecordStore) List(ctx context.Context) ([]models.AuthRecord, error) {
	cursor, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		log.WithError(err).WithField("entity", "authrecord").Error("list failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.AuthRecord
	if err := cursor.All(ctx, &records); err != nil {
		log.WithError(err).WithField("entity", "authrecord").Error("list decode failed")
		return nil, err
	}
	return records, nil
}

// GetByUID returns the record for the given uid, or nil when absent.
func (s *AuthRecordStore) GetByUID(ctx context.Context, uid string) (*models.AuthRecord, error) {
	var rec models.AuthRecord
	err := s.col.FindOne(ctx, bson.M{"uid": uid}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"entity": "authrecord", "uid": uid}).Error("get failed")
		return nil, err
	}
	return &rec, nil
}

// GetByEmail returns the record for the given email, or nil when absent.
func (s *AuthRecordStore) GetByEmail(ctx context.Context, email string) (*models.AuthRecord, error) {
	var rec models.AuthRecord
	err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"entity": "authrecord", "email": email}).Error("get failed")
		return nil, err
	}
	return &rec, nil
}

// Create inserts a new auth record.
func (s *AuthRecordStore) Create(ctx context.Context, rec models.AuthRecord) error {
	_, err := s.col.InsertOne(ctx, rec)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"entity": "authrecord", "uid": rec.UID}).Error("create failed")
		return err
	}
	return nil
}

// SetClaims updates the custom claims on an auth record. Token holders do
// not see the change until they refresh their token.
func (s *AuthRecordStore) SetClaims(ctx context.Context, uid string, role models.Role, admin bool) error {
	res, err := s.col.UpdateOne(ctx, bson.M{"uid": uid}, bson.M{"$set": bson.M{
		"role":  string(role),
		"admin": admin,
	}})
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"entity": "authrecord", "uid": uid}).Error("claims update failed")
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordSignIn stamps the last sign-in time.
func (s *AuthRecordStore) RecordSignIn(ctx context.Context, uid string) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"uid": uid}, bson.M{"$set": bson.M{
		"last_sign_in": time.Now().UTC(),
	}})
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"entity": "authrecord", "uid": uid}).Error("sign-in stamp failed")
		return err
	}
	return nil
}
