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

// SubcontractorStore performs subcontractor reads and writes.
type SubcontractorStore struct {
	col *mongo.Collection
}

// NewSubcontractorStore creates a subcontractor store over the given database.
func NewSubcontractorStore(database *mongo.Database) *SubcontractorStore {
	return &SubcontractorStore{col: database.Collection(CollectionSubcontractors)}
}

// List returns all subcontractors ordered by creation time, newest first.
func (s *SubcontractorStore) List(ctx context.Context) ([]models.Subcontractor, error) {
	cursor, err := s.col.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		log.WithError(err).WithField("entity", "subcontractor").Error("list failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		log.WithError(err).WithField("entity", "subcontractor").Error("list decode failed")
		return nil, err
	}

	subs := make([]models.Subcontractor, 0, len(docs))
	for _, doc := range docs {
		sc, err := mapper.SubcontractorFromDoc(docID(doc), doc)
		if err != nil {
			log.WithError(err).WithField("entity", "subcontractor").Error("map failed")
			return nil, err
		}
		subs = append(subs, sc)
	}
	return subs, nil
}

// GetByID returns the subcontractor with the given id, or nil when absent.
func (s *SubcontractorStore) GetByID(ctx context.Context, id string) (*models.Subcontractor, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc bson.M
	err = s.col.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"entity": "subcontractor", "id": id}).Error("get failed")
		return nil, err
	}

	sc, err := mapper.SubcontractorFromDoc(id, doc)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"entity": "subcontractor", "id": id}).Error("map failed")
		return nil, err
	}
	return &sc, nil
}

// Create inserts a validated subcontractor with server-assigned timestamps
// and returns the new id.
func (s *SubcontractorStore) Create(ctx context.Context, sc models.Subcontractor) (string, error) {
	now := time.Now().UTC()
	doc := subcontractorDoc(sc)
	doc["created_at"] = now
	doc["updated_at"] = now

	res, err := s.col.InsertOne(ctx, doc)
	if err != nil {
		log.WithError(err).WithField("entity", "subcontractor").Error("create failed")
		return "", err
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

// Update replaces the mutable fields of a subcontractor and refreshes
// updated_at.
func (s *SubcontractorStore) Update(ctx context.Context, id string, sc models.Subcontractor) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	set := subcontractorDoc(sc)
	set["updated_at"] = time.Now().UTC()

	res, err := s.col.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": set})
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"entity": "subcontractor", "id": id}).Error("update failed")
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a subcontractor. Trucks referencing it keep their weak
// reference; nothing cascades.
func (s *SubcontractorStore) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := s.col.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"entity": "subcontractor", "id": id}).Error("delete failed")
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func subcontractorDoc(sc models.Subcontractor) bson.M {
	return bson.M{
		"type":           string(sc.Type),
		"name":           sc.Name,
		"contact_person": sc.ContactPerson,
		"phone":          sc.Phone,
		"email":          sc.Email,
		"address":        sc.Address,
		"id_card_number": sc.IDCardNumber,
		"tax_id":         sc.TaxID,
		"status":         string(sc.Status),
		"documents":      sc.Documents,
	}
}
