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
	"github.com/ukydev/fleet-admin/internal/mq"
)

// TruckStore performs truck reads and writes. Trucks have no delete: retired
// vehicles are archived through their status.
type TruckStore struct {
	col *mongo.Collection
	bus mq.Bus
}

// NewTruckStore creates a truck store over the given database.
func NewTruckStore(database *mongo.Database, bus mq.Bus) *TruckStore {
	return &TruckStore{col: database.Collection(CollectionTrucks), bus: bus}
}

// List returns all trucks ordered by creation time, newest first.
func (s *TruckStore) List(ctx context.Context) ([]models.Truck, error) {
	cursor, err := s.col.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		log.WithError(err).WithField("entity", "truck").Error("list failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		log.WithError(err).WithField("entity", "truck").Error("list decode failed")
		return nil, err
	}

	trucks := make([]models.Truck, 0, len(docs))
	for _, doc := range docs {
		t, err := mapper.TruckFromDoc(docID(doc), doc)
		if err != nil {
			log.WithError(err).WithField("entity", "truck").Error("map failed")
			return nil, err
		}
		trucks = append(trucks, t)
	}
	return trucks, nil
}

// GetByID returns the truck with the given id, or nil when absent.
func (s *TruckStore) GetByID(ctx context.Context, id string) (*models.Truck, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// Opaque ids that cannot be parsed cannot match any document.
		return nil, nil
	}

	var doc bson.M
	err = s.col.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"entity": "truck", "id": id}).Error("get failed")
		return nil, err
	}

	t, err := mapper.TruckFromDoc(id, doc)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"entity": "truck", "id": id}).Error("map failed")
		return nil, err
	}
	return &t, nil
}

// Create inserts a validated truck with server-assigned timestamps and
// returns the new id. A plate collision surfaces as ErrDuplicatePlate.
func (s *TruckStore) Create(ctx context.Context, t models.Truck, createdBy string) (string, error) {
	now := time.Now().UTC()
	doc := truckDoc(t)
	doc["created_by"] = createdBy
	doc["created_at"] = now
	doc["updated_at"] = now

	res, err := s.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrDuplicatePlate
		}
		log.WithError(err).WithField("entity", "truck").Error("create failed")
		return "", err
	}

	id := res.InsertedID.(primitive.ObjectID).Hex()
	s.notify(id)
	return id, nil
}

// Update replaces the mutable fields of a truck and refreshes updated_at.
func (s *TruckStore) Update(ctx context.Context, id string, t models.Truck) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	set := truckDoc(t)
	set["updated_at"] = time.Now().UTC()

	res, err := s.col.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicatePlate
		}
		log.WithError(err).WithFields(log.Fields{"entity": "truck", "id": id}).Error("update failed")
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	s.notify(id)
	return nil
}

// Watch delivers the full truck list after every change, starting with one
// initial snapshot. The channel closes when ctx is cancelled. Watch and List
// share the same mapper, so either can feed the same consumers.
func (s *TruckStore) Watch(ctx context.Context) (<-chan []models.Truck, error) {
	events, cancel, err := s.bus.Subscribe(TopicTrucksChanged)
	if err != nil {
		log.WithError(err).WithField("entity", "truck").Error("watch subscribe failed")
		return nil, err
	}

	out := make(chan []models.Truck, 1)
	go func() {
		defer close(out)
		defer cancel()

		push := func() {
			trucks, err := s.List(ctx)
			if err != nil {
				return
			}
			select {
			case out <- trucks:
			case <-ctx.Done():
			}
		}

		push()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				push()
			}
		}
	}()
	return out, nil
}

func (s *TruckStore) notify(id string) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(TopicTrucksChanged, id); err != nil {
		log.WithError(err).WithField("entity", "truck").Warn("change publish failed")
	}
}

// truckDoc flattens a truck record into the stored field-bag. Timestamps and
// created_by are managed by the store, not taken from the record.
func truckDoc(t models.Truck) bson.M {
	return bson.M{
		"ownership":        string(t.Ownership),
		"subcontractor_id": t.SubcontractorID,
		"license_plate":    t.LicensePlate,
		"province":         t.Province,
		"vin":              t.VIN,
		"engine_number":    t.EngineNumber,
		"status":           string(t.Status),
		"brand":            t.Brand,
		"model":            t.Model,
		"year":             t.Year,
		"color":            t.Color,
		"truck_type":       t.TruckType,
		"driver":           t.Driver,
		"seats":            t.Seats,
		"engine_capacity":  t.EngineCapacity,
		"fuel_capacity":    t.FuelCapacity,
		"max_load_weight":  t.MaxLoadWeight,
		"photo_front":      t.PhotoFront,
		"photo_back":       t.PhotoBack,
		"photo_left":       t.PhotoLeft,
		"photo_right":      t.PhotoRight,
		"registration_doc": t.RegistrationDoc,
		"insurance_doc":    t.InsuranceDoc,
		"photos":           t.Photos,
		"insurance": bson.M{
			"policy_id":     t.Insurance.PolicyID,
			"policy_number": t.Insurance.PolicyNumber,
			"company":       t.Insurance.Company,
			"coverage_type": t.Insurance.CoverageType,
			"premium":       t.Insurance.Premium,
			"start_date":    t.Insurance.StartDate,
			"expiry_date":   t.Insurance.ExpiryDate,
			"notes":         t.Insurance.Notes,
			"documents":     t.Insurance.Documents,
		},
	}
}

// docID extracts the document id as a hex string.
func docID(doc bson.M) string {
	switch id := doc["_id"].(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return ""
	}
}
