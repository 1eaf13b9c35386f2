package mapper

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/ukydev/fleet-admin/internal/models"
)

// TruckFromDoc maps a raw truck document onto models.Truck. Every absent
// field gets its declared default; stored values are never second-guessed.
func TruckFromDoc(id string, doc bson.M) (models.Truck, error) {
	t := models.Truck{
		ID:              id,
		Ownership:       models.OwnershipOwn,
		SubcontractorID: str(doc, "subcontractor_id"),
		LicensePlate:    str(doc, "license_plate"),
		Province:        str(doc, "province"),
		VIN:             str(doc, "vin"),
		EngineNumber:    str(doc, "engine_number"),
		Status:          models.TruckStatusActive,
		Brand:           str(doc, "brand"),
		Model:           str(doc, "model"),
		Year:            str(doc, "year"),
		Color:           str(doc, "color"),
		TruckType:       str(doc, "truck_type"),
		Driver:          str(doc, "driver"),
		Seats:           optInt(doc, "seats"),
		EngineCapacity:  optFloat(doc, "engine_capacity"),
		FuelCapacity:    optFloat(doc, "fuel_capacity"),
		MaxLoadWeight:   optFloat(doc, "max_load_weight"),
		PhotoFront:      str(doc, "photo_front"),
		PhotoBack:       str(doc, "photo_back"),
		PhotoLeft:       str(doc, "photo_left"),
		PhotoRight:      str(doc, "photo_right"),
		RegistrationDoc: str(doc, "registration_doc"),
		InsuranceDoc:    str(doc, "insurance_doc"),
		Photos:          strList(doc, "photos"),
		CreatedBy:       str(doc, "created_by"),
	}

	// Only the absence of an enum field is defaulted; a stored value is
	// carried as-is even when it is not a member of the enum.
	if s, ok := doc["ownership"].(string); ok {
		t.Ownership = models.OwnershipKind(s)
	}
	if s, ok := doc["status"].(string); ok {
		t.Status = models.TruckStatus(s)
	}

	ins, err := insuranceFromDoc(subDoc(doc, "insurance"))
	if err != nil {
		return models.Truck{}, fmt.Errorf("truck %s: %w", id, err)
	}
	t.Insurance = ins

	if t.CreatedAt, err = timestamp(doc, "created_at"); err != nil {
		return models.Truck{}, fmt.Errorf("truck %s created_at: %w", id, err)
	}
	if t.UpdatedAt, err = timestamp(doc, "updated_at"); err != nil {
		return models.Truck{}, fmt.Errorf("truck %s updated_at: %w", id, err)
	}
	return t, nil
}

func insuranceFromDoc(doc bson.M) (models.Insurance, error) {
	ins := models.Insurance{
		PolicyID:     str(doc, "policy_id"),
		PolicyNumber: str(doc, "policy_number"),
		Company:      str(doc, "company"),
		CoverageType: str(doc, "coverage_type"),
		Premium:      optFloat(doc, "premium"),
		Notes:        str(doc, "notes"),
		Documents:    strList(doc, "documents"),
	}
	var err error
	if ins.StartDate, err = timestamp(doc, "start_date"); err != nil {
		return models.Insurance{}, fmt.Errorf("insurance start_date: %w", err)
	}
	if ins.ExpiryDate, err = timestamp(doc, "expiry_date"); err != nil {
		return models.Insurance{}, fmt.Errorf("insurance expiry_date: %w", err)
	}
	return ins, nil
}
