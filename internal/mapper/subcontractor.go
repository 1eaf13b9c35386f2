package mapper

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/ukydev/fleet-admin/internal/models"
)

// SubcontractorFromDoc maps a raw subcontractor document onto
// models.Subcontractor.
func SubcontractorFromDoc(id string, doc bson.M) (models.Subcontractor, error) {
	s := models.Subcontractor{
		ID:            id,
		Type:          models.SubcontractorIndividual,
		Name:          str(doc, "name"),
		ContactPerson: str(doc, "contact_person"),
		Phone:         str(doc, "phone"),
		Email:         str(doc, "email"),
		Address:       str(doc, "address"),
		IDCardNumber:  str(doc, "id_card_number"),
		TaxID:         str(doc, "tax_id"),
		Status:        models.SubcontractorStatusActive,
		Documents:     strList(doc, "documents"),
	}

	if v, ok := doc["type"].(string); ok {
		s.Type = models.SubcontractorType(v)
	}
	if v, ok := doc["status"].(string); ok {
		s.Status = models.SubcontractorStatus(v)
	}

	var err error
	if s.CreatedAt, err = timestamp(doc, "created_at"); err != nil {
		return models.Subcontractor{}, fmt.Errorf("subcontractor %s created_at: %w", id, err)
	}
	if s.UpdatedAt, err = timestamp(doc, "updated_at"); err != nil {
		return models.Subcontractor{}, fmt.Errorf("subcontractor %s updated_at: %w", id, err)
	}
	return s, nil
}
