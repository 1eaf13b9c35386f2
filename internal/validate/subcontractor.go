package validate

import (
	"strings"

	"github.com/ukydev/fleet-admin/internal/models"
)

// SubcontractorInput is the raw subcontractor form payload.
type SubcontractorInput struct {
	Type          string   `json:"type"`
	Name          string   `json:"name"`
	ContactPerson string   `json:"contact_person"`
	Phone         string   `json:"phone"`
	Email         string   `json:"email"`
	Address       string   `json:"address"`
	IDCardNumber  string   `json:"id_card_number"`
	TaxID         string   `json:"tax_id"`
	Status        string   `json:"status"`
	Documents     []string `json:"documents"`
}

// Subcontractor validates a subcontractor form payload. The identity rule is
// type-conditional: individuals need a check-digit-valid national ID,
// companies a check-digit-valid tax ID; the inactive field goes unchecked.
func Subcontractor(in SubcontractorInput) (models.Subcontractor, FieldErrors) {
	var errs FieldErrors

	typ := models.SubcontractorType(in.Type)
	if typ == "" {
		typ = models.SubcontractorIndividual
	}
	switch typ {
	case models.SubcontractorIndividual:
		if in.IDCardNumber == "" {
			errs.add("id_card_number", "national ID is required for individuals")
		} else if !ValidThaiID(in.IDCardNumber) {
			errs.add("id_card_number", "national ID is not a valid 13-digit Thai ID")
		}
	case models.SubcontractorCompany:
		if in.TaxID == "" {
			errs.add("tax_id", "tax ID is required for companies")
		} else if !ValidThaiID(in.TaxID) {
			errs.add("tax_id", "tax ID is not a valid 13-digit Thai tax ID")
		}
	default:
		errs.add("type", "type must be individual or company")
	}

	if strings.TrimSpace(in.Name) == "" {
		errs.add("name", "name is required")
	}
	if strings.TrimSpace(in.ContactPerson) == "" {
		errs.add("contact_person", "contact person is required")
	}
	if strings.TrimSpace(in.Phone) == "" {
		errs.add("phone", "phone is required")
	}
	if in.Email != "" && (!strings.Contains(in.Email, "@") || !strings.Contains(in.Email, ".")) {
		errs.add("email", "invalid email format")
	}

	status := models.SubcontractorStatus(in.Status)
	if status == "" {
		status = models.SubcontractorStatusActive
	} else if !models.IsValidSubcontractorStatus(status) {
		errs.add("status", "status must be one of active, pending, suspended")
	}

	if len(errs) > 0 {
		return models.Subcontractor{}, errs
	}

	return models.Subcontractor{
		Type:          typ,
		Name:          strings.TrimSpace(in.Name),
		ContactPerson: strings.TrimSpace(in.ContactPerson),
		Phone:         strings.TrimSpace(in.Phone),
		Email:         in.Email,
		Address:       in.Address,
		IDCardNumber:  in.IDCardNumber,
		TaxID:         in.TaxID,
		Status:        status,
		Documents:     orEmpty(in.Documents),
	}, nil
}
