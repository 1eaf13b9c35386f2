package models

import "time"

// SubcontractorType distinguishes individual contractors from companies.
type SubcontractorType string

const (
	SubcontractorIndividual SubcontractorType = "individual"
	SubcontractorCompany    SubcontractorType = "company"
)

// SubcontractorStatus represents the standing of a subcontractor.
type SubcontractorStatus string

const (
	SubcontractorStatusActive    SubcontractorStatus = "active"
	SubcontractorStatusPending   SubcontractorStatus = "pending"
	SubcontractorStatusSuspended SubcontractorStatus = "suspended"
)

// IsValidSubcontractorStatus checks enum membership.
func IsValidSubcontractorStatus(s SubcontractorStatus) bool {
	switch s {
	case SubcontractorStatusActive, SubcontractorStatusPending, SubcontractorStatusSuspended:
		return true
	default:
		return false
	}
}

// Subcontractor represents an external hauling partner. Trucks reference a
// subcontractor by id only; deleting a subcontractor does not cascade.
type Subcontractor struct {
	ID            string              `json:"id"`
	Type          SubcontractorType   `json:"type"`
	Name          string              `json:"name"`
	ContactPerson string              `json:"contact_person"`
	Phone         string              `json:"phone"`
	Email         string              `json:"email"`
	Address       string              `json:"address"`
	IDCardNumber  string              `json:"id_card_number"`
	TaxID         string              `json:"tax_id"`
	Status        SubcontractorStatus `json:"status"`
	Documents     []string            `json:"documents"`
	CreatedAt     *time.Time          `json:"created_at,omitempty"`
	UpdatedAt     *time.Time          `json:"updated_at,omitempty"`
}
