package models

import "time"

// OwnershipKind says whether a truck belongs to the fleet or to a subcontractor.
type OwnershipKind string

const (
	OwnershipOwn           OwnershipKind = "own"
	OwnershipSubcontractor OwnershipKind = "subcontractor"
)

// TruckStatus represents the operational status of a truck.
type TruckStatus string

const (
	TruckStatusActive         TruckStatus = "active"
	TruckStatusInactive       TruckStatus = "inactive"
	TruckStatusMaintenance    TruckStatus = "maintenance"
	TruckStatusInsuranceClaim TruckStatus = "insurance_claim"
	TruckStatusSold           TruckStatus = "sold"
)

// ValidTruckStatuses lists every accepted truck status.
var ValidTruckStatuses = []TruckStatus{
	TruckStatusActive,
	TruckStatusInactive,
	TruckStatusMaintenance,
	TruckStatusInsuranceClaim,
	TruckStatusSold,
}

// IsValidTruckStatus checks enum membership. The empty string is not a status.
func IsValidTruckStatus(s TruckStatus) bool {
	for _, v := range ValidTruckStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Insurance is the insurance sub-record embedded in a truck.
type Insurance struct {
	PolicyID     string     `json:"policy_id"`
	PolicyNumber string     `json:"policy_number"`
	Company      string     `json:"company"`
	CoverageType string     `json:"coverage_type"`
	Premium      *float64   `json:"premium,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`
	Notes        string     `json:"notes"`
	Documents    []string   `json:"documents"`
}

// Truck represents a fleet truck. Trucks are never hard-deleted; retired
// vehicles are archived through their status.
type Truck struct {
	ID              string        `json:"id"`
	Ownership       OwnershipKind `json:"ownership"`
	SubcontractorID string        `json:"subcontractor_id"`
	LicensePlate    string        `json:"license_plate"`
	Province        string        `json:"province"`
	VIN             string        `json:"vin"`
	EngineNumber    string        `json:"engine_number"`
	Status          TruckStatus   `json:"status"`
	Brand           string        `json:"brand"`
	Model           string        `json:"model"`
	Year            string        `json:"year"`
	Color           string        `json:"color"`
	TruckType       string        `json:"truck_type"`
	Driver          string        `json:"driver"`
	Seats           *int          `json:"seats,omitempty"`
	EngineCapacity  *float64      `json:"engine_capacity,omitempty"`
	FuelCapacity    *float64      `json:"fuel_capacity,omitempty"`
	MaxLoadWeight   *float64      `json:"max_load_weight,omitempty"`
	PhotoFront      string        `json:"photo_front"`
	PhotoBack       string        `json:"photo_back"`
	PhotoLeft       string        `json:"photo_left"`
	PhotoRight      string        `json:"photo_right"`
	RegistrationDoc string        `json:"registration_doc"`
	InsuranceDoc    string        `json:"insurance_doc"`
	Photos          []string      `json:"photos"`
	Insurance       Insurance     `json:"insurance"`
	CreatedBy       string        `json:"created_by"`
	CreatedAt       *time.Time    `json:"created_at,omitempty"`
	UpdatedAt       *time.Time    `json:"updated_at,omitempty"`
}
