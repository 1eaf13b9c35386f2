package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ukydev/fleet-admin/internal/models"
)

// Thai plates: two Thai letters, or one digit plus two Thai letters,
// then a hyphen and one to four digits.
var (
	plateLetters      = regexp.MustCompile(`^[ก-ฮ]{2}-[0-9]{1,4}$`)
	plateDigitLetters = regexp.MustCompile(`^[0-9][ก-ฮ]{2}-[0-9]{1,4}$`)
	yearPattern       = regexp.MustCompile(`^[0-9]{4}$`)
)

// Upper bounds for the optional numeric fields.
const (
	maxEngineCapacity = 20000
	maxFuelCapacity   = 1000
	maxLoadWeight     = 100000
	maxPremium        = 1000000
	maxSeats          = 10
)

// InsuranceInput is the insurance section of the truck form. Dates arrive as
// strings, either plain dates or full RFC 3339 stamps.
type InsuranceInput struct {
	PolicyID     string      `json:"policy_id"`
	PolicyNumber string      `json:"policy_number"`
	Company      string      `json:"company"`
	CoverageType string      `json:"coverage_type"`
	Premium      interface{} `json:"premium,omitempty"`
	StartDate    string      `json:"start_date,omitempty"`
	ExpiryDate   string      `json:"expiry_date,omitempty"`
	Notes        string      `json:"notes"`
	Documents    []string    `json:"documents"`
}

// TruckInput is the raw truck form payload. Numeric capacity fields arrive as
// either strings or numbers, so they are typed loosely until validated.
type TruckInput struct {
	Ownership       string         `json:"ownership"`
	SubcontractorID string         `json:"subcontractor_id"`
	LicensePlate    string         `json:"license_plate"`
	Province        string         `json:"province"`
	VIN             string         `json:"vin"`
	EngineNumber    string         `json:"engine_number"`
	Status          string         `json:"status"`
	Brand           string         `json:"brand"`
	Model           string         `json:"model"`
	Year            string         `json:"year"`
	Color           string         `json:"color"`
	TruckType       string         `json:"truck_type"`
	Driver          string         `json:"driver"`
	Seats           string         `json:"seats"`
	EngineCapacity  interface{}    `json:"engine_capacity,omitempty"`
	FuelCapacity    interface{}    `json:"fuel_capacity,omitempty"`
	MaxLoadWeight   interface{}    `json:"max_load_weight,omitempty"`
	PhotoFront      string         `json:"photo_front"`
	PhotoBack       string         `json:"photo_back"`
	PhotoLeft       string         `json:"photo_left"`
	PhotoRight      string         `json:"photo_right"`
	RegistrationDoc string         `json:"registration_doc"`
	InsuranceDoc    string         `json:"insurance_doc"`
	Photos          []string       `json:"photos"`
	Insurance       InsuranceInput `json:"insurance"`
}

// Truck validates a truck form payload. On success the returned record is
// normalized and ready for persistence (timestamps and id are assigned by
// the store). On failure every offending field is reported.
func Truck(in TruckInput) (models.Truck, FieldErrors) {
	var errs FieldErrors

	ownership := models.OwnershipKind(in.Ownership)
	if ownership == "" {
		ownership = models.OwnershipOwn
	}
	switch ownership {
	case models.OwnershipOwn:
	case models.OwnershipSubcontractor:
		if strings.TrimSpace(in.SubcontractorID) == "" {
			errs.add("subcontractor_id", "subcontractor is required for subcontractor-owned trucks")
		}
	default:
		errs.add("ownership", "ownership must be own or subcontractor")
	}

	if in.LicensePlate == "" {
		errs.add("license_plate", "license plate is required")
	} else if !plateLetters.MatchString(in.LicensePlate) && !plateDigitLetters.MatchString(in.LicensePlate) {
		errs.add("license_plate", "license plate must look like กก-1234 or 1กก-1234")
	}

	if len([]rune(in.VIN)) != 17 {
		errs.add("vin", "VIN must be exactly 17 characters")
	}
	if len([]rune(in.EngineNumber)) != 10 {
		errs.add("engine_number", "engine number must be exactly 10 characters")
	}
	if !yearPattern.MatchString(in.Year) {
		errs.add("year", "year must be exactly 4 digits")
	}

	// Empty string is rejected even though the enum type would admit it.
	if in.Status == "" {
		errs.add("status", "status is required")
	} else if !models.IsValidTruckStatus(models.TruckStatus(in.Status)) {
		errs.add("status", "status must be one of active, inactive, maintenance, insurance_claim, sold")
	}

	var seats *int
	if in.Seats != "" {
		n, err := strconv.Atoi(in.Seats)
		if err != nil || n < 0 || n > maxSeats {
			errs.add("seats", fmt.Sprintf("seats must be an integer between 0 and %d", maxSeats))
		} else {
			seats = &n
		}
	}

	engineCapacity := boundedNumber(&errs, "engine_capacity", in.EngineCapacity, maxEngineCapacity)
	fuelCapacity := boundedNumber(&errs, "fuel_capacity", in.FuelCapacity, maxFuelCapacity)
	loadWeight := boundedNumber(&errs, "max_load_weight", in.MaxLoadWeight, maxLoadWeight)
	premium := boundedNumber(&errs, "insurance.premium", in.Insurance.Premium, maxPremium)

	startDate := optionalDate(&errs, "insurance.start_date", in.Insurance.StartDate)
	expiryDate := optionalDate(&errs, "insurance.expiry_date", in.Insurance.ExpiryDate)
	if startDate != nil && expiryDate != nil && expiryDate.Before(*startDate) {
		errs.add("insurance.expiry_date", "expiry date must not be before the start date")
	}

	if len(errs) > 0 {
		return models.Truck{}, errs
	}

	return models.Truck{
		Ownership:       ownership,
		SubcontractorID: strings.TrimSpace(in.SubcontractorID),
		LicensePlate:    in.LicensePlate,
		Province:        in.Province,
		VIN:             in.VIN,
		EngineNumber:    in.EngineNumber,
		Status:          models.TruckStatus(in.Status),
		Brand:           in.Brand,
		Model:           in.Model,
		Year:            in.Year,
		Color:           in.Color,
		TruckType:       in.TruckType,
		Driver:          in.Driver,
		Seats:           seats,
		EngineCapacity:  engineCapacity,
		FuelCapacity:    fuelCapacity,
		MaxLoadWeight:   loadWeight,
		PhotoFront:      in.PhotoFront,
		PhotoBack:       in.PhotoBack,
		PhotoLeft:       in.PhotoLeft,
		PhotoRight:      in.PhotoRight,
		RegistrationDoc: in.RegistrationDoc,
		InsuranceDoc:    in.InsuranceDoc,
		Photos:          orEmpty(in.Photos),
		Insurance: models.Insurance{
			PolicyID:     in.Insurance.PolicyID,
			PolicyNumber: in.Insurance.PolicyNumber,
			Company:      in.Insurance.Company,
			CoverageType: in.Insurance.CoverageType,
			Premium:      premium,
			StartDate:    startDate,
			ExpiryDate:   expiryDate,
			Notes:        in.Insurance.Notes,
			Documents:    orEmpty(in.Insurance.Documents),
		},
	}, nil
}

// boundedNumber coerces an optional string-or-number field. Absence and the
// empty string mean "no value". The range [0, max] is asserted exactly once.
func boundedNumber(errs *FieldErrors, field string, v interface{}, max float64) *float64 {
	var n float64
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if t == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(t, 64)
		if err != nil {
			errs.add(field, "must be a number")
			return nil
		}
		n = parsed
	case float64:
		n = t
	case float32:
		n = float64(t)
	case int:
		n = float64(t)
	case int64:
		n = float64(t)
	default:
		errs.add(field, "must be a number")
		return nil
	}
	if n < 0 || n > max {
		errs.add(field, fmt.Sprintf("must be between 0 and %g", max))
		return nil
	}
	return &n
}

// optionalDate parses an optional date string, accepting a plain date or a
// full RFC 3339 stamp. The empty string means "no value".
func optionalDate(errs *FieldErrors, field, v string) *time.Time {
	if v == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}
	errs.add(field, "must be a date like 2024-06-15 or an RFC 3339 timestamp")
	return nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
