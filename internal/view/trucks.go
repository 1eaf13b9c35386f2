package view

import (
	"strings"

	"github.com/ukydev/fleet-admin/internal/models"
)

// TruckView partitions the truck list by ownership before search and sort.
type TruckView string

const (
	TruckViewAll           TruckView = "all"
	TruckViewOwn           TruckView = "own"
	TruckViewSubcontractor TruckView = "subcontractor"
)

// TruckQuery is the full derived state of the truck list screen. Filters
// apply in a fixed order: partition, then search, then sort.
type TruckQuery struct {
	View   TruckView `json:"view"`
	Search string    `json:"search"`
	Sort   SortState `json:"sort"`
}

// Apply computes the visible truck list for this query.
func (q TruckQuery) Apply(trucks []models.Truck) []models.Truck {
	out := partitionTrucks(trucks, q.View)
	out = searchTrucks(out, q.Search)
	if q.Sort.Key != "" {
		out = SortBy(out, truckSortValue(q.Sort.Key), q.Sort.Desc)
	}
	return out
}

func partitionTrucks(trucks []models.Truck, v TruckView) []models.Truck {
	out := make([]models.Truck, 0, len(trucks))
	for _, t := range trucks {
		switch v {
		case TruckViewOwn:
			if t.Ownership == models.OwnershipSubcontractor {
				continue
			}
		case TruckViewSubcontractor:
			if t.Ownership != models.OwnershipSubcontractor {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// searchTrucks matches a case-insensitive substring against the searched
// fields. An empty query passes everything.
func searchTrucks(trucks []models.Truck, query string) []models.Truck {
	if query == "" {
		return trucks
	}
	q := strings.ToLower(query)
	out := make([]models.Truck, 0, len(trucks))
	for _, t := range trucks {
		if matchesAny(q, t.LicensePlate, t.Model, t.Brand, t.Driver, t.Province) {
			out = append(out, t)
		}
	}
	return out
}

func matchesAny(q string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func truckSortValue(key string) func(models.Truck) interface{} {
	return func(t models.Truck) interface{} {
		switch key {
		case "license_plate":
			return t.LicensePlate
		case "brand":
			return t.Brand
		case "model":
			return t.Model
		case "driver":
			return t.Driver
		case "province":
			return t.Province
		case "year":
			return t.Year
		case "status":
			return string(t.Status)
		case "seats":
			if t.Seats == nil {
				return nil
			}
			return float64(*t.Seats)
		case "max_load_weight":
			if t.MaxLoadWeight == nil {
				return nil
			}
			return *t.MaxLoadWeight
		case "created_at":
			if t.CreatedAt == nil {
				return nil
			}
			return float64(t.CreatedAt.UnixMilli())
		default:
			return nil
		}
	}
}
