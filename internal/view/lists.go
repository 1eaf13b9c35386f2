package view

import (
	"strings"

	"github.com/ukydev/fleet-admin/internal/models"
)

// SearchSubcontractors filters on name, contact person, phone, and email.
func SearchSubcontractors(subs []models.Subcontractor, query string) []models.Subcontractor {
	if query == "" {
		return subs
	}
	q := strings.ToLower(query)
	out := make([]models.Subcontractor, 0, len(subs))
	for _, sc := range subs {
		if matchesAny(q, sc.Name, sc.ContactPerson, sc.Phone, sc.Email) {
			out = append(out, sc)
		}
	}
	return out
}

// SubcontractorSortValue yields sort keys for the subcontractor list.
func SubcontractorSortValue(key string) func(models.Subcontractor) interface{} {
	return func(sc models.Subcontractor) interface{} {
		switch key {
		case "name":
			return sc.Name
		case "contact_person":
			return sc.ContactPerson
		case "status":
			return string(sc.Status)
		case "type":
			return string(sc.Type)
		case "created_at":
			if sc.CreatedAt == nil {
				return nil
			}
			return float64(sc.CreatedAt.UnixMilli())
		default:
			return nil
		}
	}
}

// SearchUsers filters on display name, email, and role.
func SearchUsers(users []models.User, query string) []models.User {
	if query == "" {
		return users
	}
	q := strings.ToLower(query)
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if matchesAny(q, u.DisplayName, u.Email, string(u.Role)) {
			out = append(out, u)
		}
	}
	return out
}

// UserSortValue yields sort keys for the user list.
func UserSortValue(key string) func(models.User) interface{} {
	return func(u models.User) interface{} {
		switch key {
		case "display_name":
			return u.DisplayName
		case "email":
			return u.Email
		case "role":
			return string(u.Role)
		case "last_sign_in":
			if u.LastSignIn == nil {
				return nil
			}
			return float64(u.LastSignIn.UnixMilli())
		case "created_at":
			if u.CreatedAt == nil {
				return nil
			}
			return float64(u.CreatedAt.UnixMilli())
		default:
			return nil
		}
	}
}
