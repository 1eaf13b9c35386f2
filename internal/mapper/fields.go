// Package mapper converts raw store documents (field-bags) into typed
// records. Missing fields get explicit defaults; values already present are
// passed through untouched, even when they are not valid enum members.
package mapper

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ukydev/fleet-admin/internal/models"
)

func str(doc bson.M, key string) string {
	if v, ok := doc[key].(string); ok {
		return v
	}
	return ""
}

// strList always returns a non-nil slice. Non-string elements are skipped.
func strList(doc bson.M, key string) []string {
	out := []string{}
	switch arr := doc[key].(type) {
	case primitive.A:
		for _, el := range arr {
			if s, ok := el.(string); ok {
				out = append(out, s)
			}
		}
	case []string:
		out = append(out, arr...)
	case []interface{}:
		for _, el := range arr {
			if s, ok := el.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

// optFloat returns nil when the field is absent or not a number.
func optFloat(doc bson.M, key string) *float64 {
	switch n := doc[key].(type) {
	case float64:
		return &n
	case float32:
		f := float64(n)
		return &f
	case int32:
		f := float64(n)
		return &f
	case int64:
		f := float64(n)
		return &f
	case int:
		f := float64(n)
		return &f
	default:
		return nil
	}
}

// optInt returns nil when the field is absent or not a number.
func optInt(doc bson.M, key string) *int {
	switch n := doc[key].(type) {
	case int32:
		i := int(n)
		return &i
	case int64:
		i := int(n)
		return &i
	case int:
		return &n
	case float64:
		i := int(n)
		return &i
	default:
		return nil
	}
}

func subDoc(doc bson.M, key string) bson.M {
	switch m := doc[key].(type) {
	case bson.M:
		return m
	case map[string]interface{}:
		return bson.M(m)
	default:
		return bson.M{}
	}
}

// timestamp normalizes a date-shaped field. Absence maps to nil; an
// unrecognized shape surfaces as models.ErrBadTimestamp.
func timestamp(doc bson.M, key string) (*time.Time, error) {
	v, ok := doc[key]
	if !ok {
		return nil, nil
	}
	return models.NormalizeTimestamp(v)
}
