package models

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrBadTimestamp is returned when a stored timestamp has a shape the
// normalizer does not recognize. Unrecognized shapes are an error, never
// passed through.
var ErrBadTimestamp = errors.New("unrecognized timestamp shape")

// NormalizeTimestamp converts the timestamp shapes the store can hand back
// into a single *time.Time. Recognized shapes, first match wins:
//
//   - nil (or typed nil) -> nil
//   - time.Time / *time.Time      (native date)
//   - primitive.DateTime          (millis accessor)
//   - primitive.Timestamp         (epoch-seconds field)
//   - bson.M / map with a numeric "seconds" field
//
// Anything else yields ErrBadTimestamp.
func NormalizeTimestamp(v interface{}) (*time.Time, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		if t.IsZero() {
			return nil, nil
		}
		return &t, nil
	case *time.Time:
		if t == nil || t.IsZero() {
			return nil, nil
		}
		tt := *t
		return &tt, nil
	case primitive.DateTime:
		tt := t.Time()
		return &tt, nil
	case primitive.Timestamp:
		tt := time.Unix(int64(t.T), 0)
		return &tt, nil
	case bson.M:
		return secondsField(t)
	case map[string]interface{}:
		return secondsField(t)
	default:
		return nil, fmt.Errorf("%w: %T", ErrBadTimestamp, v)
	}
}

// secondsField handles the epoch-seconds wrapper shape {"seconds": n}.
func secondsField(m map[string]interface{}) (*time.Time, error) {
	raw, ok := m["seconds"]
	if !ok {
		return nil, fmt.Errorf("%w: map without seconds field", ErrBadTimestamp)
	}
	var secs int64
	switch n := raw.(type) {
	case int32:
		secs = int64(n)
	case int64:
		secs = n
	case int:
		secs = int64(n)
	case float64:
		secs = int64(n)
	default:
		return nil, fmt.Errorf("%w: non-numeric seconds field %T", ErrBadTimestamp, raw)
	}
	tt := time.Unix(secs, 0)
	return &tt, nil
}
