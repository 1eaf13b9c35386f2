// Package view derives list-screen state (partition, search, sort) from
// already-fetched records. It holds no authority over persisted state and
// never talks to the store.
package view

import "sort"

// SortState is a single active sort key plus direction.
type SortState struct {
	Key  string `json:"key"`
	Desc bool   `json:"desc"`
}

// Toggle selects a sort key. Selecting the active key flips the direction;
// selecting a new key starts ascending.
func (s *SortState) Toggle(key string) {
	if s.Key == key {
		s.Desc = !s.Desc
		return
	}
	s.Key = key
	s.Desc = false
}

// SortBy stably sorts a copy of items by the value the key function yields.
// Values may be strings, numbers, or nil; a nil key compares equal to
// everything, so rows without the key keep their relative order.
func SortBy[T any](items []T, key func(T) interface{}, desc bool) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		c := compare(key(out[i]), key(out[j]))
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func compare(a, b interface{}) int {
	if a == nil || b == nil {
		return 0
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0
		}
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	case float64:
		bv, ok := b.(float64)
		if !ok {
			return 0
		}
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	case int:
		bv, ok := b.(int)
		if !ok {
			return 0
		}
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	}
	return 0
}
