package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/culinaryai/culinaryai/pkg/models"
)

var (
	// ErrMealNotFound is returned for lookups of unknown meal ids. Callers
	// decide whether to fail the request or substitute a fallback sample.
	ErrMealNotFound = errors.New("meal not found")

	// ErrMalformedRecord marks records that fail the normalization
	// invariant. Such records are rejected here and never reach the engine.
	ErrMalformedRecord = errors.New("malformed meal record")
)

// Store holds the immutable ordered list of meal records for the lifetime of
// an engine instance. It is built once, before any query is served, and is
// safe for concurrent reads because nothing mutates it afterwards.
type Store struct {
	records        []models.MealRecord
	index          map[string]int
	festivalDishes map[string][]string
}

// NewStore validates and indexes a normalized record list. The festival table
// maps a lowercase festival key to the dish names curated for it.
func NewStore(records []models.MealRecord, festivalDishes map[string][]string) (*Store, error) {
	index := make(map[string]int, len(records))
	for i, r := range records {
		if r.ID == "" {
			return nil, fmt.Errorf("%w: record %d has no id", ErrMalformedRecord, i)
		}
		if r.Name == "" {
			return nil, fmt.Errorf("%w: record %q has no name", ErrMalformedRecord, r.ID)
		}
		if _, dup := index[r.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrMalformedRecord, r.ID)
		}
		index[r.ID] = i
	}

	normalized := make(map[string][]string, len(festivalDishes))
	for key, dishes := range festivalDishes {
		normalized[strings.ToLower(key)] = dishes
	}

	return &Store{
		records:        records,
		index:          index,
		festivalDishes: normalized,
	}, nil
}

// All returns the full record sequence in catalog order. The returned slice
// must not be mutated.
func (s *Store) All() []models.MealRecord {
	return s.records
}

// Len reports the catalog size.
func (s *Store) Len() int {
	return len(s.records)
}

// ByID looks up a single record.
func (s *Store) ByID(id string) (models.MealRecord, error) {
	i, ok := s.index[id]
	if !ok {
		return models.MealRecord{}, fmt.Errorf("%w: %q", ErrMealNotFound, id)
	}
	return s.records[i], nil
}

// FestivalDishes returns every record whose name contains one of the dish
// names configured for the festival key, case-insensitively. An unknown key
// yields an empty result, not an error.
func (s *Store) FestivalDishes(key string) []models.MealRecord {
	dishes := s.festivalDishes[strings.ToLower(key)]
	if len(dishes) == 0 {
		return nil
	}

	var matches []models.MealRecord
	for _, r := range s.records {
		name := strings.ToLower(r.Name)
		for _, dish := range dishes {
			if strings.Contains(name, strings.ToLower(dish)) {
				matches = append(matches, r)
				break
			}
		}
	}
	return matches
}

// FestivalKeys returns the configured festival keys, lowercase and sorted so
// iteration order is deterministic.
func (s *Store) FestivalKeys() []string {
	keys := make([]string, 0, len(s.festivalDishes))
	for key := range s.festivalDishes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// MatchFestival finds the first configured festival whose key appears as a
// substring of the occasion text, case-insensitively.
func (s *Store) MatchFestival(occasion string) (string, bool) {
	lowered := strings.ToLower(occasion)
	for _, key := range s.FestivalKeys() {
		if strings.Contains(lowered, key) {
			return key, true
		}
	}
	return "", false
}
