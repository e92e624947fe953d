package engine

import (
	"sort"
	"strconv"
	"strings"

	"github.com/culinaryai/culinaryai/internal/catalog"
	"github.com/culinaryai/culinaryai/pkg/models"
)

const occasionCap = 10

// partyTagKeywords classify a record as party-appropriate when any of them
// appears in a tag.
var partyTagKeywords = []string{"festive", "spicy", "rich", "balanced", "protein"}

var partyMealTypes = map[string]struct{}{
	"main course": {},
	"dinner":      {},
	"lunch":       {},
}

var eveningMealTypes = map[string]struct{}{
	"dinner":      {},
	"main course": {},
}

// OccasionResolver maps a free-text occasion onto a dish list with a strict
// precedence order: named festival, then party/gathering heuristic, then the
// generic festive filter. Exactly one tier executes per call.
type OccasionResolver struct {
	store *catalog.Store
}

func NewOccasionResolver(store *catalog.Store) *OccasionResolver {
	return &OccasionResolver{store: store}
}

// Resolve returns the dish list for an occasion. Festival results are a
// curated, intentionally complete set and are never truncated; the other
// tiers cap at ten records.
func (or *OccasionResolver) Resolve(occasion, timeOfDay string, tags []string) []models.MealRecord {
	if key, ok := or.store.MatchFestival(occasion); ok {
		return or.store.FestivalDishes(key)
	}

	lowered := strings.ToLower(occasion)
	if strings.Contains(lowered, "party") || strings.Contains(lowered, "family gathering") {
		return or.partyDishes(timeOfDay)
	}

	return or.festiveDishes(timeOfDay, tags)
}

// partyDishes selects records suitable for parties and gatherings, richest
// first.
func (or *OccasionResolver) partyDishes(timeOfDay string) []models.MealRecord {
	evening := strings.EqualFold(NormalizeTimeOfDay(timeOfDay), "Evening")

	var matches []models.MealRecord
	for _, r := range or.store.All() {
		if isPartyAppropriate(r, evening) {
			matches = append(matches, r)
		}
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return parseCalories(matches[a].Calories) > parseCalories(matches[b].Calories)
	})

	if len(matches) > occasionCap {
		matches = matches[:occasionCap]
	}
	return matches
}

func isPartyAppropriate(r models.MealRecord, evening bool) bool {
	for _, tag := range r.Tags {
		lowered := strings.ToLower(tag)
		for _, keyword := range partyTagKeywords {
			if strings.Contains(lowered, keyword) {
				return true
			}
		}
	}

	mealType := strings.ToLower(r.MealType)
	if _, ok := partyMealTypes[mealType]; ok {
		return true
	}

	for _, slot := range r.SuitableFor {
		if strings.Contains(strings.ToLower(slot), "celebration") {
			return true
		}
	}

	if evening {
		if _, ok := eveningMealTypes[mealType]; ok {
			return true
		}
	}

	return false
}

// festiveDishes is the generic fallback: records tagged Festive or tagged
// with a festival key, progressively narrowed by time of day and then by
// tags. The tag narrowing is an any-match, looser than the ranking engine's
// strict filter.
func (or *OccasionResolver) festiveDishes(timeOfDay string, tags []string) []models.MealRecord {
	festivalKeys := or.store.FestivalKeys()

	var matches []models.MealRecord
	for _, r := range or.store.All() {
		if isFestive(r, festivalKeys) {
			matches = append(matches, r)
		}
	}

	if timeOfDay != "" {
		want := NormalizeTimeOfDay(timeOfDay)
		var narrowed []models.MealRecord
		for _, r := range matches {
			for _, slot := range r.SuitableFor {
				if strings.EqualFold(NormalizeTimeOfDay(slot), want) {
					narrowed = append(narrowed, r)
					break
				}
			}
		}
		matches = narrowed
	}

	if len(tags) > 0 {
		var narrowed []models.MealRecord
		for _, r := range matches {
			if hasAnyTag(r.Tags, tags) {
				narrowed = append(narrowed, r)
			}
		}
		matches = narrowed
	}

	if len(matches) > occasionCap {
		matches = matches[:occasionCap]
	}
	return matches
}

func isFestive(r models.MealRecord, festivalKeys []string) bool {
	for _, tag := range r.Tags {
		lowered := strings.ToLower(tag)
		if strings.Contains(lowered, "festive") {
			return true
		}
		for _, key := range festivalKeys {
			if strings.Contains(lowered, key) {
				return true
			}
		}
	}
	return false
}

func hasAnyTag(tags, wanted []string) bool {
	for _, want := range wanted {
		for _, tag := range tags {
			if strings.EqualFold(tag, want) {
				return true
			}
		}
	}
	return false
}

// parseCalories degrades silently to zero; the catalog is hand-curated and
// occasionally inconsistent.
func parseCalories(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}
