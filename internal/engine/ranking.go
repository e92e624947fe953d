package engine

import (
	"sort"
	"strconv"
	"strings"

	"github.com/culinaryai/culinaryai/internal/catalog"
	"github.com/culinaryai/culinaryai/pkg/models"
)

// Scoring weights for personalized ranking.
const (
	timeOfDayBoost     = 5.0
	regionBoost        = 2.0
	ingredientBoost    = 1.0
	restrictionPenalty = -10.0
	recencyBoost       = 3.0
)

// timeSynonyms folds free-text time-of-day tokens onto the canonical labels
// used in suitable_for.
var timeSynonyms = map[string]string{
	"breakfast": "Morning",
	"morning":   "Morning",
	"lunch":     "Afternoon",
	"afternoon": "Afternoon",
	"dinner":    "Evening",
	"evening":   "Evening",
	"night":     "Evening",
}

// NormalizeTimeOfDay maps a token through the synonym table. Unknown tokens
// pass through unchanged so exotic labels still match themselves.
func NormalizeTimeOfDay(token string) string {
	if canonical, ok := timeSynonyms[strings.ToLower(strings.TrimSpace(token))]; ok {
		return canonical
	}
	return strings.TrimSpace(token)
}

// Ranker orders the catalog for a query.
type Ranker struct {
	store            *catalog.Store
	recencyThreshold int
}

func NewRanker(store *catalog.Store, recencyThreshold int) *Ranker {
	return &Ranker{
		store:            store,
		recencyThreshold: recencyThreshold,
	}
}

// score computes the preference score for one record. ok is false when the
// record is disqualified, either by the tag filter up front or by a
// net-negative score after every rule has applied.
func (rk *Ranker) score(r models.MealRecord, q models.Query) (float64, bool) {
	// A record must carry every required tag. This is an AND filter, not an
	// OR boost.
	for _, want := range q.Tags {
		if !hasTag(r.Tags, want) {
			return 0, false
		}
	}

	var score float64

	if q.TimeOfDay != "" {
		want := NormalizeTimeOfDay(q.TimeOfDay)
		for _, slot := range r.SuitableFor {
			if strings.EqualFold(NormalizeTimeOfDay(slot), want) {
				score += timeOfDayBoost
				break
			}
		}
	}

	if q.Region != "" && q.Region == r.Region {
		score += regionBoost
	}

	for _, fav := range q.Preferences.FavoriteIngredients {
		if anyIngredientContains(r.Ingredients, fav) {
			score += ingredientBoost
		}
	}

	// Tested as "any ingredient matches" so a restriction term counts once
	// even when several ingredients contain it.
	for _, restriction := range q.Preferences.DietaryRestrictions {
		if anyIngredientContains(r.Ingredients, restriction) {
			score += restrictionPenalty
		}
	}

	if rk.isNewer(r.ID) {
		score += recencyBoost
	}

	// A net-negative score means a restriction hit the boosts could not
	// recover. Such records are withheld, not ranked last.
	if score < 0 {
		return 0, false
	}

	return score, true
}

// isNewer parses the id leniently; unparsable ids are legacy entries.
func (rk *Ranker) isNewer(id string) bool {
	n, err := strconv.Atoi(id)
	return err == nil && n >= rk.recencyThreshold
}

func hasTag(tags []string, want string) bool {
	for _, tag := range tags {
		if strings.EqualFold(tag, want) {
			return true
		}
	}
	return false
}

func anyIngredientContains(ingredients []string, term string) bool {
	term = strings.ToLower(term)
	if term == "" {
		return false
	}
	for _, ing := range ingredients {
		if strings.Contains(strings.ToLower(ing), term) {
			return true
		}
	}
	return false
}

// Rank scores the whole catalog and returns the top n survivors after the
// freshness mix. An empty catalog, a non-positive n, or a fully disqualified
// catalog all yield an empty result and no error.
func (rk *Ranker) Rank(q models.Query) []models.MealRecord {
	if q.Count <= 0 {
		return nil
	}

	type ranked struct {
		record models.MealRecord
		score  float64
	}

	var survivors []ranked
	for _, r := range rk.store.All() {
		if s, ok := rk.score(r, q); ok {
			survivors = append(survivors, ranked{record: r, score: s})
		}
	}
	if len(survivors) == 0 {
		return nil
	}

	// Stable sort keeps catalog order on score ties.
	sort.SliceStable(survivors, func(a, b int) bool {
		return survivors[a].score > survivors[b].score
	})

	n := q.Count
	if n > len(survivors) {
		n = len(survivors)
	}

	// Freshness mix: reserve up to n/2 slots for newly added catalog
	// entries so the result is not dominated by the oldest, most
	// similarity-reinforced records even when those score highest. The
	// remaining slots go to the best of the rest in score order.
	selected := make([]bool, len(survivors))
	reserved := n / 2
	for i := range survivors {
		if reserved == 0 {
			break
		}
		if rk.isNewer(survivors[i].record.ID) {
			selected[i] = true
			reserved--
		}
	}

	picked := 0
	for i := range survivors {
		if selected[i] {
			picked++
		}
	}

	// Walk the score order, taking reserved entries where they fall and
	// filling the remaining quota with the best unreserved records.
	result := make([]models.MealRecord, 0, n)
	free := n - picked
	for i := range survivors {
		if len(result) == n {
			break
		}
		if selected[i] {
			result = append(result, survivors[i].record)
		} else if free > 0 {
			result = append(result, survivors[i].record)
			free--
		}
	}

	return result
}
