// Package engine implements the meal recommendation core: a TF-IDF
// similarity index over the catalog, preference-driven ranking with a
// freshness mix, occasion resolution, and portion adjustment.
package engine

import (
	"math/rand"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/culinaryai/culinaryai/internal/catalog"
	"github.com/culinaryai/culinaryai/internal/config"
	"github.com/culinaryai/culinaryai/pkg/models"
)

// Engine is the single entry point for all retrieval paths. It holds the
// catalog store and every derived model behind one atomic reference, so a
// catalog reload swaps the whole pair at once and in-flight queries never
// observe a half-rebuilt index.
type Engine struct {
	cfg     config.EngineConfig
	logger  *logrus.Logger
	current atomic.Pointer[snapshot]
}

// snapshot binds a store to the models derived from it. Immutable once
// published.
type snapshot struct {
	store     *catalog.Store
	index     *SimilarityIndex
	ranker    *Ranker
	occasions *OccasionResolver
}

// New builds an engine over an initial catalog. Construction is synchronous:
// the similarity matrix is complete before New returns.
func New(store *catalog.Store, cfg config.EngineConfig, logger *logrus.Logger) *Engine {
	e := &Engine{
		cfg:    cfg,
		logger: logger,
	}
	e.current.Store(e.build(store))
	return e
}

func (e *Engine) build(store *catalog.Store) *snapshot {
	snap := &snapshot{
		store:     store,
		index:     NewSimilarityIndex(store),
		ranker:    NewRanker(store, e.cfg.RecencyThreshold),
		occasions: NewOccasionResolver(store),
	}

	e.logger.WithFields(logrus.Fields{
		"catalog_size":      store.Len(),
		"recency_threshold": e.cfg.RecencyThreshold,
	}).Info("Recommendation models built")

	return snap
}

// Reload replaces the catalog wholesale. The similarity matrix is rebuilt in
// full; there is no incremental update.
func (e *Engine) Reload(store *catalog.Store) {
	e.current.Store(e.build(store))
}

// CatalogSize reports the size of the current catalog.
func (e *Engine) CatalogSize() int {
	return e.current.Load().store.Len()
}

// Meal looks up a single record in the current catalog.
func (e *Engine) Meal(id string) (models.MealRecord, error) {
	return e.current.Load().store.ByID(id)
}

// Meals returns the current catalog in order.
func (e *Engine) Meals() []models.MealRecord {
	return e.current.Load().store.All()
}

// MealsByTime returns up to n meals suitable for a time of day, in catalog
// order. The token passes through the synonym table first.
func (e *Engine) MealsByTime(timeOfDay string, n int) []models.MealRecord {
	want := NormalizeTimeOfDay(timeOfDay)

	var matches []models.MealRecord
	for _, r := range e.current.Load().store.All() {
		if n > 0 && len(matches) == n {
			break
		}
		for _, slot := range r.SuitableFor {
			if strings.EqualFold(NormalizeTimeOfDay(slot), want) {
				matches = append(matches, r)
				break
			}
		}
	}
	return matches
}

// MealsByTags returns up to n meals carrying any of the given tags, in
// catalog order.
func (e *Engine) MealsByTags(tags []string, n int) []models.MealRecord {
	var matches []models.MealRecord
	for _, r := range e.current.Load().store.All() {
		if n > 0 && len(matches) == n {
			break
		}
		if hasAnyTag(r.Tags, tags) {
			matches = append(matches, r)
		}
	}
	return matches
}

// SimilarTo returns up to n meals textually closest to the given meal.
// Unknown ids fail with catalog.ErrMealNotFound; callers may substitute
// RandomSample as a degraded fallback.
func (e *Engine) SimilarTo(mealID string, n int) ([]models.MealRecord, error) {
	return e.current.Load().index.SimilarTo(mealID, n)
}

// RandomSample draws up to n records from the catalog. It exists only as the
// documented fallback for similarity lookups on unknown ids.
func (e *Engine) RandomSample(n int) []models.MealRecord {
	records := e.current.Load().store.All()
	if n <= 0 || len(records) == 0 {
		return nil
	}
	if n > len(records) {
		n = len(records)
	}

	perm := rand.Perm(len(records))
	sample := make([]models.MealRecord, n)
	for i := 0; i < n; i++ {
		sample[i] = records[perm[i]]
	}
	return sample
}

// Rank orders the catalog for a personalized query. A non-positive count is
// a valid empty result, not an error; defaulting the count is the request
// layer's concern.
func (e *Engine) Rank(q models.Query) []models.MealRecord {
	return e.current.Load().ranker.Rank(q)
}

// ForOccasion resolves a free-text occasion to a dish list.
func (e *Engine) ForOccasion(occasion, timeOfDay string, tags []string) []models.MealRecord {
	return e.current.Load().occasions.Resolve(occasion, timeOfDay, tags)
}

// AdjustPortions annotates one record for a family size.
func (e *Engine) AdjustPortions(r models.MealRecord, familySize int) models.MealRecord {
	return AdjustPortions(r, familySize, e.cfg.ReferenceServings)
}

// AdjustAll annotates a result list for a family size.
func (e *Engine) AdjustAll(records []models.MealRecord, familySize int) []models.MealRecord {
	adjusted := make([]models.MealRecord, len(records))
	for i, r := range records {
		adjusted[i] = e.AdjustPortions(r, familySize)
	}
	return adjusted
}
