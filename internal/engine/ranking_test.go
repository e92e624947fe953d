package engine

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/culinaryai/culinaryai/internal/catalog"
	"github.com/culinaryai/culinaryai/pkg/models"
)

func mustStore(t *testing.T, records []models.MealRecord, festivals map[string][]string) *catalog.Store {
	t.Helper()
	store, err := catalog.NewStore(records, festivals)
	require.NoError(t, err)
	return store
}

func TestNormalizeTimeOfDay(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"breakfast", "Morning"},
		{"Morning", "Morning"},
		{"lunch", "Afternoon"},
		{"DINNER", "Evening"},
		{"night", "Evening"},
		{" evening ", "Evening"},
		{"brunch", "brunch"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTimeOfDay(tt.token))
		})
	}
}

func TestRanker_Score(t *testing.T) {
	record := models.MealRecord{
		ID:          "1",
		Name:        "Paneer Butter Masala",
		Region:      "North Indian",
		Tags:        []string{"Rich", "Protein"},
		Ingredients: []string{"paneer", "tomato", "butter", "cream"},
		SuitableFor: []string{"Evening"},
	}

	rk := NewRanker(mustStore(t, []models.MealRecord{record}, nil), 98)

	tests := []struct {
		name      string
		query     models.Query
		wantScore float64
		wantOK    bool
	}{
		{
			name:      "no criteria scores zero",
			query:     models.Query{},
			wantScore: 0,
			wantOK:    true,
		},
		{
			name:      "time of day matches through synonym",
			query:     models.Query{TimeOfDay: "dinner"},
			wantScore: 5,
			wantOK:    true,
		},
		{
			name:      "region match is exact",
			query:     models.Query{Region: "North Indian"},
			wantScore: 2,
			wantOK:    true,
		},
		{
			name:      "region match is case sensitive",
			query:     models.Query{Region: "north indian"},
			wantScore: 0,
			wantOK:    true,
		},
		{
			name: "favorite ingredients score once each",
			query: models.Query{Preferences: models.Preferences{
				FavoriteIngredients: []string{"paneer", "butter", "okra"},
			}},
			wantScore: 2,
			wantOK:    true,
		},
		{
			name: "favorite matches by substring",
			query: models.Query{Preferences: models.Preferences{
				FavoriteIngredients: []string{"Tomat"},
			}},
			wantScore: 1,
			wantOK:    true,
		},
		{
			name: "unrecovered restriction hit disqualifies",
			query: models.Query{Preferences: models.Preferences{
				DietaryRestrictions: []string{"dairy", "butter"},
			}},
			// "butter" matches ingredients, "dairy" matches nothing.
			wantOK: false,
		},
		{
			name: "restriction outweighed by boosts keeps the record",
			query: models.Query{
				TimeOfDay: "dinner",
				Region:    "North Indian",
				Preferences: models.Preferences{
					FavoriteIngredients: []string{"paneer", "tomato", "butter", "cream"},
					DietaryRestrictions: []string{"butter"},
				},
			},
			// 5 + 2 + 4 - 10
			wantScore: 1,
			wantOK:    true,
		},
		{
			name:   "missing required tag disqualifies",
			query:  models.Query{Tags: []string{"Rich", "Vegan"}},
			wantOK: false,
		},
		{
			name:      "required tags match case-insensitively",
			query:     models.Query{Tags: []string{"rich", "PROTEIN"}},
			wantScore: 0,
			wantOK:    true,
		},
		{
			name: "boosts accumulate",
			query: models.Query{
				TimeOfDay: "evening",
				Region:    "North Indian",
				Preferences: models.Preferences{
					FavoriteIngredients: []string{"paneer"},
				},
			},
			wantScore: 8,
			wantOK:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, ok := rk.score(record, tt.query)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.wantScore, score, 0.001)
			}
		})
	}
}

func TestRanker_RecencyBoost(t *testing.T) {
	records := []models.MealRecord{
		{ID: "97", Name: "Old Dish"},
		{ID: "98", Name: "Threshold Dish"},
		{ID: "abc", Name: "Legacy Dish"},
	}
	rk := NewRanker(mustStore(t, records, nil), 98)

	score, ok := rk.score(records[0], models.Query{})
	require.True(t, ok)
	assert.InDelta(t, 0, score, 0.001)

	score, ok = rk.score(records[1], models.Query{})
	require.True(t, ok)
	assert.InDelta(t, 3, score, 0.001)

	// Unparsable ids are legacy entries and never boosted.
	score, ok = rk.score(records[2], models.Query{})
	require.True(t, ok)
	assert.InDelta(t, 0, score, 0.001)
}

func TestRanker_Rank_EdgeCases(t *testing.T) {
	store := mustStore(t, []models.MealRecord{
		{ID: "1", Name: "Poha", Tags: []string{"Quick"}},
	}, nil)
	rk := NewRanker(store, 98)

	assert.Empty(t, rk.Rank(models.Query{Count: 0}))
	assert.Empty(t, rk.Rank(models.Query{Count: -3}))
	assert.Empty(t, rk.Rank(models.Query{Count: 5, Tags: []string{"Vegan"}}))

	empty := NewRanker(mustStore(t, nil, nil), 98)
	assert.Empty(t, empty.Rank(models.Query{Count: 5}))
}

func TestRanker_Rank_RestrictionMatchingAllYieldsEmpty(t *testing.T) {
	// A restriction hitting every record in the catalog must produce an
	// empty result, never a list of penalized records ranked last.
	records := []models.MealRecord{
		{ID: "1", Name: "Paneer Tikka", Ingredients: []string{"paneer", "yogurt"}},
		{ID: "2", Name: "Paneer Masala", Ingredients: []string{"paneer", "tomato"}},
	}
	rk := NewRanker(mustStore(t, records, nil), 98)

	result := rk.Rank(models.Query{
		Count: 5,
		Preferences: models.Preferences{
			DietaryRestrictions: []string{"paneer"},
		},
	})
	assert.Empty(t, result)
}

func TestRanker_Rank_FreshnessMix(t *testing.T) {
	// Eight older records that match the query strongly and five newer ones
	// that only carry the recency boost. Without the mix the top six would be
	// all older records.
	var records []models.MealRecord
	for i := 1; i <= 8; i++ {
		records = append(records, models.MealRecord{
			ID:          strconv.Itoa(i),
			Name:        "Old Dish " + strconv.Itoa(i),
			SuitableFor: []string{"Evening"},
		})
	}
	for i := 98; i <= 102; i++ {
		records = append(records, models.MealRecord{
			ID:   strconv.Itoa(i),
			Name: "New Dish " + strconv.Itoa(i),
		})
	}

	rk := NewRanker(mustStore(t, records, nil), 98)
	result := rk.Rank(models.Query{TimeOfDay: "dinner", Count: 6})
	require.Len(t, result, 6)

	newer := 0
	for _, r := range result {
		if n, err := strconv.Atoi(r.ID); err == nil && n >= 98 {
			newer++
		}
	}
	assert.Equal(t, 3, newer, "half the slots go to newer records")

	// The free slots hold the best older records in score order.
	assert.Equal(t, "1", result[0].ID)
	assert.Equal(t, "2", result[1].ID)
	assert.Equal(t, "3", result[2].ID)
}

func TestRanker_Rank_NewerDominated(t *testing.T) {
	// When newer records outscore the older ones the reservation does not
	// hold them back: the result is mostly newer records plus the best of
	// the rest.
	var records []models.MealRecord
	for i := 1; i <= 2; i++ {
		records = append(records, models.MealRecord{
			ID:          strconv.Itoa(i),
			Name:        "Old Dish " + strconv.Itoa(i),
			SuitableFor: []string{"Evening"},
		})
	}
	for i := 98; i <= 102; i++ {
		records = append(records, models.MealRecord{
			ID:          strconv.Itoa(i),
			Name:        "New Dish " + strconv.Itoa(i),
			SuitableFor: []string{"Evening"},
		})
	}

	rk := NewRanker(mustStore(t, records, nil), 98)
	result := rk.Rank(models.Query{TimeOfDay: "dinner", Count: 6})
	require.Len(t, result, 6)

	newer := 0
	for _, r := range result {
		if n, err := strconv.Atoi(r.ID); err == nil && n >= 98 {
			newer++
		}
	}
	assert.Equal(t, 5, newer)
	assert.Equal(t, "1", result[5].ID)
}

func TestRanker_Rank_CountClamp(t *testing.T) {
	store := mustStore(t, []models.MealRecord{
		{ID: "1", Name: "Poha"},
		{ID: "2", Name: "Upma"},
	}, nil)
	rk := NewRanker(store, 98)

	result := rk.Rank(models.Query{Count: 10})
	assert.Len(t, result, 2)
}
