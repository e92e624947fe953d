package models

// MealRecord is the catalog's unit of data. Records are normalized before they
// enter the catalog: every list-valued field is a materialized slice, never a
// raw delimited string.
type MealRecord struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Region      string   `json:"region"`
	MealType    string   `json:"meal_type"`
	Tags        []string `json:"tags"`
	Ingredients []string `json:"ingredients"`
	SuitableFor []string `json:"suitable_for"`
	// Calories is kept as raw text from the source data. The catalog is
	// hand-curated and occasionally inconsistent, so parsing happens lazily
	// and failures degrade to zero.
	Calories string `json:"calories,omitempty"`

	// Display-only fields populated by portion adjustment.
	Servings            int      `json:"servings,omitempty"`
	AdjustedIngredients []string `json:"adjusted_ingredients,omitempty"`
}

// Preferences holds the soft preference categories a user can express.
type Preferences struct {
	FavoriteIngredients []string `json:"favorite_ingredients,omitempty"`
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
}

// Query is the transient input to personalized ranking.
type Query struct {
	TimeOfDay   string      `json:"time_of_day,omitempty"`
	Region      string      `json:"region,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	Preferences Preferences `json:"preferences,omitempty"`
	Count       int         `json:"n,omitempty"`
	FamilySize  int         `json:"family_size,omitempty"`
}
