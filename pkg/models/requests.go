package models

// RecommendationRequest asks for personalized recommendations.
type RecommendationRequest struct {
	TimeOfDay   string      `json:"time_of_day,omitempty"`
	Region      string      `json:"region,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	FamilySize  int         `json:"family_size,omitempty"`
	Count       int         `json:"n,omitempty" binding:"omitempty,min=1,max=100"`
	Preferences Preferences `json:"preferences,omitempty"`
}

// OccasionRequest asks for occasion-based recommendations.
type OccasionRequest struct {
	Occasion   string   `json:"occasion" binding:"required"`
	TimeOfDay  string   `json:"time_of_day,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	FamilySize int      `json:"family_size,omitempty"`
}

// SimilarMealRequest asks for meals similar to a seed meal.
type SimilarMealRequest struct {
	MealID     string `json:"meal_id" binding:"required"`
	FamilySize int    `json:"family_size,omitempty"`
	Count      int    `json:"n,omitempty" binding:"omitempty,min=1,max=100"`
}

// RecommendationResponse wraps a list of recommended meals.
type RecommendationResponse struct {
	Recommendations []MealRecord `json:"recommendations"`
	// Fallback is set when an unknown meal id was substituted with a random
	// sample instead of failing the request.
	Fallback bool `json:"fallback,omitempty"`
}

// DatasetInfo describes one file in the data directory.
type DatasetInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size string `json:"size"`
}
