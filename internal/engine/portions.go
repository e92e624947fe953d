package engine

import (
	"fmt"

	"github.com/culinaryai/culinaryai/pkg/models"
)

// AdjustPortions annotates a record's ingredient list for a family size.
// Every stored recipe is written for referenceServings people; the factor is
// a display hint, not a recipe scaler, so quantities are never parsed.
// Non-positive family sizes clamp to the reference size rather than emitting
// a nonsensical factor.
func AdjustPortions(r models.MealRecord, familySize, referenceServings int) models.MealRecord {
	if referenceServings <= 0 {
		referenceServings = 4
	}
	if familySize <= 0 {
		familySize = referenceServings
	}

	factor := float64(familySize) / float64(referenceServings)

	adjusted := r
	adjusted.Servings = familySize
	adjusted.AdjustedIngredients = make([]string, len(r.Ingredients))
	for i, ingredient := range r.Ingredients {
		adjusted.AdjustedIngredients[i] = fmt.Sprintf("%s (x%.1f)", ingredient, factor)
	}
	return adjusted
}
