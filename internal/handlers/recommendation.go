package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/culinaryai/culinaryai/internal/catalog"
	"github.com/culinaryai/culinaryai/internal/config"
	"github.com/culinaryai/culinaryai/internal/engine"
	"github.com/culinaryai/culinaryai/pkg/models"
)

type RecommendationHandler struct {
	engine *engine.Engine
	cfg    *config.Config
	logger *logrus.Logger
}

func NewRecommendationHandler(eng *engine.Engine, cfg *config.Config, logger *logrus.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		engine: eng,
		cfg:    cfg,
		logger: logger,
	}
}

// Personalized handles POST /recommendations.
func (h *RecommendationHandler) Personalized(c *gin.Context) {
	var req models.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST_BODY",
				"message": "Invalid request body format",
			},
		})
		return
	}

	results := h.engine.Rank(models.Query{
		TimeOfDay:   req.TimeOfDay,
		Region:      req.Region,
		Tags:        req.Tags,
		Preferences: req.Preferences,
		Count:       h.count(req.Count),
	})

	c.JSON(http.StatusOK, models.RecommendationResponse{
		Recommendations: h.engine.AdjustAll(results, h.familySize(req.FamilySize)),
	})
}

// Occasion handles POST /recommendations/occasion.
func (h *RecommendationHandler) Occasion(c *gin.Context) {
	var req models.OccasionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST_BODY",
				"message": "Occasion is required",
			},
		})
		return
	}

	results := h.engine.ForOccasion(req.Occasion, req.TimeOfDay, req.Tags)

	c.JSON(http.StatusOK, models.RecommendationResponse{
		Recommendations: h.engine.AdjustAll(results, h.familySize(req.FamilySize)),
	})
}

// Similar handles POST /recommendations/similar. An unknown meal id degrades
// to a random catalog sample instead of failing; the response carries a
// fallback marker so the substitution is never silent.
func (h *RecommendationHandler) Similar(c *gin.Context) {
	var req models.SimilarMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST_BODY",
				"message": "Meal id is required",
			},
		})
		return
	}

	count := h.count(req.Count)
	fallback := false

	results, err := h.engine.SimilarTo(req.MealID, count)
	if err != nil {
		if !errors.Is(err, catalog.ErrMealNotFound) {
			h.logger.WithError(err).Error("Similarity lookup failed")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{
					"code":    "SIMILARITY_LOOKUP_FAILED",
					"message": "Failed to find similar meals",
				},
			})
			return
		}

		h.logger.WithField("meal_id", req.MealID).Warn("Unknown meal id, substituting random sample")
		results = h.engine.RandomSample(count)
		fallback = true
	}

	c.JSON(http.StatusOK, models.RecommendationResponse{
		Recommendations: h.engine.AdjustAll(results, h.familySize(req.FamilySize)),
		Fallback:        fallback,
	})
}

// ByTime handles GET /recommendations/time/:timeOfDay.
func (h *RecommendationHandler) ByTime(c *gin.Context) {
	timeOfDay := c.Param("timeOfDay")
	familySize := h.familySizeQuery(c)

	results := h.engine.MealsByTime(timeOfDay, h.count(0))

	c.JSON(http.StatusOK, models.RecommendationResponse{
		Recommendations: h.engine.AdjustAll(results, familySize),
	})
}

// ByTags handles GET /recommendations/tags?tags=a,b.
func (h *RecommendationHandler) ByTags(c *gin.Context) {
	tagsParam := c.Query("tags")
	if tagsParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "MISSING_TAGS",
				"message": "At least one tag is required",
			},
		})
		return
	}

	var tags []string
	for _, tag := range strings.Split(tagsParam, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	results := h.engine.MealsByTags(tags, h.count(0))

	c.JSON(http.StatusOK, models.RecommendationResponse{
		Recommendations: h.engine.AdjustAll(results, h.familySizeQuery(c)),
	})
}

func (h *RecommendationHandler) count(requested int) int {
	if requested > 0 {
		return requested
	}
	return h.cfg.Engine.DefaultCount
}

func (h *RecommendationHandler) familySize(requested int) int {
	if requested > 0 {
		return requested
	}
	return h.cfg.Engine.ReferenceServings
}

func (h *RecommendationHandler) familySizeQuery(c *gin.Context) int {
	if raw := c.Query("family_size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return h.cfg.Engine.ReferenceServings
}
