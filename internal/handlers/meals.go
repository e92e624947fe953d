package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/culinaryai/culinaryai/internal/engine"
)

type MealHandler struct {
	engine *engine.Engine
	logger *logrus.Logger
}

func NewMealHandler(eng *engine.Engine, logger *logrus.Logger) *MealHandler {
	return &MealHandler{
		engine: eng,
		logger: logger,
	}
}

// List handles GET /meals.
func (h *MealHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"meals": h.engine.Meals(),
		"count": h.engine.CatalogSize(),
	})
}

// Get handles GET /meals/:id.
func (h *MealHandler) Get(c *gin.Context) {
	meal, err := h.engine.Meal(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{
				"code":    "MEAL_NOT_FOUND",
				"message": "No meal with that id",
			},
		})
		return
	}

	c.JSON(http.StatusOK, meal)
}
