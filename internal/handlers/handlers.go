package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/culinaryai/culinaryai/internal/config"
	"github.com/culinaryai/culinaryai/internal/database"
	"github.com/culinaryai/culinaryai/internal/engine"
	"github.com/culinaryai/culinaryai/internal/services"
	"github.com/culinaryai/culinaryai/internal/validation"
)

type Handlers struct {
	Recommendation *RecommendationHandler
	Meal           *MealHandler
	Dataset        *DatasetHandler
	Auth           *AuthHandler
	Health         *HealthHandler
}

func New(
	logger *logrus.Logger,
	cfg *config.Config,
	eng *engine.Engine,
	db *database.Database,
	authService *services.AuthService,
	validator *validation.SchemaValidator,
) *Handlers {
	return &Handlers{
		Recommendation: NewRecommendationHandler(eng, cfg, logger),
		Meal:           NewMealHandler(eng, logger),
		Dataset:        NewDatasetHandler(eng, db, cfg, validator, logger),
		Auth:           NewAuthHandler(authService, cfg, logger),
		Health:         NewHealthHandler(eng, db, logger),
	}
}
