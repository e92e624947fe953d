package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/culinaryai/culinaryai/internal/database"
	"github.com/culinaryai/culinaryai/internal/engine"
)

type HealthHandler struct {
	engine *engine.Engine
	db     *database.Database
	logger *logrus.Logger
}

func NewHealthHandler(eng *engine.Engine, db *database.Database, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{
		engine: eng,
		db:     db,
		logger: logger,
	}
}

// Check handles GET /health.
func (h *HealthHandler) Check(c *gin.Context) {
	status := "healthy"
	backends := map[string]string{}
	if h.db != nil {
		backends = h.db.Health(c.Request.Context())
		for _, state := range backends {
			if state != "healthy" {
				status = "degraded"
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       status,
		"catalog_size": h.engine.CatalogSize(),
		"backends":     backends,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	})
}
