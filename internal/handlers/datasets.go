package handlers

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/culinaryai/culinaryai/internal/catalog"
	"github.com/culinaryai/culinaryai/internal/config"
	"github.com/culinaryai/culinaryai/internal/database"
	"github.com/culinaryai/culinaryai/internal/engine"
	"github.com/culinaryai/culinaryai/internal/validation"
	"github.com/culinaryai/culinaryai/pkg/models"
)

type DatasetHandler struct {
	engine    *engine.Engine
	db        *database.Database
	cfg       *config.Config
	validator *validation.SchemaValidator
	logger    *logrus.Logger
}

func NewDatasetHandler(
	eng *engine.Engine,
	db *database.Database,
	cfg *config.Config,
	validator *validation.SchemaValidator,
	logger *logrus.Logger,
) *DatasetHandler {
	return &DatasetHandler{
		engine:    eng,
		db:        db,
		cfg:       cfg,
		validator: validator,
		logger:    logger,
	}
}

// List handles GET /datasets.
func (h *DatasetHandler) List(c *gin.Context) {
	datasets, err := catalog.ListDatasets(h.cfg.Catalog.DataDir)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list datasets")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "DATASET_LIST_FAILED",
				"message": "Failed to list datasets",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"datasets": datasets})
}

// Load handles POST /datasets/:name/load: parse a CSV dataset from the data
// directory, swap the engine onto it, and mirror it into MongoDB when a
// connection is attached.
func (h *DatasetHandler) Load(c *gin.Context) {
	name := c.Param("name")
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_DATASET_NAME",
				"message": "Dataset name must be a plain file name",
			},
		})
		return
	}

	records, err := catalog.LoadCSV(filepath.Join(h.cfg.Catalog.DataDir, name))
	if err != nil {
		h.logger.WithError(err).WithField("dataset", name).Error("Failed to load dataset")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "DATASET_LOAD_FAILED",
				"message": "Failed to load dataset: " + err.Error(),
			},
		})
		return
	}

	ingested := 0
	if h.db != nil && h.db.Dishes != nil {
		source := catalog.NewMongoSource(h.db.Dishes, h.logger)
		if ingested, err = source.Ingest(c.Request.Context(), records); err != nil {
			h.logger.WithError(err).Error("Failed to ingest dataset into MongoDB")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{
					"code":    "DATASET_INGEST_FAILED",
					"message": "Failed to ingest dataset",
				},
			})
			return
		}
	}

	if err := h.reload(records); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "MALFORMED_DATASET",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"loaded":   len(records),
		"inserted": ingested,
	})
}

// AddRecords handles POST /datasets/records: validate submitted records
// against the meal schema and merge them into the catalog.
func (h *DatasetHandler) AddRecords(c *gin.Context) {
	var incoming []models.MealRecord
	if err := c.ShouldBindJSON(&incoming); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST_BODY",
				"message": "Expected an array of meal records",
			},
		})
		return
	}

	for i, record := range incoming {
		if result := h.validator.ValidateMealRecord(record); !result.Valid {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Record validation failed",
					"details": gin.H{
						"record": i,
						"errors": result.Errors,
					},
				},
			})
			return
		}
	}

	existing := h.engine.Meals()

	// Records without an id get the next numeric id, clear of the manually
	// curated range.
	nextID := 21
	for _, r := range existing {
		if n, err := strconv.Atoi(r.ID); err == nil && n+1 > nextID {
			nextID = n + 1
		}
	}
	for i := range incoming {
		if incoming[i].ID == "" {
			incoming[i].ID = strconv.Itoa(nextID)
			nextID++
		}
	}

	merged := append(append([]models.MealRecord{}, existing...), incoming...)
	if err := h.reload(merged); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "MALFORMED_DATASET",
				"message": err.Error(),
			},
		})
		return
	}

	if h.db != nil && h.db.Dishes != nil {
		source := catalog.NewMongoSource(h.db.Dishes, h.logger)
		if _, err := source.Ingest(c.Request.Context(), incoming); err != nil {
			h.logger.WithError(err).Warn("Failed to mirror records into MongoDB")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"added": len(incoming),
		"total": h.engine.CatalogSize(),
	})
}

// Reload handles POST /admin/catalog/reload: re-read the configured source
// and atomically swap the engine onto the fresh catalog.
func (h *DatasetHandler) Reload(c *gin.Context) {
	var records []models.MealRecord
	var err error

	if h.db != nil && h.db.Dishes != nil {
		records, err = catalog.NewMongoSource(h.db.Dishes, h.logger).Load(c.Request.Context())
	} else {
		records, err = catalog.LoadCSV(filepath.Join(h.cfg.Catalog.DataDir, h.cfg.Catalog.CSVFile))
	}
	if err != nil {
		h.logger.WithError(err).Error("Catalog reload failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "CATALOG_RELOAD_FAILED",
				"message": "Failed to reload catalog",
			},
		})
		return
	}

	if err := h.reload(records); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "MALFORMED_DATASET",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"catalog_size": h.engine.CatalogSize()})
}

func (h *DatasetHandler) reload(records []models.MealRecord) error {
	store, err := catalog.NewStore(records, h.cfg.Catalog.FestivalDishes)
	if err != nil {
		return err
	}
	h.engine.Reload(store)
	return nil
}
