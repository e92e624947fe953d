package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/culinaryai/culinaryai/internal/catalog"
	"github.com/culinaryai/culinaryai/internal/config"
	"github.com/culinaryai/culinaryai/internal/engine"
	"github.com/culinaryai/culinaryai/internal/validation"
	"github.com/culinaryai/culinaryai/pkg/models"
)

func testDatasetRouter(t *testing.T, dataDir string) (*gin.Engine, *engine.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	cfg := testConfig()
	cfg.Catalog = config.CatalogConfig{
		DataDir: dataDir,
		CSVFile: "meals.csv",
	}

	store, err := catalog.NewStore(testCatalog(), nil)
	require.NoError(t, err)
	eng := engine.New(store, cfg.Engine, logger)

	validator, err := validation.NewSchemaValidator()
	require.NoError(t, err)

	h := NewDatasetHandler(eng, nil, cfg, validator, logger)

	router := gin.New()
	router.GET("/datasets", h.List)
	router.POST("/datasets/records", h.AddRecords)
	router.POST("/datasets/:name/load", h.Load)
	router.POST("/admin/catalog/reload", h.Reload)
	return router, eng
}

func TestDatasetHandler_List(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "meals.csv"), []byte("id,name\n"), 0o644))

	router, _ := testDatasetRouter(t, dir)

	req := httptest.NewRequest(http.MethodGet, "/datasets", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Datasets []models.DatasetInfo `json:"datasets"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Datasets, 1)
	assert.Equal(t, "meals.csv", resp.Datasets[0].Name)
	assert.Equal(t, "csv", resp.Datasets[0].Type)
}

func TestDatasetHandler_Load(t *testing.T) {
	dir := t.TempDir()
	csv := "id,name,tags\n50,Misal Pav,\"Spicy,Street Food\"\n51,Sol Kadhi,Cooling\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "regional.csv"), []byte(csv), 0o644))

	router, eng := testDatasetRouter(t, dir)

	req := httptest.NewRequest(http.MethodPost, "/datasets/regional.csv/load", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// The engine now serves the loaded dataset instead of the old catalog.
	assert.Equal(t, 2, eng.CatalogSize())
	meal, err := eng.Meal("50")
	require.NoError(t, err)
	assert.Equal(t, "Misal Pav", meal.Name)
}

func TestDatasetHandler_Load_Rejections(t *testing.T) {
	dir := t.TempDir()
	router, eng := testDatasetRouter(t, dir)

	tests := []struct {
		name    string
		dataset string
	}{
		{"hidden file", ".secret"},
		{"missing file", "nope.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/datasets/"+tt.dataset+"/load", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	// The failed loads never touched the running catalog.
	assert.Equal(t, 4, eng.CatalogSize())
}

func TestDatasetHandler_AddRecords(t *testing.T) {
	router, eng := testDatasetRouter(t, t.TempDir())

	w := postJSON(t, router, "/datasets/records", []models.MealRecord{
		{Name: "Misal Pav", Tags: []string{"Spicy"}},
		{ID: "100", Name: "Sol Kadhi"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Added int `json:"added"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Added)
	assert.Equal(t, 6, resp.Total)

	// Records without an id get one above the reserved range.
	meal, err := eng.Meal("21")
	require.NoError(t, err)
	assert.Equal(t, "Misal Pav", meal.Name)

	meal, err = eng.Meal("100")
	require.NoError(t, err)
	assert.Equal(t, "Sol Kadhi", meal.Name)
}

func TestDatasetHandler_AddRecords_ValidationFailure(t *testing.T) {
	router, eng := testDatasetRouter(t, t.TempDir())

	w := postJSON(t, router, "/datasets/records", []models.MealRecord{
		{Name: ""},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 4, eng.CatalogSize())
}

func TestDatasetHandler_Reload_FromCSV(t *testing.T) {
	dir := t.TempDir()
	csv := "id,name\n70,Thalipeeth\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "meals.csv"), []byte(csv), 0o644))

	router, eng := testDatasetRouter(t, dir)

	req := httptest.NewRequest(http.MethodPost, "/admin/catalog/reload", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1, eng.CatalogSize())
}
