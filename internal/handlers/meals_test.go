package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/culinaryai/culinaryai/internal/catalog"
	"github.com/culinaryai/culinaryai/internal/engine"
	"github.com/culinaryai/culinaryai/pkg/models"
)

func testMealRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	cfg := testConfig()
	store, err := catalog.NewStore(testCatalog(), nil)
	require.NoError(t, err)
	h := NewMealHandler(engine.New(store, cfg.Engine, logger), logger)

	router := gin.New()
	router.GET("/meals", h.List)
	router.GET("/meals/:id", h.Get)
	return router
}

func TestMealHandler_List(t *testing.T) {
	router := testMealRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/meals", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Meals []models.MealRecord `json:"meals"`
		Count int                 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Count)
	assert.Len(t, resp.Meals, 4)
}

func TestMealHandler_Get(t *testing.T) {
	router := testMealRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/meals/2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var meal models.MealRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meal))
	assert.Equal(t, "Dal Tadka", meal.Name)
}

func TestMealHandler_Get_NotFound(t *testing.T) {
	router := testMealRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/meals/999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
