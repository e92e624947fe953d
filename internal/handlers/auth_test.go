package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/culinaryai/culinaryai/internal/config"
	"github.com/culinaryai/culinaryai/internal/services"
	"github.com/culinaryai/culinaryai/pkg/models"
)

func testAuthRouter(t *testing.T, apiKey string) (*gin.Engine, *services.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret: "test-secret",
			APIKey:    apiKey,
			TokenTTL:  time.Hour,
		},
	}
	authService := services.NewAuthService(cfg, logger)
	h := NewAuthHandler(authService, cfg, logger)

	router := gin.New()
	router.POST("/auth/token", h.Token)
	return router, authService
}

func TestAuthHandler_Token(t *testing.T) {
	router, authService := testAuthRouter(t, "secret-key")

	w := postJSON(t, router, "/auth/token", models.AuthRequest{APIKey: "secret-key"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), resp.ExpiresAt, time.Minute)

	claims, err := authService.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.NotEqual(t, "", claims.UserID.String())
}

func TestAuthHandler_Token_ExplicitUserID(t *testing.T) {
	router, authService := testAuthRouter(t, "secret-key")

	w := postJSON(t, router, "/auth/token", models.AuthRequest{
		APIKey: "secret-key",
		UserID: "a2f5c1e0-7b69-4f7e-9d44-0a1b2c3d4e5f",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	claims, err := authService.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "a2f5c1e0-7b69-4f7e-9d44-0a1b2c3d4e5f", claims.UserID.String())
}

func TestAuthHandler_Token_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		apiKey     string
		body       interface{}
		wantStatus int
	}{
		{
			name:       "wrong api key",
			apiKey:     "secret-key",
			body:       models.AuthRequest{APIKey: "wrong"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "no api key configured",
			apiKey:     "",
			body:       models.AuthRequest{APIKey: ""},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty key never matches when unconfigured",
			apiKey:     "",
			body:       models.AuthRequest{APIKey: "anything"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid user id",
			apiKey:     "secret-key",
			body:       models.AuthRequest{APIKey: "secret-key", UserID: "not-a-uuid"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := testAuthRouter(t, tt.apiKey)
			w := postJSON(t, router, "/auth/token", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
