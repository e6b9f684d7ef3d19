package middleware_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loganpetree/homesellphotography/internal/api/middleware"
	"github.com/loganpetree/homesellphotography/internal/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

const secret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestAuthenticate(t *testing.T) {
	cfg := middleware.AuthConfig{JWTSecret: secret, APIKeys: []string{"key-1", ""}}

	valid := signToken(t, jwt.SigningMethodHS256, []byte(secret), jwt.RegisteredClaims{
		Subject:   "operator",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	expired := signToken(t, jwt.SigningMethodHS256, []byte(secret), jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	wrongKey := signToken(t, jwt.SigningMethodHS256, []byte("other"), jwt.RegisteredClaims{})
	hs512 := signToken(t, jwt.SigningMethodHS512, []byte(secret), jwt.RegisteredClaims{})

	tests := []struct {
		name     string
		header   string
		success  bool
		authType string
		subject  string
	}{
		{"valid jwt", "Bearer " + valid, true, "jwt", "operator"},
		{"lowercase scheme", "bearer " + valid, true, "jwt", "operator"},
		{"expired jwt", "Bearer " + expired, false, "", ""},
		{"wrong secret", "Bearer " + wrongKey, false, "", ""},
		{"other algorithm", "Bearer " + hs512, false, "", ""},
		{"valid api key", "ApiKey key-1", true, "apikey", ""},
		{"empty api key", "ApiKey ", false, "", ""},
		{"unknown api key", "ApiKey nope", false, "", ""},
		{"missing header", "", false, "", ""},
		{"no scheme", "token", false, "", ""},
		{"basic auth", "Basic dXNlcjpwYXNz", false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := middleware.Authenticate(tt.header, cfg)
			assert.Equal(t, tt.success, result.Success)
			assert.Equal(t, tt.authType, result.AuthType)
			assert.Equal(t, tt.subject, result.AuthSubject)
			if !tt.success {
				assert.Error(t, result.Error)
			}
		})
	}
}

func TestAuthenticate_JWTNotConfigured(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, []byte(secret), jwt.RegisteredClaims{})
	result := middleware.Authenticate("Bearer "+token, middleware.AuthConfig{APIKeys: []string{"k"}})
	assert.False(t, result.Success)
	assert.EqualError(t, result.Error, "JWT secret not configured")
}

func TestAuthMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.GET("/private", middleware.Auth(middleware.AuthConfig{APIKeys: []string{"k"}}), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(string(middleware.AUTH_TYPE_KEY)))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"unauthorized"`)
	assert.NotEmpty(t, w.Header().Get(middleware.REQUEST_ID_HEADER))

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "ApiKey k")
	req.Header.Set(middleware.REQUEST_ID_HEADER, "req-1")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "apikey", w.Body.String())
	assert.Equal(t, "req-1", w.Header().Get(middleware.REQUEST_ID_HEADER))
}
