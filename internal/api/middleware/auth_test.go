package middleware_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classledger/attendance/internal/api/middleware"
	"github.com/classledger/attendance/internal/logger"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}
	gin.SetMode(gin.TestMode)

	code := m.Run()
	os.Exit(code)
}

// authRouter builds a router with one protected route
func authRouter(cfg middleware.AuthConfig) *gin.Engine {
	router := gin.New()
	router.POST("/protected", middleware.Auth(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"subject": c.GetString(middleware.AuthSubjectKey)})
	})
	return router
}

func doAuth(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuth_DisabledIsNoOp(t *testing.T) {
	router := authRouter(middleware.AuthConfig{})

	w := doAuth(router, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuth_APIKey(t *testing.T) {
	router := authRouter(middleware.AuthConfig{APIKeys: []string{"secret-key"}})

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{name: "valid key", authHeader: "ApiKey secret-key", wantStatus: http.StatusOK},
		{name: "wrong key", authHeader: "ApiKey wrong", wantStatus: http.StatusUnauthorized},
		{name: "missing header", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "malformed header", authHeader: "secret-key", wantStatus: http.StatusUnauthorized},
		{name: "unsupported scheme", authHeader: "Basic secret-key", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doAuth(router, tt.authHeader)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAuth_JWT(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER}))

	router := authRouter(middleware.AuthConfig{JWTPublicKey: pubPEM})

	signToken := func(claims jwt.RegisteredClaims) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
		require.NoError(t, err)
		return token
	}

	t.Run("valid token", func(t *testing.T) {
		token := signToken(jwt.RegisteredClaims{
			Subject:   "instructor-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		w := doAuth(router, "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "instructor-1")
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(jwt.RegisteredClaims{
			Subject:   "instructor-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		})
		w := doAuth(router, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := doAuth(router, "Bearer not.a.jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("hmac token rejected", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject: "instructor-1",
		}).SignedString([]byte("shared-secret"))
		require.NoError(t, err)

		w := doAuth(router, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
