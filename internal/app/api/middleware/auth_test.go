package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfgpkg "github.com/platewise/platewise/pkg/config"
	types "github.com/platewise/platewise/pkg/types"
)

const testJWTSecret = "test-jwt-secret"

func testConfig() *cfgpkg.Config {
	cfg := &cfgpkg.Config{}
	cfg.Auth.JWTSecret = testJWTSecret
	return cfg
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

type capturedIdentity struct {
	userID, role string
}

func authTestRouter() (*gin.Engine, *capturedIdentity) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	captured := &capturedIdentity{}
	r.GET("/protected", AuthMiddleware(testConfig()), func(c *gin.Context) {
		captured.userID = c.GetString("user_id")
		captured.role = c.GetString("role")
		c.JSON(http.StatusOK, gin.H{"user_id": captured.userID, "role": captured.role})
	})
	return r, captured
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not a bearer token",
			authHeader: "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			authHeader: "Bearer not.a.jwt",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "wrong secret",
			authHeader: "Bearer " + func() string {
				token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1"})
				s, _ := token.SignedString([]byte("other-secret"))
				return s
			}(),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid token",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := authTestRouter()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			header := tt.authHeader
			if tt.name == "valid token" {
				header = "Bearer " + signToken(t, testJWTSecret, jwt.MapClaims{
					"sub":   "u1",
					"role":  "user",
					"email": "u1@example.com",
					"exp":   time.Now().Add(time.Hour).Unix(),
				})
			}
			req.Header.Set("Authorization", header)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAuthMiddleware_RejectsExpiredToken(t *testing.T) {
	r, _ := authTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testJWTSecret, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_RejectsMissingSubject(t *testing.T) {
	r, _ := authTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testJWTSecret, jwt.MapClaims{
		"role": "admin",
	}))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_DefaultsRole(t *testing.T) {
	r, captured := authTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testJWTSecret, jwt.MapClaims{
		"sub": "u1",
	}))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(types.UserRoleUser), captured.role)
	assert.Equal(t, "u1", captured.userID)
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(role string) *gin.Engine {
		r := gin.New()
		r.GET("/admin",
			func(c *gin.Context) { c.Set("role", role) },
			RequireRole(types.UserRoleAdmin),
			func(c *gin.Context) { c.Status(http.StatusOK) },
		)
		return r
	}

	tests := []struct {
		role       string
		wantStatus int
	}{
		{role: "admin", wantStatus: http.StatusOK},
		{role: "user", wantStatus: http.StatusForbidden},
		{role: "nutritionist", wantStatus: http.StatusForbidden},
		{role: "", wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run("role_"+tt.role, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			w := httptest.NewRecorder()
			newRouter(tt.role).ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
