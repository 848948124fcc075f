package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cart-bff/middleware"
	"cart-bff/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identityRouter(captured *models.CartSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Identity())
	r.GET("/cart", func(c *gin.Context) {
		*captured = middleware.SourceFromContext(c)
		c.Status(http.StatusOK)
	})
	return r
}

func mintToken(t *testing.T, secret, typ, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"typ": typ,
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestIdentity_NoTokenIssuesGuestID(t *testing.T) {
	var src models.CartSource
	r := identityRouter(&src)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, src.UserID)
	assert.NotEmpty(t, src.GuestID)
	assert.Equal(t, src.GuestID, w.Header().Get(middleware.GuestIDHeader))
}

func TestIdentity_InvalidTokenStillReachesHandlerAsGuest(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	var src models.CartSource
	r := identityRouter(&src)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, src.UserID)
	assert.NotEmpty(t, src.GuestID)
	assert.Equal(t, src.GuestID, w.Header().Get(middleware.GuestIDHeader))
}

func TestIdentity_WrongTokenTypeFallsBackToGuest(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	var src models.CartSource
	r := identityRouter(&src)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "test-secret", "refresh", "user-1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, src.UserID)
}

func TestIdentity_ValidTokenSetsUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	var src models.CartSource
	r := identityRouter(&src)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "test-secret", "access", "user-1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", src.UserID)
	assert.NotEmpty(t, src.GuestID)
}

func TestIdentity_EchoesExistingGuestID(t *testing.T) {
	var src models.CartSource
	r := identityRouter(&src)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set(middleware.GuestIDHeader, "guest-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "guest-42", src.GuestID)
	assert.Equal(t, "guest-42", w.Header().Get(middleware.GuestIDHeader))
}

func TestRequireUser_RejectsGuestsWithReauth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Identity(), middleware.RequireUser())
	r.GET("/favorites", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/favorites", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"reauth":true`)
}

func TestRequireUser_PassesAuthenticatedCaller(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Identity(), middleware.RequireUser())
	r.GET("/favorites", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/favorites", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "test-secret", "access", "user-1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
