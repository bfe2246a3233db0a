package controller

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/congress-network/congressx/app/valsvc/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestController(t *testing.T) *Controller {
	t.Helper()
	return &Controller{
		App:        &types.App{Logger: zaptest.NewLogger(t)},
		AdminToken: "test-token",
		JWTSecret:  []byte("test-secret"),
	}
}

func TestValidateToken(t *testing.T) {
	c := newTestController(t)

	r := httptest.NewRequest(http.MethodPost, "/validate", nil)
	require.False(t, c.ValidateToken(r))

	r.Header.Set("Authorization", "Bearer wrong")
	require.False(t, c.ValidateToken(r))

	r.Header.Set("Authorization", "Bearer test-token")
	require.True(t, c.ValidateToken(r))
}

func TestValidateSessionCookie(t *testing.T) {
	c := newTestController(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(c.JWTSecret)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/validate", nil)
	require.False(t, c.ValidateSessionCookie(r))

	r.AddCookie(&http.Cookie{Name: "cx_session", Value: signed})
	require.True(t, c.ValidateSessionCookie(r))

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signedExpired, err := expired.SignedString(c.JWTSecret)
	require.NoError(t, err)

	r2 := httptest.NewRequest(http.MethodPost, "/validate", nil)
	r2.AddCookie(&http.Cookie{Name: "cx_session", Value: signedExpired})
	require.False(t, c.ValidateSessionCookie(r2))
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	c := newTestController(t)
	handler := c.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/validate", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/validate", nil)
	r.Header.Set("Authorization", "Bearer test-token")
	handler.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestWithCORSPreflight(t *testing.T) {
	handler := WithCORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight should not reach the handler")
	}))

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodOptions, "/status", nil)
	r.Header.Set("Origin", "http://localhost:3000")
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRouterGatesMutatingRoutes(t *testing.T) {
	c := newTestController(t)
	router, err := c.NewRouter()
	require.NoError(t, err)

	for _, path := range []string{"/validate", "/promote"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
		require.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}
