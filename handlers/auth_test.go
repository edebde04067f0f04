package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/folio-studio/portfolio-api/internal/config"
	"github.com/folio-studio/portfolio-api/internal/sessions"
	"github.com/folio-studio/portfolio-api/internal/tokens"
	"github.com/folio-studio/portfolio-api/internal/users"
	"github.com/folio-studio/portfolio-api/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(env string) *config.Config {
	cfg := &config.Config{}
	cfg.Server.Environment = env
	cfg.JWT.Secret = "handler-test-secret"
	cfg.JWT.TTL = time.Hour
	cfg.JWT.CookieName = "jwt"
	return cfg
}

func newAuthRouter(cfg *config.Config) (*gin.Engine, *users.Service) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	uSvc := users.NewService(users.NewMemoryUserRepository())
	NewAuthHandler(cfg, uSvc).Register(r.Group("/api"), nil)

	protect := middleware.AuthMiddleware(tokens.NewHMACVerifier(cfg), cfg.JWT.CookieName, uSvc.IsAdmin)
	r.GET("/api/private", protect, func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	return r, uSvc
}

func postJSON(r http.Handler, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "jwt" {
			return ck
		}
	}
	t.Fatalf("no jwt cookie in response")
	return nil
}

func TestSeedOnlyOnce(t *testing.T) {
	r, _ := newAuthRouter(testConfig("development"))

	w := postJSON(r, "/api/auth/seed", gin.H{"name": "Owner", "email": "owner@example.com", "password": "pw"})
	require.Equal(t, http.StatusCreated, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "owner@example.com", body["email"])
	assert.NotEmpty(t, body["_id"])
	assert.NotEmpty(t, sessionCookie(t, w).Value)

	w = postJSON(r, "/api/auth/seed", gin.H{"email": "other@example.com", "password": "pw"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Admin already exists"}`, w.Body.String())

	w = postJSON(r, "/api/auth/seed", gin.H{"email": "not-an-email", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginCookieAttributes(t *testing.T) {
	r, uSvc := newAuthRouter(testConfig("production"))
	_, err := uSvc.SeedAdmin(context.Background(), "", "owner@example.com", "pw")
	require.NoError(t, err)

	w := postJSON(r, "/api/auth/login", gin.H{"email": "owner@example.com", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Invalid credentials"}`, w.Body.String())

	w = postJSON(r, "/api/auth/login", gin.H{"email": "nobody@example.com", "password": "pw"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(r, "/api/auth/login", gin.H{"email": "owner@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(r, "/api/auth/login", gin.H{"email": "owner@example.com", "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code)
	ck := sessionCookie(t, w)
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure)
	assert.Equal(t, http.SameSiteNoneMode, ck.SameSite)
	assert.Equal(t, int(time.Hour/time.Second), ck.MaxAge)
}

func TestLoginDevelopmentCookieIsLax(t *testing.T) {
	r, uSvc := newAuthRouter(testConfig("development"))
	_, err := uSvc.SeedAdmin(context.Background(), "", "owner@example.com", "pw")
	require.NoError(t, err)

	w := postJSON(r, "/api/auth/login", gin.H{"email": "owner@example.com", "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code)
	ck := sessionCookie(t, w)
	assert.False(t, ck.Secure)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)
}

func TestLogoutRevokesToken(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	sessions.SetRevocationClient(redis.NewClient(&redis.Options{Addr: m.Addr()}))
	defer sessions.SetRevocationClient(nil)

	r, uSvc := newAuthRouter(testConfig("development"))
	_, err = uSvc.SeedAdmin(context.Background(), "", "owner@example.com", "pw")
	require.NoError(t, err)

	w := postJSON(r, "/api/auth/login", gin.H{"email": "owner@example.com", "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code)
	ck := sessionCookie(t, w)

	req := httptest.NewRequest(http.MethodGet, "/api/private", nil)
	req.AddCookie(ck)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(r, "/api/auth/logout", nil, ck)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Logged out"}`, w.Body.String())
	cleared := sessionCookie(t, w)
	assert.Empty(t, cleared.Value)
	assert.True(t, cleared.MaxAge < 0)

	req = httptest.NewRequest(http.MethodGet, "/api/private", nil)
	req.AddCookie(ck)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Token invalid or expired"}`, w.Body.String())
}

func TestLogoutWithoutSession(t *testing.T) {
	r, _ := newAuthRouter(testConfig("development"))
	w := postJSON(r, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
