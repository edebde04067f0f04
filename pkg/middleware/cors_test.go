package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newCORSRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SecurityHeaders(), CORS([]string{"http://localhost:5173", " https://folio.example "}))
	router.POST("/api/contact", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestCORS_Preflight(t *testing.T) {
	router := newCORSRouter()
	req := httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusNoContent, resp.Code)
	require.Equal(t, "http://localhost:5173", resp.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", resp.Header().Get("Access-Control-Allow-Credentials"))
	require.NotEmpty(t, resp.Header().Get("Access-Control-Allow-Methods"))
	require.Equal(t, "600", resp.Header().Get("Access-Control-Max-Age"))
}

func TestCORS_TrimmedOriginOnPost(t *testing.T) {
	router := newCORSRouter()
	req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
	req.Header.Set("Origin", "https://folio.example")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "https://folio.example", resp.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "nosniff", resp.Header().Get("X-Content-Type-Options"))
}

func TestCORS_UnknownOriginGetsNoHeaders(t *testing.T) {
	router := newCORSRouter()
	req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
	req.Header.Set("Origin", "https://evil.example")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Empty(t, resp.Header().Get("Access-Control-Allow-Origin"))
}
