package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/folio-studio/portfolio-api/internal/config"
	"github.com/folio-studio/portfolio-api/internal/sessions"
	"github.com/folio-studio/portfolio-api/internal/tokens"
	"github.com/folio-studio/portfolio-api/internal/users"
	"github.com/folio-studio/portfolio-api/pkg/logger"
	"github.com/folio-studio/portfolio-api/pkg/middleware"
	"github.com/gin-gonic/gin"
)

// SeedRequest creates the admin account.
type SeedRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	cfg      *config.Config
	usersSvc *users.Service
}

func NewAuthHandler(cfg *config.Config, u *users.Service) *AuthHandler {
	return &AuthHandler{cfg: cfg, usersSvc: u}
}

// Register routes under /auth. loginLimit guards the login route only.
func (h *AuthHandler) Register(rg *gin.RouterGroup, loginLimit gin.HandlerFunc) {
	a := rg.Group("/auth")
	a.POST("/seed", h.Seed)
	if loginLimit != nil {
		a.POST("/login", loginLimit, h.Login)
	} else {
		a.POST("/login", h.Login)
	}
	a.POST("/logout", h.Logout)
}

// Seed creates the single admin account and signs it in.
func (h *AuthHandler) Seed(c *gin.Context) {
	var req SeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid admin data"})
		return
	}
	u, err := h.usersSvc.SeedAdmin(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrAdminExists):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Admin already exists"})
		case errors.Is(err, users.ErrInvalidAdminDetails):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid admin data"})
		default:
			logger.Errorf("seed admin: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		}
		return
	}
	token, err := tokens.GenerateAccessToken(h.cfg, u, h.cfg.JWT.TTL)
	if err != nil {
		logger.Errorf("sign token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	h.setCookie(c, token, h.cfg.JWT.TTL)
	logger.Infof("admin account %s created", u.Email)
	c.JSON(http.StatusCreated, gin.H{"_id": u.ID, "email": u.Email, "name": u.Name})
}

// Login checks credentials and sets the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
		return
	}
	u, err := h.usersSvc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		logger.Errorf("login lookup: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	token, err := tokens.GenerateAccessToken(h.cfg, u, h.cfg.JWT.TTL)
	if err != nil {
		logger.Errorf("sign token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	h.setCookie(c, token, h.cfg.JWT.TTL)
	c.JSON(http.StatusOK, gin.H{"message": "Authenticated", "_id": u.ID, "name": u.Name, "email": u.Email})
}

// Logout clears the cookie and revokes the presented token for the rest of its lifetime.
func (h *AuthHandler) Logout(c *gin.Context) {
	if raw := middleware.RawToken(c, h.cfg.JWT.CookieName); raw != "" {
		if exp, err := tokens.ExpiresAt(raw); err == nil {
			if err := sessions.RevokeAccessToken(c.Request.Context(), raw, time.Until(exp)); err != nil {
				logger.Errorf("revoke token: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
				return
			}
		}
	}
	h.setCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// setCookie writes the session cookie. ttl < 0 expires it.
func (h *AuthHandler) setCookie(c *gin.Context, value string, ttl time.Duration) {
	secure := h.cfg.Server.IsProduction()
	if secure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	maxAge := -1
	if ttl >= 0 {
		maxAge = int(ttl / time.Second)
	}
	c.SetCookie(h.cfg.JWT.CookieName, value, maxAge, "/", "", secure, true)
}
