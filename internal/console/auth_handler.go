package console

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Alejano1/GestInvLab-proyecto/internal/gateway"
	"github.com/Alejano1/GestInvLab-proyecto/internal/rate_limiter"
	"github.com/Alejano1/GestInvLab-proyecto/internal/session"
	"github.com/Alejano1/GestInvLab-proyecto/pkg/models"
	"github.com/Alejano1/GestInvLab-proyecto/pkg/roles"
	"github.com/Alejano1/GestInvLab-proyecto/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Authenticator interface {
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error)
}

type AuthHandler struct {
	responder
	auth        Authenticator
	issuer      *session.Issuer
	rateLimiter *rate_limiter.RateLimiter
}

func NewAuthHandler(auth Authenticator, store *session.Store, issuer *session.Issuer, rateLimiter *rate_limiter.RateLimiter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		responder:   responder{store: store, logger: logger},
		auth:        auth,
		issuer:      issuer,
		rateLimiter: rateLimiter,
	}
}

func (h *AuthHandler) RegisterPublicRoutes(router *gin.Engine) {
	router.POST("/auth/login", h.Login)
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/auth/logout", h.Logout)
	router.GET("/auth/me", h.Me)
}

func (h *AuthHandler) Login(c *gin.Context) {
	// ClientIP only honours forwarding headers from the engine's trusted proxies
	clientKey := c.ClientIP()
	if !h.rateLimiter.IsAllowed(clientKey) {
		remaining := h.rateLimiter.GetRemainingRequests(clientKey)
		resetAt := time.Now().Add(h.rateLimiter.Window()).Format(time.RFC3339)
		c.Header("X-RateLimit-Limit", strconv.Itoa(h.rateLimiter.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", resetAt)
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":     "Too many login attempts. Try again later.",
			"remaining": remaining,
			"reset_at":  resetAt,
		})
		return
	}

	var req models.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	auth, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, gateway.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}
		h.respondError(c, err)
		return
	}

	username := auth.Username
	if username == "" {
		username = req.Username
	}
	ws := h.store.Create(username, auth.Token, auth.IsStaff)

	token, err := h.issuer.Issue(ws)
	if err != nil {
		h.store.Delete(ws.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue session"})
		return
	}

	h.rateLimiter.Reset(clientKey)
	setSessionCookie(c, token, int(h.issuer.TTL().Seconds()))
	h.logger.Info("Login", zap.String("username", ws.Username), zap.String("role", ws.Role.String()))

	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"username": ws.Username,
		"is_staff": auth.IsStaff,
		"role":     ws.Role,
	})
}

// Logout drops the workspace with its draft and report; nothing is kept.
func (h *AuthHandler) Logout(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	h.store.Delete(ws.ID)
	clearSessionCookie(c)
	h.logger.Info("Logout", zap.String("username", ws.Username))

	c.JSON(http.StatusOK, gin.H{"redirect": security.LoginPath})
}

func (h *AuthHandler) Me(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username": ws.Username,
		"role":     ws.Role,
		"is_staff": ws.Role == roles.Staff,
		"screen":   ws.Screen(),
	})
}
