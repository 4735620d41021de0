package security

import (
	"net/http"
	"strings"

	"github.com/Alejano1/GestInvLab-proyecto/internal/session"
	"github.com/Alejano1/GestInvLab-proyecto/pkg/roles"

	"github.com/gin-gonic/gin"
)

const (
	SessionCookie = "gestinv_session"
	WorkspaceKey  = "workspace"
	RoleKey       = "role"
	UsernameKey   = "username"
	LoginPath     = "/login"
)

// SessionMiddleware resolves the signed session cookie (or a Bearer header
// carrying the same token) to a live workspace.
func SessionMiddleware(issuer *session.Issuer, store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(SessionCookie)
		if err != nil || tokenString == "" {
			tokenString = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}
		if tokenString == "" {
			Unauthorized(c, "Session cookie missing")
			return
		}

		claims, err := issuer.Parse(tokenString)
		if err != nil {
			Unauthorized(c, "Invalid session")
			return
		}

		ws, ok := store.Get(claims.WorkspaceID)
		if !ok {
			Unauthorized(c, "Session expired")
			return
		}

		c.Set(WorkspaceKey, ws)
		c.Set(RoleKey, ws.Role)
		c.Set(UsernameKey, ws.Username)
		c.Next()
	}
}

// Unauthorized answers 401 and points the browser back at the login screen.
func Unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message, "redirect": LoginPath})
}

// Authorize ensures the workspace has the required role.
func Authorize(requiredRole roles.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(RoleKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions"})
			return
		}
		userRole, ok := role.(roles.Role)
		if !ok {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Invalid role format"})
			return
		}

		if !userRole.IsValid() || !userRole.HasPermission(requiredRole) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions"})
			return
		}

		c.Next()
	}
}

// CurrentWorkspace returns the workspace set by SessionMiddleware.
func CurrentWorkspace(c *gin.Context) (*session.Workspace, bool) {
	value, exists := c.Get(WorkspaceKey)
	if !exists {
		return nil, false
	}
	ws, ok := value.(*session.Workspace)
	return ws, ok
}
