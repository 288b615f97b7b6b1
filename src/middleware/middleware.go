// Package middleware holds the gin guards shared by the route groups.
package middleware

import (
	"crypto/subtle"
	"strings"
	"time"

	"nefllix/src/config"
	authServices "nefllix/src/modules/auth/services"
	profiles "nefllix/src/modules/profiles/models"
	profileServices "nefllix/src/modules/profiles/services"
	users "nefllix/src/modules/users/models"
	"nefllix/src/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const (
	SessionCookie      = "session_token"
	ProfileTokenHeader = "X-Profile-Token"
	AdminKeyHeader     = "X-Admin-Key"

	userIDKey       = "user_id"
	userKey         = "user"
	sessionTokenKey = "session_token"
	profileKey      = "profile"
)

// CORS admits credentialed cross-site requests only from the configured
// origins. Other origins are refused with 403.
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOriginFunc:  func(origin string) bool { return config.App.OriginAllowed(origin) },
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", AdminKeyHeader, ProfileTokenHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// ExtractSessionToken reads the bearer header, then the cookie, then the
// token query parameter used by websocket clients.
func ExtractSessionToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	return c.Query("token")
}

func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractSessionToken(c)
		session, user, err := authServices.GetSessionAndUser(c.Request.Context(), token)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.Set(userIDKey, user.ID)
		c.Set(userKey, user)
		c.Set(sessionTokenKey, session.SessionToken)
		c.Next()
	}
}

// RequireAdminKey rejects every request when no admin key is configured.
func RequireAdminKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		expected := config.App.AdminAPIKey
		given := c.GetHeader(AdminKeyHeader)
		if expected == "" || subtle.ConstantTimeCompare([]byte(given), []byte(expected)) != 1 {
			utils.RespondError(c, utils.NewUnauthorizedError("admin key required"))
			return
		}
		c.Next()
	}
}

// RequireProfileAccess must run after RequireSession.
func RequireProfileAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(ProfileTokenHeader)
		if token == "" {
			token = c.Query("profileToken")
		}
		profile, err := profileServices.AuthorizeProfile(c.Request.Context(), UserID(c), c.Param("profileId"), token)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.Set(profileKey, profile)
		c.Next()
	}
}

func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func SessionToken(c *gin.Context) string {
	return c.GetString(sessionTokenKey)
}

func CurrentUser(c *gin.Context) *users.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*users.User); ok {
			return u
		}
	}
	return nil
}

func CurrentProfile(c *gin.Context) *profiles.Profile {
	if v, ok := c.Get(profileKey); ok {
		if p, ok := v.(*profiles.Profile); ok {
			return p
		}
	}
	return nil
}
