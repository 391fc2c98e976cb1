package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/breezedunord/tyms-backend/config"
	"github.com/breezedunord/tyms-backend/internal/models"
	"github.com/breezedunord/tyms-backend/internal/services"
)

// Cookie names for the Tyms token pair
const (
	AccessTokenCookie  = "tyms_access_token"
	RefreshTokenCookie = "tyms_refresh_token"
)

// SessionKey is the context key under which the request session is stored
const SessionKey = "session"

// TokenSession builds the request's token session from cookies and rejects
// unauthenticated requests. A request without a refresh token is never
// authenticated, even if an access token cookie is present; a request with
// only a refresh token proceeds so the first provider call can refresh.
func TokenSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken, _ := c.Cookie(AccessTokenCookie)
		refreshToken, _ := c.Cookie(RefreshTokenCookie)

		if refreshToken == "" {
			log.Printf("TokenSession: no refresh token for %s %s", c.Request.Method, c.Request.URL.Path)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		session := &services.Session{
			Tokens: models.TokenPair{
				AccessToken:  accessToken,
				RefreshToken: refreshToken,
			},
		}
		c.Set(SessionKey, session)
		c.Next()
	}
}

// SessionFromContext returns the token session placed by TokenSession
func SessionFromContext(c *gin.Context) *services.Session {
	obj, exists := c.Get(SessionKey)
	if !exists {
		return nil
	}
	session, ok := obj.(*services.Session)
	if !ok {
		return nil
	}
	return session
}

// SetTokenCookies writes both token cookies with the attributes the token
// store requires: httpOnly, secure in production, SameSite=Strict, root path
func SetTokenCookies(c *gin.Context, cfg *config.Config, tokens models.TokenPair) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		AccessTokenCookie,
		tokens.AccessToken,
		int(cfg.AccessTokenDuration.Seconds()),
		"/",
		"",
		cfg.IsProduction(),
		true,
	)
	c.SetCookie(
		RefreshTokenCookie,
		tokens.RefreshToken,
		int(cfg.RefreshTokenDuration.Seconds()),
		"/",
		"",
		cfg.IsProduction(),
		true,
	)
}

// ClearTokenCookies removes both token cookies, returning the browser to the
// fully absent state
func ClearTokenCookies(c *gin.Context, cfg *config.Config) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", cfg.IsProduction(), true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", "", cfg.IsProduction(), true)
}
