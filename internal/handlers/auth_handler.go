package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/breezedunord/tyms-backend/config"
	"github.com/breezedunord/tyms-backend/internal/middleware"
	"github.com/breezedunord/tyms-backend/internal/services"
)

// AuthHandler handles the Tyms OAuth flow endpoints
type AuthHandler struct {
	authService services.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// Authorize returns the provider URL the browser should redirect to
func (h *AuthHandler) Authorize(c *gin.Context) {
	log.Printf("AuthHandler.Authorize: called for %s", c.Request.URL.Path)

	redirectURL, err := h.authService.AuthorizeURL(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrMissingCredentials) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Missing client ID or secret key"})
			return
		}
		log.Printf("AuthHandler.Authorize: error during authentication: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Authentication failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"redirectUrl": redirectURL})
}

// Callback completes the OAuth flow: it exchanges the authorization code for
// a token pair, persists both tokens as cookies, and redirects to the
// dashboard. Failures redirect back to the login page with an error query
// parameter instead of an error body.
func (h *AuthHandler) Callback(c *gin.Context) {
	log.Printf("AuthHandler.Callback: called for %s", c.Request.URL.Path)

	authorizationCode := c.Query("authorization_code")
	businessID := c.Query("business_id")

	if authorizationCode == "" || businessID == "" {
		log.Printf("AuthHandler.Callback: missing required parameters")
		c.Redirect(http.StatusFound, h.cfg.FrontendURL+"/login?error=missing_params")
		return
	}

	tokens, err := h.authService.ExchangeCode(c.Request.Context(), authorizationCode, businessID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidTokenResponse) {
			log.Printf("AuthHandler.Callback: missing tokens in response")
			c.Redirect(http.StatusFound, h.cfg.FrontendURL+"/login?error=invalid_token_response")
			return
		}
		log.Printf("AuthHandler.Callback: error exchanging token: %v", err)
		c.Redirect(http.StatusFound, h.cfg.FrontendURL+"/login?error=token_exchange_failed")
		return
	}

	middleware.SetTokenCookies(c, h.cfg, tokens)
	c.Redirect(http.StatusFound, h.cfg.FrontendURL+"/dashboard")
}

// Logout clears both token cookies
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ClearTokenCookies(c, h.cfg)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// RegisterRoutes registers the auth routes
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.GET("/tyms", h.Authorize)
		auth.GET("/tyms/callback", h.Callback)
		auth.POST("/logout", h.Logout)
	}
}
