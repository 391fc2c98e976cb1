package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/breezedunord/tyms-backend/config"
	"github.com/breezedunord/tyms-backend/internal/middleware"
	"github.com/breezedunord/tyms-backend/internal/services"
	"github.com/breezedunord/tyms-backend/internal/tyms"
)

// persistSession rewrites the token cookies whenever the request's token pair
// was refreshed. The refresh may have rotated the refresh token, so the new
// pair must reach the browser no matter how the request itself ends.
func persistSession(c *gin.Context, cfg *config.Config, session *services.Session) {
	if session != nil && session.Refreshed {
		middleware.SetTokenCookies(c, cfg, session.Tokens)
	}
}

// respondError maps a service error onto the JSON error envelope. Upstream
// failures keep the provider's status and carry its body as details; auth
// failures collapse to a plain 401 so token state never leaks.
func respondError(c *gin.Context, err error, fallback string) {
	var upstream *tyms.UpstreamError
	var mailErr *services.MailError

	switch {
	case errors.Is(err, services.ErrNoRefreshToken),
		errors.Is(err, services.ErrAuthenticationFailed):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})

	case errors.As(err, &mailErr):
		status := http.StatusInternalServerError
		if mailErr.Kind == services.MailErrorRecipientRejected {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": mailErr.Message(), "details": mailErr.Err.Error()})

	case errors.As(err, &upstream):
		c.JSON(upstream.StatusCode, gin.H{"error": fallback, "details": upstream.Details()})

	case errors.Is(err, tyms.ErrMalformedResponse):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid JSON in Tyms API response"})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback, "details": err.Error()})
	}
}
