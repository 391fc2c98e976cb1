package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/breezedunord/tyms-backend/internal/models"
	"github.com/breezedunord/tyms-backend/internal/tyms"
)

var (
	ErrMissingCredentials   = errors.New("missing client ID or secret key")
	ErrNoRefreshToken       = errors.New("no refresh token available")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrInvalidTokenResponse = errors.New("missing tokens in provider response")
)

// Session carries the token pair for a single request. Handlers rebuild it
// from cookies on the way in and rewrite the cookies on the way out whenever
// Refreshed is set.
type Session struct {
	Tokens    models.TokenPair
	Refreshed bool
}

// Call is a provider operation executed under the current access token
type Call func(accessToken string) error

// AuthService handles the Tyms OAuth flow and the token lifecycle
type AuthService interface {
	// AuthorizeURL returns the provider URL the user must visit to
	// authorize the integration
	AuthorizeURL(ctx context.Context) (string, error)

	// ExchangeCode trades the OAuth callback parameters for a token pair
	ExchangeCode(ctx context.Context, authorizationCode, businessID string) (models.TokenPair, error)

	// Refresh replaces the session's token pair using its refresh token
	Refresh(ctx context.Context, session *Session) error

	// WithRetry runs call under the session's access token, refreshing and
	// retrying exactly once on a 401
	WithRetry(ctx context.Context, session *Session, call Call) error
}

type authService struct {
	client     tyms.API
	clientID   string
	secretKey  string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(client tyms.API, clientID, secretKey string, accessTTL, refreshTTL time.Duration) AuthService {
	return &authService{
		client:     client,
		clientID:   clientID,
		secretKey:  secretKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// AuthorizeURL returns the provider's authorization redirect URL
func (s *authService) AuthorizeURL(ctx context.Context) (string, error) {
	if s.clientID == "" || s.secretKey == "" {
		return "", ErrMissingCredentials
	}

	redirectURL, err := s.client.AuthorizationURL(ctx)
	if err != nil {
		log.Printf("AuthService.AuthorizeURL: provider call failed: %v", err)
		return "", err
	}

	return redirectURL, nil
}

// ExchangeCode trades an authorization code for a token pair. A response
// missing either token is rejected: a pair is only ever fully present or
// fully absent.
func (s *authService) ExchangeCode(ctx context.Context, authorizationCode, businessID string) (models.TokenPair, error) {
	creds, err := s.client.ExchangeCode(ctx, authorizationCode, businessID)
	if err != nil {
		log.Printf("AuthService.ExchangeCode: token exchange failed: %v", err)
		return models.TokenPair{}, fmt.Errorf("exchange authorization code: %w", err)
	}

	if creds.AccessToken == "" || creds.RefreshToken == "" {
		log.Printf("AuthService.ExchangeCode: missing tokens in response")
		return models.TokenPair{}, ErrInvalidTokenResponse
	}

	return models.NewTokenPair(creds.AccessToken, creds.RefreshToken, s.accessTTL, s.refreshTTL), nil
}

// Refresh exchanges the session's refresh token for fresh credentials and
// replaces the stored pair wholesale. The old refresh token is retained when
// the provider does not return a new one.
func (s *authService) Refresh(ctx context.Context, session *Session) error {
	if session.Tokens.RefreshToken == "" {
		return ErrNoRefreshToken
	}

	creds, err := s.client.RefreshToken(ctx, session.Tokens.RefreshToken)
	if err != nil {
		log.Printf("AuthService.Refresh: provider rejected refresh token: %v", err)
		return fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}

	if creds.AccessToken == "" {
		return fmt.Errorf("%w: no access token in refresh response", ErrAuthenticationFailed)
	}

	refreshToken := creds.RefreshToken
	if refreshToken == "" {
		refreshToken = session.Tokens.RefreshToken
	}

	session.Tokens = models.NewTokenPair(creds.AccessToken, refreshToken, s.accessTTL, s.refreshTTL)
	session.Refreshed = true
	return nil
}

// WithRetry executes call with the session's access token. A missing access
// token triggers a refresh up front. A 401 triggers one refresh-and-retry;
// the retried result is returned unconditionally, and a second 401 becomes a
// hard authentication failure rather than another attempt.
func (s *authService) WithRetry(ctx context.Context, session *Session, call Call) error {
	if session.Tokens.AccessToken == "" {
		if err := s.Refresh(ctx, session); err != nil {
			return err
		}
	}

	err := call(session.Tokens.AccessToken)
	if !tyms.IsUnauthorized(err) {
		return err
	}

	log.Printf("AuthService.WithRetry: got 401, refreshing access token")
	if err := s.Refresh(ctx, session); err != nil {
		return err
	}

	err = call(session.Tokens.AccessToken)
	if tyms.IsUnauthorized(err) {
		log.Printf("AuthService.WithRetry: still 401 after refresh, giving up")
		return fmt.Errorf("%w: token rejected after refresh", ErrAuthenticationFailed)
	}
	return err
}
