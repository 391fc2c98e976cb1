package tyms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// API is the outbound surface of the Tyms invoicing provider. Services
// depend on this interface so tests can substitute a stub.
type API interface {
	AuthorizationURL(ctx context.Context) (string, error)
	ExchangeCode(ctx context.Context, authorizationCode, businessID string) (Credentials, error)
	RefreshToken(ctx context.Context, refreshToken string) (Credentials, error)
	CreateSale(ctx context.Context, accessToken string, req SaleRequest) (json.RawMessage, error)
	CreateInvoice(ctx context.Context, accessToken string, req InvoiceRequest) (json.RawMessage, error)
	ListInvoices(ctx context.Context, accessToken string) ([]json.RawMessage, error)
	ListSales(ctx context.Context, accessToken string) ([]Sale, error)
}

// ClientConfig holds the static credentials and endpoints for the client
type ClientConfig struct {
	BaseURL     string
	ClientID    string
	SecretKey   string
	RedirectURI string
	TermsURL    string
	PrivacyURL  string
	Reference   string
}

// Client is the HTTP implementation of API. Every request carries the static
// secret-key header; token-bearing calls additionally send a bearer token.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
}

// NewClient creates a Tyms API client
func NewClient(cfg ClientConfig) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// AuthorizationURL asks Tyms for the URL the user must visit to authorize
// the integration
func (c *Client) AuthorizationURL(ctx context.Context) (string, error) {
	params := url.Values{}
	params.Set("reference", c.cfg.Reference)
	params.Set("client_id", c.cfg.ClientID)
	params.Set("redirect_uri", c.cfg.RedirectURI)
	params.Set("terms_url", c.cfg.TermsURL)
	params.Set("privacy_url", c.cfg.PrivacyURL)

	env, err := c.do(ctx, http.MethodGet, "/oauth/authorization?"+params.Encode(), "", nil)
	if err != nil {
		return "", err
	}

	var redirectURL string
	if err := json.Unmarshal(env.Data, &redirectURL); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return redirectURL, nil
}

// ExchangeCode trades an authorization code for a token pair
func (c *Client) ExchangeCode(ctx context.Context, authorizationCode, businessID string) (Credentials, error) {
	body := map[string]string{
		"authorization_code": authorizationCode,
		"business_id":        businessID,
	}

	env, err := c.do(ctx, http.MethodPost, "/oauth/access/token", "", body)
	if err != nil {
		return Credentials{}, err
	}

	// The tokens are nested in the envelope's data property
	var creds Credentials
	if err := json.Unmarshal(env.Data, &creds); err != nil {
		return Credentials{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return creds, nil
}

// RefreshToken exchanges a refresh token for fresh credentials. Unlike the
// code exchange, this endpoint returns the tokens at the top level of the
// response body.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (Credentials, error) {
	body := map[string]string{"refresh_token": refreshToken}

	raw, err := c.doRaw(ctx, http.MethodPost, "/oauth/refresh/token", "", body)
	if err != nil {
		return Credentials{}, err
	}

	var creds Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return Credentials{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return creds, nil
}

// CreateSale records a sale in Tyms
func (c *Client) CreateSale(ctx context.Context, accessToken string, req SaleRequest) (json.RawMessage, error) {
	return c.doRaw(ctx, http.MethodPost, "/create/sales", accessToken, req)
}

// CreateInvoice creates an invoice in Tyms
func (c *Client) CreateInvoice(ctx context.Context, accessToken string, req InvoiceRequest) (json.RawMessage, error) {
	return c.doRaw(ctx, http.MethodPost, "/create/invoice", accessToken, req)
}

// ListInvoices fetches the provider-side invoice list, unwrapped from the
// paginated envelope
func (c *Client) ListInvoices(ctx context.Context, accessToken string) ([]json.RawMessage, error) {
	env, err := c.do(ctx, http.MethodGet, "/invoices", accessToken, nil)
	if err != nil {
		return nil, err
	}

	var invoices []json.RawMessage
	if err := unwrapPage(env, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

// ListSales fetches the provider-side sales list
func (c *Client) ListSales(ctx context.Context, accessToken string) ([]Sale, error) {
	env, err := c.do(ctx, http.MethodGet, "/sales", accessToken, nil)
	if err != nil {
		return nil, err
	}

	var sales []Sale
	if err := unwrapPage(env, &sales); err != nil {
		return nil, err
	}
	return sales, nil
}

// unwrapPage decodes the nested data.data list carried by list endpoints
func unwrapPage(env *envelope, dst any) error {
	if env.Status != "success" {
		return fmt.Errorf("%w: unexpected status %q", ErrMalformedResponse, env.Status)
	}
	var p page
	if err := json.Unmarshal(env.Data, &p); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := json.Unmarshal(p.Data, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// do sends a request and decodes the standard response envelope
func (c *Client) do(ctx context.Context, method, path, accessToken string, body any) (*envelope, error) {
	raw, err := c.doRaw(ctx, method, path, accessToken, body)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &env, nil
}

// doRaw sends a request and returns the response body verbatim. Non-2xx
// responses become an *UpstreamError carrying the status and body.
func (c *Client) doRaw(ctx context.Context, method, path, accessToken string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("tyms: marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("tyms: build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("secret-key", c.cfg.SecretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tyms: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tyms: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: data}
	}

	return data, nil
}
