package services

import (
	"context"
	"encoding/json"
	"log"

	"github.com/breezedunord/tyms-backend/internal/tyms"
)

// SalesService handles sale creation and turnover reporting against Tyms
type SalesService interface {
	CreateSale(ctx context.Context, session *Session, req tyms.SaleRequest) (json.RawMessage, error)
	Turnover(ctx context.Context, session *Session) (float64, error)
}

type salesService struct {
	client tyms.API
	auth   AuthService
}

// NewSalesService creates a new SalesService
func NewSalesService(client tyms.API, auth AuthService) SalesService {
	return &salesService{
		client: client,
		auth:   auth,
	}
}

// CreateSale forwards a validated sale to Tyms through the 401-retry wrapper
func (s *salesService) CreateSale(ctx context.Context, session *Session, req tyms.SaleRequest) (json.RawMessage, error) {
	var result json.RawMessage
	err := s.auth.WithRetry(ctx, session, func(accessToken string) error {
		var callErr error
		result, callErr = s.client.CreateSale(ctx, accessToken, req)
		return callErr
	})
	if err != nil {
		return nil, err
	}

	log.Printf("SalesService.CreateSale: created sale %q", req.Title)
	return result, nil
}

// Turnover sums the amount across all provider-side sales
func (s *salesService) Turnover(ctx context.Context, session *Session) (float64, error) {
	var sales []tyms.Sale
	err := s.auth.WithRetry(ctx, session, func(accessToken string) error {
		var callErr error
		sales, callErr = s.client.ListSales(ctx, accessToken)
		return callErr
	})
	if err != nil {
		return 0, err
	}

	var turnover float64
	for _, sale := range sales {
		turnover += sale.Amount
	}
	return turnover, nil
}
