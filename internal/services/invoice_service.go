package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"

	"github.com/breezedunord/tyms-backend/internal/database/repository"
	"github.com/breezedunord/tyms-backend/internal/models"
	"github.com/breezedunord/tyms-backend/internal/tyms"
)

// InvoiceService handles invoice creation, listing, the local mirror, and
// invoice mail-out
type InvoiceService interface {
	CreateInvoice(ctx context.Context, session *Session, req tyms.InvoiceRequest) (json.RawMessage, error)
	ListInvoices(ctx context.Context, session *Session) ([]json.RawMessage, error)
	History(ctx context.Context, limit int) ([]*models.Invoice, error)
	SendInvoice(ctx context.Context, invoiceURL, title string, customer models.Customer) error
}

type invoiceService struct {
	client      tyms.API
	auth        AuthService
	invoiceRepo repository.InvoiceRepository
	mail        MailService
	archive     ArchiveService // nil when archiving is not configured
	pdfClient   *http.Client
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	client tyms.API,
	auth AuthService,
	invoiceRepo repository.InvoiceRepository,
	mail MailService,
	archive ArchiveService,
) InvoiceService {
	return &invoiceService{
		client:      client,
		auth:        auth,
		invoiceRepo: invoiceRepo,
		mail:        mail,
		archive:     archive,
		pdfClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// CreateInvoice creates the invoice in Tyms and mirrors it locally. Tyms is
// the system of record: a mirror write failure is logged and swallowed.
func (s *invoiceService) CreateInvoice(ctx context.Context, session *Session, req tyms.InvoiceRequest) (json.RawMessage, error) {
	var result json.RawMessage
	err := s.auth.WithRetry(ctx, session, func(accessToken string) error {
		var callErr error
		result, callErr = s.client.CreateInvoice(ctx, accessToken, req)
		return callErr
	})
	if err != nil {
		return nil, err
	}

	if mirrorErr := s.mirror(ctx, req, invoiceURLFrom(result)); mirrorErr != nil {
		log.Printf("InvoiceService.CreateInvoice: failed to mirror invoice locally: %v", mirrorErr)
	}

	log.Printf("InvoiceService.CreateInvoice: created invoice %q", req.Title)
	return result, nil
}

// ListInvoices fetches the provider-side invoice list
func (s *invoiceService) ListInvoices(ctx context.Context, session *Session) ([]json.RawMessage, error) {
	var invoices []json.RawMessage
	err := s.auth.WithRetry(ctx, session, func(accessToken string) error {
		var callErr error
		invoices, callErr = s.client.ListInvoices(ctx, accessToken)
		return callErr
	})
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

// History lists the locally mirrored invoices, newest first
func (s *invoiceService) History(ctx context.Context, limit int) ([]*models.Invoice, error) {
	return s.invoiceRepo.List(ctx, limit)
}

// SendInvoice fetches the invoice PDF and emails it to the customer. The
// archived copy is best-effort; a failed upload never blocks the email.
func (s *invoiceService) SendInvoice(ctx context.Context, invoiceURL, title string, customer models.Customer) error {
	pdf, err := s.fetchPDF(ctx, invoiceURL)
	if err != nil {
		return err
	}

	if s.archive != nil {
		archiveURL, archiveErr := s.archive.StorePDF(ctx, title, pdf)
		if archiveErr != nil {
			log.Printf("InvoiceService.SendInvoice: failed to archive PDF: %v", archiveErr)
		} else {
			log.Printf("InvoiceService.SendInvoice: archived PDF at %s", archiveURL)
		}
	}

	return s.mail.SendInvoicePDF(customer.Email, customer.Name, title, pdf)
}

// mirror writes the denormalized invoice copy used by the history endpoint
func (s *invoiceService) mirror(ctx context.Context, req tyms.InvoiceRequest, invoiceURL string) error {
	items, err := json.Marshal(req.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	customer, err := json.Marshal(req.Customer)
	if err != nil {
		return fmt.Errorf("marshal customer: %w", err)
	}

	var note *string
	if req.InvoiceNote != "" {
		note = &req.InvoiceNote
	}

	invoice := &models.Invoice{
		ID:          uuid.New(),
		Date:        req.Date,
		DueDate:     req.DueDate,
		Title:       req.Title,
		Items:       types.JSONText(items),
		Customer:    types.JSONText(customer),
		InvoiceNote: note,
		Amount:      req.Amount,
		ShippingFee: req.ShippingFee,
		Category:    req.Category,
		PaymentType: req.PaymentType,
		Invoiceable: req.Invoiceable,
		Currency:    req.Currency,
		InvoiceURL:  invoiceURL,
		CreatedAt:   time.Now(),
	}

	return s.invoiceRepo.Create(ctx, invoice)
}

// fetchPDF downloads the generated invoice PDF from the provider
func (s *invoiceService) fetchPDF(ctx context.Context, invoiceURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, invoiceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build PDF request: %w", err)
	}

	resp, err := s.pdfClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch invoice PDF: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch invoice PDF: unexpected status %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// invoiceURLFrom pulls the invoice_url out of a provider creation response,
// tolerating both enveloped and bare payloads
func invoiceURLFrom(raw json.RawMessage) string {
	var enveloped struct {
		Data struct {
			InvoiceURL string `json:"invoice_url"`
		} `json:"data"`
		InvoiceURL string `json:"invoice_url"`
	}
	if err := json.Unmarshal(raw, &enveloped); err != nil {
		return ""
	}
	if enveloped.Data.InvoiceURL != "" {
		return enveloped.Data.InvoiceURL
	}
	return enveloped.InvoiceURL
}
