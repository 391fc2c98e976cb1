package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/breezedunord/tyms-backend/internal/models"
)

// InvoiceRepository defines the interface for the local invoice mirror
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	List(ctx context.Context, limit int) ([]*models.Invoice, error)
}

// invoiceRepository implements the InvoiceRepository interface
type invoiceRepository struct {
	*BaseRepository
}

// NewInvoiceRepository creates a new InvoiceRepository
func NewInvoiceRepository(db *sqlx.DB) InvoiceRepository {
	return &invoiceRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create inserts a mirrored invoice. Rows are write-once; there is no update
// or delete path in normal operation.
func (r *invoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	query := `
		INSERT INTO invoices (
			id, date, due_date, title, items, customer, invoice_note,
			amount, shipping_fee, category, payment_type, invoiceable,
			currency, invoice_url, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.GetDB().ExecContext(
		ctx,
		query,
		invoice.ID,
		invoice.Date,
		invoice.DueDate,
		invoice.Title,
		invoice.Items,
		invoice.Customer,
		invoice.InvoiceNote,
		invoice.Amount,
		invoice.ShippingFee,
		invoice.Category,
		invoice.PaymentType,
		invoice.Invoiceable,
		invoice.Currency,
		invoice.InvoiceURL,
		invoice.CreatedAt,
	)

	return err
}

// List retrieves the most recent mirrored invoices, newest first
func (r *invoiceRepository) List(ctx context.Context, limit int) ([]*models.Invoice, error) {
	invoices := []*models.Invoice{}
	query := `
		SELECT * FROM invoices
		ORDER BY date DESC
		LIMIT $1
	`

	err := r.GetDB().SelectContext(ctx, &invoices, query, limit)
	if err != nil {
		return nil, err
	}

	return invoices, nil
}
