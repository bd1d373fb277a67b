package repositories

import (
	"stockcontrol/internal/models"
)

// InvoiceRepository defines the interface for invoice data access.
type InvoiceRepository interface {
	// Create inserts the header row only and fills in ID and InvoiceDate.
	Create(invoice *models.Invoice) error
	CreateLineItem(item *models.InvoiceLineItem) error
	// GetAll returns every invoice with its line items and their current products.
	GetAll() ([]models.Invoice, error)
	CountLineItems(invoiceID uint) (int64, error)
}

// TxRunner runs fn against an invoice repository bound to a single
// transaction. The transaction commits when fn returns nil and rolls back otherwise.
type TxRunner interface {
	RunInTx(fn func(invoices InvoiceRepository) error) error
}
