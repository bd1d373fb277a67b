package repositories

import (
	"errors"
	"fmt"

	"stockcontrol/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ InvoiceRepository = (*GORMInvoiceRepository)(nil)

// GORMInvoiceRepository is a GORM implementation of InvoiceRepository.
// Pass either the root handle or a transaction.
type GORMInvoiceRepository struct {
	db *gorm.DB
}

// NewGORMInvoiceRepository creates a new instance of GORMInvoiceRepository.
func NewGORMInvoiceRepository(db *gorm.DB) *GORMInvoiceRepository {
	return &GORMInvoiceRepository{
		db: db,
	}
}

// Create inserts the invoice header. A zero InvoiceDate is left to the
// column default and read back afterwards.
func (r *GORMInvoiceRepository) Create(invoice *models.Invoice) error {
	omit := []string{clause.Associations}
	if invoice.InvoiceDate.IsZero() {
		omit = append(omit, "Invoice_Date")
	}

	invoice.ID = 0
	if err := r.db.Omit(omit...).Create(invoice).Error; err != nil {
		return models.NewStorageError("insert invoice", err)
	}

	var stored models.Invoice
	if err := r.db.Where(map[string]interface{}{"Invoice_ID": invoice.ID}).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("invoice with ID %d: %w", invoice.ID, models.ErrNotFound)
		}
		return models.NewStorageError("read back invoice", err)
	}
	invoice.InvoiceDate = stored.InvoiceDate
	return nil
}

// CreateLineItem appends one line item row. The product snapshot is never written.
func (r *GORMInvoiceRepository) CreateLineItem(item *models.InvoiceLineItem) error {
	item.ID = 0
	if err := r.db.Omit(clause.Associations).Create(item).Error; err != nil {
		return models.NewStorageError(fmt.Sprintf("insert line item for invoice %d", item.InvoiceID), err)
	}
	return nil
}

// GetAll returns every invoice in identifier order with line items preloaded.
// Line items whose product has been deleted carry a zero Product.
func (r *GORMInvoiceRepository) GetAll() ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order(clause.OrderByColumn{Column: clause.Column{Name: "Line_Item_ID"}})
		}).
		Preload("LineItems.Product").
		Order(clause.OrderByColumn{Column: clause.Column{Name: "Invoice_ID"}}).
		Find(&invoices).Error
	if err != nil {
		return nil, models.NewStorageError("list invoices", err)
	}
	return invoices, nil
}

// CountLineItems returns how many line item rows reference the invoice.
func (r *GORMInvoiceRepository) CountLineItems(invoiceID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.InvoiceLineItem{}).
		Where(map[string]interface{}{"Invoice_ID": invoiceID}).
		Count(&n).Error
	if err != nil {
		return 0, models.NewStorageError("count line items", err)
	}
	return n, nil
}
