package services

import (
	"fmt"
	"sync"

	"stockcontrol/internal/models"
	"stockcontrol/internal/repositories"

	"github.com/rs/zerolog/log"
)

// InvoiceItem is one requested line: a product and how many of it.
type InvoiceItem struct {
	Product  models.Product
	Quantity int
}

// InvoiceService records invoices and keeps a per-user index of them in memory.
type InvoiceService struct {
	txRunner    repositories.TxRunner
	invoiceRepo repositories.InvoiceRepository

	mu     sync.RWMutex
	byUser map[uint][]models.Invoice
}

// NewInvoiceService creates a new InvoiceService with an empty index.
func NewInvoiceService(txRunner repositories.TxRunner, invoiceRepo repositories.InvoiceRepository) *InvoiceService {
	return &InvoiceService{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		byUser:      make(map[uint][]models.Invoice),
	}
}

// CreateInvoice writes the header and every line item in one transaction,
// then records the invoice in the index. Nothing is indexed if any write fails.
func (s *InvoiceService) CreateInvoice(userID uint, items []InvoiceItem) (*models.Invoice, error) {
	invoice := models.Invoice{UserID: userID}

	err := s.txRunner.RunInTx(func(invoices repositories.InvoiceRepository) error {
		if err := invoices.Create(&invoice); err != nil {
			return fmt.Errorf("failed to create invoice header: %w", err)
		}

		lineItems := make([]models.InvoiceLineItem, 0, len(items))
		for _, item := range items {
			li := models.InvoiceLineItem{
				InvoiceID: invoice.ID,
				ProductID: item.Product.ID,
				Quantity:  item.Quantity,
			}
			if err := invoices.CreateLineItem(&li); err != nil {
				return fmt.Errorf("failed to add product %d to invoice %d: %w", item.Product.ID, invoice.ID, err)
			}
			li.Product = item.Product
			lineItems = append(lineItems, li)
		}
		invoice.LineItems = lineItems
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.byUser[userID] = append(s.byUser[userID], invoice.Clone())
	s.mu.Unlock()

	log.Info().Uint("invoice_id", invoice.ID).Uint("user_id", userID).Int("line_items", len(invoice.LineItems)).Msg("invoice created")
	out := invoice.Clone()
	return &out, nil
}

// ListInvoicesForUser returns the indexed invoices of a user in creation order.
func (s *InvoiceService) ListInvoicesForUser(userID uint) []models.Invoice {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cached := s.byUser[userID]
	out := make([]models.Invoice, 0, len(cached))
	for _, inv := range cached {
		out = append(out, inv.Clone())
	}
	return out
}

// Hydrate replaces the index with every invoice persisted in the store.
// Line items carry the products as they are stored now.
func (s *InvoiceService) Hydrate() error {
	all, err := s.invoiceRepo.GetAll()
	if err != nil {
		return fmt.Errorf("failed to hydrate invoice index: %w", err)
	}

	byUser := make(map[uint][]models.Invoice)
	for _, inv := range all {
		byUser[inv.UserID] = append(byUser[inv.UserID], inv)
	}

	s.mu.Lock()
	s.byUser = byUser
	s.mu.Unlock()

	log.Debug().Int("invoices", len(all)).Int("users", len(byUser)).Msg("invoice index hydrated")
	return nil
}
