package repositories

import (
	"stockcontrol/internal/models"

	"gorm.io/gorm"
)

var _ TxRunner = (*GORMTxRunner)(nil)

// GORMTxRunner runs callbacks inside a database transaction.
type GORMTxRunner struct {
	db *gorm.DB
}

// NewGORMTxRunner creates a new instance of GORMTxRunner.
func NewGORMTxRunner(db *gorm.DB) *GORMTxRunner {
	return &GORMTxRunner{db: db}
}

// RunInTx begins a transaction, hands fn a repository bound to it, and
// commits only if fn succeeds.
func (r *GORMTxRunner) RunInTx(fn func(invoices InvoiceRepository) error) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return models.NewStorageError("begin transaction", tx.Error)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	if err := fn(NewGORMInvoiceRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return models.NewStorageError("commit transaction", err)
	}
	committed = true
	return nil
}
