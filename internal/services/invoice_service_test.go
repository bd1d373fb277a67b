package services_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"stockcontrol/internal/database"
	"stockcontrol/internal/models"
	"stockcontrol/internal/repositories"
	"stockcontrol/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestInvoiceService_CreateInvoice(t *testing.T) {
	mockRepo := new(MockInvoiceRepository)
	invoiceService := services.NewInvoiceService(inlineTxRunner{repo: mockRepo}, mockRepo)

	stamp := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	mockRepo.On("Create", mock.MatchedBy(func(inv *models.Invoice) bool {
		return inv.UserID == 5
	})).Run(func(args mock.Arguments) {
		inv := args.Get(0).(*models.Invoice)
		inv.ID = 11
		inv.InvoiceDate = stamp
	}).Return(nil).Once()
	mockRepo.On("CreateLineItem", mock.MatchedBy(func(li *models.InvoiceLineItem) bool {
		return li.InvoiceID == 11 && li.ProductID == 1 && li.Quantity == 2
	})).Return(nil).Once()
	mockRepo.On("CreateLineItem", mock.MatchedBy(func(li *models.InvoiceLineItem) bool {
		return li.InvoiceID == 11 && li.ProductID == 2 && li.Quantity == 3
	})).Return(nil).Once()

	items := []services.InvoiceItem{
		{Product: models.Product{ID: 1, Name: "Laptop"}, Quantity: 2},
		{Product: models.Product{ID: 2, Name: "Mouse"}, Quantity: 3},
	}
	invoice, err := invoiceService.CreateInvoice(5, items)
	require.NoError(t, err)
	assert.Equal(t, uint(11), invoice.ID)
	assert.Equal(t, stamp, invoice.InvoiceDate)
	require.Len(t, invoice.LineItems, 2)
	assert.Equal(t, "Mouse", invoice.LineItems[1].Product.Name)
	mockRepo.AssertExpectations(t)

	listed := invoiceService.ListInvoicesForUser(5)
	require.Len(t, listed, 1)
	assert.Equal(t, uint(11), listed[0].ID)
}

func TestInvoiceService_CreateInvoiceWithoutItems(t *testing.T) {
	mockRepo := new(MockInvoiceRepository)
	invoiceService := services.NewInvoiceService(inlineTxRunner{repo: mockRepo}, mockRepo)

	mockRepo.On("Create", mock.AnythingOfType("*models.Invoice")).Return(nil).Once()

	invoice, err := invoiceService.CreateInvoice(1, nil)
	require.NoError(t, err)
	assert.Empty(t, invoice.LineItems)
	mockRepo.AssertNotCalled(t, "CreateLineItem", mock.Anything)
	assert.Len(t, invoiceService.ListInvoicesForUser(1), 1)
}

func TestInvoiceService_CreateInvoiceLineItemFailure(t *testing.T) {
	mockRepo := new(MockInvoiceRepository)
	invoiceService := services.NewInvoiceService(inlineTxRunner{repo: mockRepo}, mockRepo)

	mockRepo.On("Create", mock.AnythingOfType("*models.Invoice")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Invoice).ID = 3
	}).Return(nil).Once()
	mockRepo.On("CreateLineItem", mock.AnythingOfType("*models.InvoiceLineItem")).
		Return(models.NewStorageError("insert line item for invoice 3", errors.New("disk I/O error"))).Once()

	invoice, err := invoiceService.CreateInvoice(8, []services.InvoiceItem{
		{Product: models.Product{ID: 4}, Quantity: 1},
		{Product: models.Product{ID: 5}, Quantity: 1},
	})
	assert.Nil(t, invoice)
	var storageErr *models.StorageError
	assert.ErrorAs(t, err, &storageErr)
	assert.Contains(t, err.Error(), "product 4")
	assert.Empty(t, invoiceService.ListInvoicesForUser(8))
	mockRepo.AssertNumberOfCalls(t, "CreateLineItem", 1)
}

func TestInvoiceService_CreateInvoiceHeaderFailure(t *testing.T) {
	mockRepo := new(MockInvoiceRepository)
	invoiceService := services.NewInvoiceService(inlineTxRunner{repo: mockRepo}, mockRepo)

	mockRepo.On("Create", mock.AnythingOfType("*models.Invoice")).
		Return(models.NewStorageError("insert invoice", errors.New("no such table: Invoice"))).Once()

	_, err := invoiceService.CreateInvoice(8, []services.InvoiceItem{{Product: models.Product{ID: 1}, Quantity: 1}})
	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "CreateLineItem", mock.Anything)
	assert.Empty(t, invoiceService.ListInvoicesForUser(8))
}

func TestInvoiceService_ListReturnsSnapshots(t *testing.T) {
	mockRepo := new(MockInvoiceRepository)
	invoiceService := services.NewInvoiceService(inlineTxRunner{repo: mockRepo}, mockRepo)

	mockRepo.On("Create", mock.AnythingOfType("*models.Invoice")).Return(nil).Once()
	mockRepo.On("CreateLineItem", mock.AnythingOfType("*models.InvoiceLineItem")).Return(nil).Once()

	created, err := invoiceService.CreateInvoice(2, []services.InvoiceItem{{Product: models.Product{ID: 1}, Quantity: 4}})
	require.NoError(t, err)
	created.LineItems[0].Quantity = 100

	first := invoiceService.ListInvoicesForUser(2)
	first[0].LineItems[0].Quantity = 200
	first[0].UserID = 99

	second := invoiceService.ListInvoicesForUser(2)
	require.Len(t, second, 1)
	assert.Equal(t, 4, second[0].LineItems[0].Quantity)
	assert.Equal(t, uint(2), second[0].UserID)
}

func TestInvoiceService_ListUnknownUser(t *testing.T) {
	mockRepo := new(MockInvoiceRepository)
	invoiceService := services.NewInvoiceService(inlineTxRunner{repo: mockRepo}, mockRepo)

	invoices := invoiceService.ListInvoicesForUser(404)
	assert.NotNil(t, invoices)
	assert.Empty(t, invoices)
}

func TestInvoiceService_Hydrate(t *testing.T) {
	mockRepo := new(MockInvoiceRepository)
	invoiceService := services.NewInvoiceService(inlineTxRunner{repo: mockRepo}, mockRepo)

	mockRepo.On("GetAll").Return([]models.Invoice{
		{ID: 1, UserID: 1},
		{ID: 2, UserID: 2},
		{ID: 3, UserID: 1, LineItems: []models.InvoiceLineItem{{ID: 9, InvoiceID: 3, ProductID: 7, Quantity: 2}}},
	}, nil).Once()

	require.NoError(t, invoiceService.Hydrate())

	userOne := invoiceService.ListInvoicesForUser(1)
	require.Len(t, userOne, 2)
	assert.Equal(t, uint(1), userOne[0].ID)
	assert.Equal(t, uint(3), userOne[1].ID)
	assert.Len(t, userOne[1].LineItems, 1)
	assert.Len(t, invoiceService.ListInvoicesForUser(2), 1)
	mockRepo.AssertExpectations(t)
}

func TestInvoiceService_HydrateError(t *testing.T) {
	mockRepo := new(MockInvoiceRepository)
	invoiceService := services.NewInvoiceService(inlineTxRunner{repo: mockRepo}, mockRepo)

	cause := models.NewStorageError("list invoices", errors.New("database is locked"))
	mockRepo.On("GetAll").Return(nil, cause).Once()

	err := invoiceService.Hydrate()
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "hydrate")
}

func TestInvoiceService_AgainstSQLite(t *testing.T) {
	db, err := database.Open(database.Config{
		Driver: database.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "stock.db"),
	})
	require.NoError(t, err)
	require.NoError(t, database.EnsureSchema(context.Background(), db, database.DriverSQLite))
	t.Cleanup(func() { _ = database.Close(db) })

	productRepo := repositories.NewGORMProductRepository(db)
	invoiceRepo := repositories.NewGORMInvoiceRepository(db)
	invoiceService := services.NewInvoiceService(repositories.NewGORMTxRunner(db), invoiceRepo)

	laptop := models.Product{Name: "Laptop", StockQuantity: 10, UnitPrice: decimal.NewFromInt(1200)}
	mouse := models.Product{Name: "Mouse", StockQuantity: 50, UnitPrice: decimal.NewFromInt(25)}
	require.NoError(t, productRepo.Create(&laptop))
	require.NoError(t, productRepo.Create(&mouse))

	first, err := invoiceService.CreateInvoice(1, []services.InvoiceItem{
		{Product: laptop, Quantity: 1},
		{Product: mouse, Quantity: 3},
	})
	require.NoError(t, err)
	second, err := invoiceService.CreateInvoice(1, []services.InvoiceItem{{Product: mouse, Quantity: 1}})
	require.NoError(t, err)

	n, err := invoiceRepo.CountLineItems(first.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	listed := invoiceService.ListInvoicesForUser(1)
	require.Len(t, listed, 2)
	assert.Equal(t, first.ID, listed[0].ID)
	assert.Equal(t, second.ID, listed[1].ID)
	assert.Empty(t, invoiceService.ListInvoicesForUser(2))

	// A fresh service sees the same history once hydrated.
	restarted := services.NewInvoiceService(repositories.NewGORMTxRunner(db), invoiceRepo)
	require.NoError(t, restarted.Hydrate())
	rehydrated := restarted.ListInvoicesForUser(1)
	require.Len(t, rehydrated, 2)
	require.Len(t, rehydrated[0].LineItems, 2)
	assert.Equal(t, 1, rehydrated[0].LineItems[0].Quantity)
	assert.Equal(t, "Laptop", rehydrated[0].LineItems[0].Product.Name)
	assert.Equal(t, 3, rehydrated[0].LineItems[1].Quantity)
	assert.Equal(t, first.InvoiceDate.Unix(), rehydrated[0].InvoiceDate.Unix())
}
