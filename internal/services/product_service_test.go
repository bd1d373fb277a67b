package services_test

import (
	"fmt"
	"testing"

	"stockcontrol/internal/models"
	"stockcontrol/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestProductService_GetAllProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	expectedProducts := []models.Product{
		{ID: 1, Name: "Product A", UnitPrice: decimal.NewFromInt(10), StockQuantity: 100},
		{ID: 2, Name: "Product B", UnitPrice: decimal.NewFromInt(20), StockQuantity: 50},
	}

	mockRepo.On("GetAll").Return(expectedProducts, nil).Once()

	products, err := service.GetAllProducts()

	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, expectedProducts, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	expectedProduct := &models.Product{ID: 1, Name: "Product A", UnitPrice: decimal.NewFromInt(10), StockQuantity: 100}

	// Test successful retrieval
	mockRepo.On("GetByID", uint(1)).Return(expectedProduct, nil).Once()
	product, err := service.GetProductByID(1)
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)
	mockRepo.AssertExpectations(t)

	// Test product not found
	mockRepo.On("GetByID", uint(99)).Return(nil, fmt.Errorf("product with ID 99: %w", models.ErrNotFound)).Once()
	product, err = service.GetProductByID(99)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Nil(t, product)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	newProduct := &models.Product{Name: "New Product", UnitPrice: decimal.NewFromInt(50), StockQuantity: 20}

	// Test successful creation
	mockRepo.On("Create", newProduct).Return(nil).Once()
	err := service.CreateProduct(newProduct)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Test creation failure (e.g., database error)
	mockRepo.On("Create", newProduct).Return(models.NewStorageError("insert product", fmt.Errorf("database error"))).Once()
	err = service.CreateProduct(newProduct)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")
	var storageErr *models.StorageError
	assert.ErrorAs(t, err, &storageErr)
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	updatedProduct := &models.Product{ID: 1, Name: "Product A Updated", UnitPrice: decimal.NewFromInt(12), StockQuantity: 95}

	// Test successful update
	mockRepo.On("Update", updatedProduct).Return(nil).Once()
	err := service.UpdateProduct(updatedProduct)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Test update failure (product not found in repo)
	missing := &models.Product{ID: 99, Name: "NonExistent"}
	mockRepo.On("Update", missing).Return(fmt.Errorf("product with ID 99: %w", models.ErrNotFound)).Once()
	err = service.UpdateProduct(missing)
	assert.ErrorIs(t, err, models.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestProductService_ApplyProductPatch_OnlySuppliedFields(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	stored := &models.Product{ID: 5, Name: "Monitor", Description: "27 inch", StockQuantity: 4, UnitPrice: decimal.RequireFromString("199.99")}
	mockRepo.On("GetByID", uint(5)).Return(stored, nil).Once()
	mockRepo.On("Update", mock.MatchedBy(func(p *models.Product) bool {
		return p.ID == 5 && p.Name == "Monitor" && p.Description == "27 inch" &&
			p.StockQuantity == 12 && p.UnitPrice.Equal(decimal.RequireFromString("199.99"))
	})).Return(nil).Once()

	qty := 12
	product, err := service.ApplyProductPatch(5, services.ProductPatch{StockQuantity: &qty})
	assert.NoError(t, err)
	assert.Equal(t, 12, product.StockQuantity)
	mockRepo.AssertExpectations(t)
}

func TestProductService_ApplyProductPatch_EmptyPatchSkipsWrite(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	stored := &models.Product{ID: 5, Name: "Monitor"}
	mockRepo.On("GetByID", uint(5)).Return(stored, nil).Once()

	product, err := service.ApplyProductPatch(5, services.ProductPatch{})
	assert.NoError(t, err)
	assert.Equal(t, stored, product)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestProductService_ApplyProductPatch_NotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	mockRepo.On("GetByID", uint(8)).Return(nil, fmt.Errorf("product with ID 8: %w", models.ErrNotFound)).Once()

	name := "x"
	_, err := service.ApplyProductPatch(8, services.ProductPatch{Name: &name})
	assert.ErrorIs(t, err, models.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	// Test successful deletion
	mockRepo.On("Delete", uint(1)).Return(nil).Once()
	err := service.DeleteProduct(1)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Test deletion failure (storage)
	mockRepo.On("Delete", uint(99)).Return(models.NewStorageError("delete product 99", fmt.Errorf("disk I/O error"))).Once()
	err = service.DeleteProduct(99)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "disk I/O error")
	mockRepo.AssertExpectations(t)
}
