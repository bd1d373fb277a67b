package services

import (
	"fmt"

	"stockcontrol/internal/models"
	"stockcontrol/internal/repositories"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ProductService handles business logic related to the product catalog.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// ProductPatch carries the fields an edit explicitly supplies. Nil fields
// keep their stored value.
type ProductPatch struct {
	Name          *string
	Description   *string
	StockQuantity *int
	UnitPrice     *decimal.Decimal
}

// Empty reports whether the patch changes nothing.
func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.StockQuantity == nil && p.UnitPrice == nil
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID returns the product or an error wrapping models.ErrNotFound.
func (s *ProductService) GetProductByID(id uint) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if err := s.repo.Create(product); err != nil {
		return err
	}
	log.Debug().Uint("product_id", product.ID).Str("name", product.Name).Msg("product created")
	return nil
}

// UpdateProduct overwrites every stored field of the product. Callers that
// only change some fields should use ApplyProductPatch or merge first.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	if err := s.repo.Update(product); err != nil {
		return err
	}
	log.Debug().Uint("product_id", product.ID).Msg("product updated")
	return nil
}

// ApplyProductPatch merges the supplied fields into the stored product and
// writes the result back.
func (s *ProductService) ApplyProductPatch(id uint, patch ProductPatch) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return product, nil
	}

	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.StockQuantity != nil {
		product.StockQuantity = *patch.StockQuantity
	}
	if patch.UnitPrice != nil {
		product.UnitPrice = *patch.UnitPrice
	}

	if err := s.UpdateProduct(product); err != nil {
		return nil, fmt.Errorf("failed to apply edit to product %d: %w", id, err)
	}
	return product, nil
}

// DeleteProduct deletes a product by its ID. Unknown IDs are ignored.
func (s *ProductService) DeleteProduct(id uint) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	log.Debug().Uint("product_id", id).Msg("product deleted")
	return nil
}
