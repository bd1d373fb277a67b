package repositories

import (
	"errors"
	"fmt"

	"stockcontrol/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ ProductRepository = (*GORMProductRepository)(nil)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products in identifier order.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	err := r.db.Order(clause.OrderByColumn{Column: clause.Column{Name: "Product_ID"}}).Find(&products).Error
	if err != nil {
		return nil, models.NewStorageError("list products", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.Where(map[string]interface{}{"Product_ID": id}).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %d: %w", id, models.ErrNotFound)
		}
		return nil, models.NewStorageError(fmt.Sprintf("fetch product %d", id), err)
	}
	return &product, nil
}

// Create inserts a new product and sets its store-assigned ID.
func (r *GORMProductRepository) Create(product *models.Product) error {
	product.ID = 0
	if err := r.db.Create(product).Error; err != nil {
		return models.NewStorageError("insert product", err)
	}
	return nil
}

// Update overwrites every column of the row identified by product.ID.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Model(&models.Product{ID: product.ID}).Updates(map[string]interface{}{
		"Product_Name":   product.Name,
		"Description":    product.Description,
		"Stock_Quantity": product.StockQuantity,
		"Unit_Price":     product.UnitPrice,
	})
	if res.Error != nil {
		return models.NewStorageError(fmt.Sprintf("update product %d", product.ID), res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %d: %w", product.ID, models.ErrNotFound)
	}
	return nil
}

// Delete removes the product row. Line items that reference it are left
// alone, and deleting an ID that does not exist is not an error.
func (r *GORMProductRepository) Delete(id uint) error {
	if err := r.db.Where(map[string]interface{}{"Product_ID": id}).Delete(&models.Product{}).Error; err != nil {
		return models.NewStorageError(fmt.Sprintf("delete product %d", id), err)
	}
	return nil
}
