package repositories

import (
	"errors"

	"teashop/internal/models"
)

// ErrProductNotFound is returned when no product has the requested ID.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	// FindPage returns the products matching filter, ordered and paged by req.
	FindPage(filter models.ProductFilter, req models.PageRequest) (*models.Page[models.Product], error)
	GetByID(id uint) (*models.Product, error)
	ExistsByID(id uint) (bool, error)
	// Create inserts product and sets its generated ID.
	Create(product *models.Product) error
	// Update replaces every column of the product with the same ID.
	Update(product *models.Product) error
	Delete(id uint) error
	// DistinctTeaTypes returns each tea type once, in ascending order.
	DistinctTeaTypes() ([]string, error)
}
