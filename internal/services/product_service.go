package services

import (
	"errors"
	"fmt"
	"log"

	"teashop/internal/models"
	"teashop/internal/repositories"
)

var (
	// ErrProductNotFound is returned when no product has the requested ID.
	ErrProductNotFound = repositories.ErrProductNotFound
	// ErrInvalidSortField is returned for a sort key that names no product property.
	ErrInvalidSortField = errors.New("invalid sort field")
)

// ProductService handles business logic related to the tea catalog.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
}

// NewProductService creates a new ProductService. publisher may be nil to disable events.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
	}
}

// pageRequest resolves the caller's sort key and direction into a PageRequest.
func pageRequest(page, size int, sortField, direction string) (models.PageRequest, error) {
	field, ok := models.CanonicalSortField(sortField)
	if !ok {
		return models.PageRequest{}, fmt.Errorf("%w: %q", ErrInvalidSortField, sortField)
	}
	if page < 0 {
		page = 0
	}
	return models.PageRequest{
		Page: page,
		Size: size,
		Sort: models.Sort{Field: field, Direction: models.ParseDirection(direction)},
	}, nil
}

// ListAll returns one page of every product, ordered by sortField.
// A page past the end is empty rather than an error.
func (s *ProductService) ListAll(page, size int, sortField, direction string) (*models.Page[models.Product], error) {
	req, err := pageRequest(page, size, sortField, direction)
	if err != nil {
		return nil, err
	}
	return s.repo.FindPage(models.ProductFilter{}, req)
}

// Search returns one page of products filtered by name and/or tea type.
//
// With both filters the store runs a single query requiring a case-insensitive
// name substring match and an exact tea type match. With one filter only that
// predicate applies. With none, Search is ListAll.
func (s *ProductService) Search(name, teaType string, page, size int, sortField, direction string) (*models.Page[models.Product], error) {
	var filter models.ProductFilter
	switch {
	case name != "" && teaType != "":
		filter = models.ProductFilter{NameContains: name, TeaType: teaType}
	case name != "":
		filter = models.ProductFilter{NameContains: name}
	case teaType != "":
		filter = models.ProductFilter{TeaType: teaType}
	default:
		return s.ListAll(page, size, sortField, direction)
	}

	req, err := pageRequest(page, size, sortField, direction)
	if err != nil {
		return nil, err
	}
	return s.repo.FindPage(filter, req)
}

// ExportAll returns every product matching the filters, ordered by name.
func (s *ProductService) ExportAll(name, teaType string) ([]models.Product, error) {
	page, err := s.Search(name, teaType, 0, 0, models.FieldName, "asc")
	if err != nil {
		return nil, err
	}
	return page.Content, nil
}

// FindByID retrieves a single product by its ID.
func (s *ProductService) FindByID(id uint) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// Save inserts product when it has no ID and otherwise overwrites the stored record.
func (s *ProductService) Save(product *models.Product) (*models.Product, error) {
	if product.ID == 0 {
		if err := s.repo.Create(product); err != nil {
			return nil, err
		}
		s.publish(EventProductCreated, product.ID, product)
		return product, nil
	}

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	s.publish(EventProductUpdated, product.ID, product)
	return product, nil
}

// DeleteByID removes a product permanently. It returns ErrProductNotFound,
// leaving the store untouched, when the ID is unknown.
func (s *ProductService) DeleteByID(id uint) error {
	exists, err := s.repo.ExistsByID(id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("product with ID %d does not exist: %w", id, ErrProductNotFound)
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.publish(EventProductDeleted, id, nil)
	return nil
}

// DistinctTeaTypes returns the tea types in use, each once, sorted ascending.
func (s *ProductService) DistinctTeaTypes() ([]string, error) {
	return s.repo.DistinctTeaTypes()
}

func (s *ProductService) publish(eventType string, id uint, product *models.Product) {
	if s.publisher == nil {
		return
	}
	body, err := newProductEvent(eventType, id, product).Marshal()
	if err != nil {
		log.Printf("Failed to marshal %s event for product %d: %v", eventType, id, err)
		return
	}
	if err := s.publisher.Publish(eventType, body); err != nil {
		log.Printf("Warning: Failed to publish %s event for product %d: %v", eventType, id, err)
	}
}
