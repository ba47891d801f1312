package repositories

import (
	"errors"
	"fmt"
	"strings"

	"teashop/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

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

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// filtered starts a fresh query over products with the filter's predicates applied.
// Both predicates land in one WHERE clause joined by AND.
// SQLite connections from pkg/database fold non-ASCII letters in LOWER too.
func (r *GORMProductRepository) filtered(filter models.ProductFilter) *gorm.DB {
	q := r.db.Model(&models.Product{})
	if filter.NameContains != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(filter.NameContains)) + "%"
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)
	}
	if filter.TeaType != "" {
		q = q.Where("tea_type = ?", filter.TeaType)
	}
	return q
}

func orderBy(q *gorm.DB, sort models.Sort) (*gorm.DB, error) {
	field := sort.Field
	if field == "" {
		field = models.FieldName
	}
	column, ok := models.ProductColumns[field]
	if !ok {
		return nil, fmt.Errorf("unknown sort field %q", sort.Field)
	}
	q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: sort.Direction == models.Desc})
	if column != "id" {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
	}
	return q, nil
}

// FindPage retrieves one page of products matching filter.
func (r *GORMProductRepository) FindPage(filter models.ProductFilter, req models.PageRequest) (*models.Page[models.Product], error) {
	var total int64
	if err := r.filtered(filter).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	products := []models.Product{}
	if total > 0 && int64(req.Offset()) < total {
		q, err := orderBy(r.filtered(filter), req.Sort)
		if err != nil {
			return nil, err
		}
		if !req.Unpaged() {
			q = q.Limit(req.Size).Offset(req.Offset())
		}
		if err := q.Find(&products).Error; err != nil {
			return nil, fmt.Errorf("failed to list products: %w", err)
		}
	}
	return models.NewPage(products, req, total), nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// ExistsByID reports whether a product with the given ID is stored.
func (r *GORMProductRepository) ExistsByID(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check product %d: %w", id, err)
	}
	return count > 0, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	product.ID = 0
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update overwrites every column of an existing product, zero values and NULLs included.
func (r *GORMProductRepository) Update(product *models.Product) error {
	// Save would fall back to an INSERT when nothing matched.
	res := r.db.Model(&models.Product{ID: product.ID}).Select("*").Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %d: %w", product.ID, ErrProductNotFound)
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
	}
	return nil
}

// DistinctTeaTypes projects the tea_type column, deduplicated and sorted.
func (r *GORMProductRepository) DistinctTeaTypes() ([]string, error) {
	types := []string{}
	if err := r.db.Model(&models.Product{}).Distinct().Order("tea_type").Pluck("tea_type", &types).Error; err != nil {
		return nil, fmt.Errorf("failed to list tea types: %w", err)
	}
	return types, nil
}
