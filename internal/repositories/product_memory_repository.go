package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"teashop/internal/models"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
type MemoryProductRepository struct {
	products map[uint]models.Product
	nextID   uint
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[uint]models.Product),
		nextID:   1,
	}
}

// matcher holds a ProductFilter with the name already lowercased.
type matcher struct {
	name    string
	teaType string
}

func (f matcher) match(p models.Product) bool {
	if f.name != "" && !strings.Contains(strings.ToLower(p.Name), f.name) {
		return false
	}
	if f.teaType != "" && p.TeaType != f.teaType {
		return false
	}
	return true
}

// compareBy returns a three-way comparison of a and b on field.
func compareBy(field string, a, b models.Product) (int, error) {
	switch field {
	case models.FieldID:
		return compareOrdered(a.ID, b.ID), nil
	case models.FieldName, "":
		return strings.Compare(a.Name, b.Name), nil
	case models.FieldTeaType:
		return strings.Compare(a.TeaType, b.TeaType), nil
	case models.FieldOrigin:
		return strings.Compare(a.Origin, b.Origin), nil
	case models.FieldPrice:
		return a.Price.Cmp(b.Price), nil
	case models.FieldStockQuantity:
		return compareOrdered(a.StockQuantity, b.StockQuantity), nil
	case models.FieldDescription:
		return compareNullable(a.Description == nil, b.Description == nil, func() int {
			return strings.Compare(*a.Description, *b.Description)
		}), nil
	case models.FieldReceivedDate:
		return compareNullable(a.ReceivedDate == nil, b.ReceivedDate == nil, func() int {
			return a.ReceivedDate.Compare(*b.ReceivedDate)
		}), nil
	}
	return 0, fmt.Errorf("unknown sort field %q", field)
}

func compareOrdered[T int | uint](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// compareNullable orders NULLs last in ascending order, as PostgreSQL does.
func compareNullable(aNil, bNil bool, cmp func() int) int {
	switch {
	case aNil && bNil:
		return 0
	case aNil:
		return 1
	case bNil:
		return -1
	}
	return cmp()
}

// FindPage returns one page of products matching filter.
func (r *MemoryProductRepository) FindPage(filter models.ProductFilter, req models.PageRequest) (*models.Page[models.Product], error) {
	if _, err := compareBy(req.Sort.Field, models.Product{}, models.Product{}); err != nil {
		return nil, err
	}

	r.mu.RLock()
	m := matcher{name: strings.ToLower(filter.NameContains), teaType: filter.TeaType}
	matches := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if m.match(p) {
			matches = append(matches, p)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		c, _ := compareBy(req.Sort.Field, matches[i], matches[j])
		if req.Sort.Direction == models.Desc {
			c = -c
		}
		if c == 0 {
			return matches[i].ID < matches[j].ID
		}
		return c < 0
	})

	total := int64(len(matches))
	content := matches
	if !req.Unpaged() {
		start := min(req.Offset(), len(matches))
		end := start + min(req.Size, len(matches)-start)
		content = matches[start:end]
	}
	return models.NewPage(content, req, total), nil
}

// GetByID returns a product by its ID.
func (r *MemoryProductRepository) GetByID(id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
	}
	return &product, nil
}

// ExistsByID reports whether a product with the given ID is stored.
func (r *MemoryProductRepository) ExistsByID(id uint) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.products[id]
	return ok, nil
}

// Create adds a new product and assigns its ID.
func (r *MemoryProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = r.nextID
	r.nextID++
	r.products[product.ID] = *product
	return nil
}

// Update replaces an existing product.
func (r *MemoryProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return fmt.Errorf("product with ID %d: %w", product.ID, ErrProductNotFound)
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MemoryProductRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
	}
	delete(r.products, id)
	return nil
}

// DistinctTeaTypes returns each stored tea type once, sorted ascending.
func (r *MemoryProductRepository) DistinctTeaTypes() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	types := []string{}
	for _, p := range r.products {
		if _, ok := seen[p.TeaType]; ok {
			continue
		}
		seen[p.TeaType] = struct{}{}
		types = append(types, p.TeaType)
	}
	sort.Strings(types)
	return types, nil
}
