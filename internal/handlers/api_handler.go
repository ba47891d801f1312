package handlers

import (
	"errors"
	"fmt"
	"log"

	"teashop/internal/models"
	"teashop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// APIHandler exposes the catalog read operations as JSON.
type APIHandler struct {
	service         *services.ProductService
	defaultPageSize int
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(service *services.ProductService, defaultPageSize int) *APIHandler {
	if defaultPageSize < 1 {
		defaultPageSize = 10
	}
	return &APIHandler{
		service:         service,
		defaultPageSize: defaultPageSize,
	}
}

// RegisterRoutes registers the JSON routes with the Fiber app.
func (h *APIHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	router.Get("/tea-types", h.HandleGetTeaTypes)
}

// HandleGetProducts returns one page of products; it takes the same parameters as the listing page.
func (h *APIHandler) HandleGetProducts(c *fiber.Ctx) error {
	page, err := findPage(h.service, parseListQuery(c, h.defaultPageSize))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *APIHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Product ID must be a positive integer",
		})
	}

	product, err := h.service.FindByID(id)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Product with ID %d not found", id),
			})
		}
		log.Printf("Error getting product by ID %d: %v", id, err)
		return err
	}
	return c.JSON(product)
}

// HandleGetTeaTypes lists the tea types in use.
func (h *APIHandler) HandleGetTeaTypes(c *fiber.Ctx) error {
	types, err := h.service.DistinctTeaTypes()
	if err != nil {
		return err
	}
	return c.JSON(types)
}

// findPage lists or searches depending on whether any filter was supplied.
func findPage(service *services.ProductService, q listQuery) (*models.Page[models.Product], error) {
	var (
		page *models.Page[models.Product]
		err  error
	)
	if q.filtered() {
		page, err = service.Search(q.Recherche, q.TypeThe, q.Page, q.Size, q.Sort, q.Direction)
	} else {
		page, err = service.ListAll(q.Page, q.Size, q.Sort, q.Direction)
	}
	if errors.Is(err, services.ErrInvalidSortField) {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return page, err
}

func productID(c *fiber.Ctx) (uint, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}
