package handlers

import (
	"errors"
	"log"

	"teashop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler serves the HTML catalog pages and the CSV export.
type ProductHandler struct {
	service         *services.ProductService
	defaultPageSize int
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, defaultPageSize int) *ProductHandler {
	if defaultPageSize < 1 {
		defaultPageSize = 10
	}
	return &ProductHandler{
		service:         service,
		defaultPageSize: defaultPageSize,
	}
}

// RegisterRoutes registers the catalog pages with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleList)
	router.Get("/nouveau", h.HandleNewForm)
	router.Post("/enregistrer", h.HandleCreate)
	router.Get("/modifier/:id", h.HandleEditForm)
	router.Post("/modifier/:id", h.HandleUpdate)
	router.Post("/supprimer/:id", h.HandleDelete)
	router.Get("/export-csv", h.HandleExportCSV)
}

func parseListQuery(c *fiber.Ctx, defaultSize int) listQuery {
	q := listQuery{
		Page:      c.QueryInt("page", 0),
		Size:      c.QueryInt("size", defaultSize),
		Sort:      c.Query("sort", "nom"),
		Direction: c.Query("direction", "asc"),
		Recherche: c.Query("recherche"),
		TypeThe:   c.Query("typeThe"),
	}
	if q.Page < 0 {
		q.Page = 0
	}
	if q.Size < 1 {
		q.Size = defaultSize
	}
	return q
}

// HandleList renders one page of the catalog, filtered when search parameters are present.
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	q := parseListQuery(c, h.defaultPageSize)

	page, err := findPage(h.service, q)
	if err != nil {
		return err
	}
	teaTypes, err := h.service.DistinctTeaTypes()
	if err != nil {
		return err
	}

	return c.Render("index", listView{
		Title:    "Catalogue des thés",
		Page:     page,
		Query:    q,
		TeaTypes: teaTypes,
	})
}

// HandleNewForm renders an empty creation form.
func (h *ProductHandler) HandleNewForm(c *fiber.Ctx) error {
	return h.renderForm(c, "Nouveau thé", "/enregistrer", ProductForm{}, nil)
}

// HandleCreate saves a new product, or re-renders the form with its errors.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	var form ProductForm
	if err := c.BodyParser(&form); err != nil {
		log.Printf("Error parsing product form: %v", err)
		return fiber.NewError(fiber.StatusBadRequest, "Invalid form submission")
	}

	if errs := form.Validate(); len(errs) > 0 {
		return h.renderForm(c, "Nouveau thé", "/enregistrer", form, errs)
	}

	product := form.Product(0)
	if _, err := h.service.Save(&product); err != nil {
		return err
	}
	return c.Redirect("/")
}

// HandleEditForm renders the edit form for an existing product.
// Unknown IDs redirect to the listing.
func (h *ProductHandler) HandleEditForm(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return c.Redirect("/")
	}

	product, err := h.service.FindByID(id)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return c.Redirect("/")
		}
		return err
	}
	return h.renderForm(c, "Modifier le thé", editAction(id), FormFromProduct(*product), nil)
}

// HandleUpdate overwrites an existing product with the submitted form.
// Unknown IDs redirect to the listing without saving.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return c.Redirect("/")
	}

	var form ProductForm
	if err := c.BodyParser(&form); err != nil {
		log.Printf("Error parsing product form: %v", err)
		return fiber.NewError(fiber.StatusBadRequest, "Invalid form submission")
	}
	if errs := form.Validate(); len(errs) > 0 {
		return h.renderForm(c, "Modifier le thé", editAction(id), form, errs)
	}

	if _, err := h.service.FindByID(id); err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			log.Printf("Warning: update of unknown product %d ignored", id)
			return c.Redirect("/")
		}
		return err
	}

	product := form.Product(id)
	if _, err := h.service.Save(&product); err != nil {
		return err
	}
	return c.Redirect("/")
}

// HandleDelete removes a product and redirects to the listing.
// A missing product is logged and otherwise treated like a successful delete.
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return c.Redirect("/")
	}

	if err := h.service.DeleteByID(id); err != nil {
		if !errors.Is(err, services.ErrProductNotFound) {
			return err
		}
		log.Printf("Warning: delete of unknown product %d ignored", id)
	}
	return c.Redirect("/")
}

// HandleExportCSV downloads every product matching the search parameters as CSV.
func (h *ProductHandler) HandleExportCSV(c *fiber.Ctx) error {
	products, err := h.service.ExportAll(c.Query("recherche"), c.Query("typeThe"))
	if err != nil {
		return err
	}

	c.Attachment("produits.csv")
	c.Set(fiber.HeaderContentType, "text/csv")
	return c.SendString(h.service.ExportToCSV(products))
}

func (h *ProductHandler) renderForm(c *fiber.Ctx, title, action string, form ProductForm, errs map[string]string) error {
	teaTypes, err := h.service.DistinctTeaTypes()
	if err != nil {
		return err
	}
	if errs == nil {
		errs = map[string]string{}
	}
	return c.Render("product_form", formView{
		Title:    title,
		Action:   action,
		Form:     form,
		Errors:   errs,
		TeaTypes: teaTypes,
	})
}
