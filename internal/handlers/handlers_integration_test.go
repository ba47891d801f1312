package handlers_test

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"teashop/internal/handlers"
	"teashop/internal/middleware"
	"teashop/internal/models"
	"teashop/internal/repositories"
	"teashop/internal/services"
	"teashop/pkg/database"
	"teashop/views"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupApp builds the catalog app over a private in-memory SQLite database.
func setupApp(t *testing.T) (*fiber.App, repositories.ProductRepository) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(database.SQLiteDialector(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	productRepo := repositories.NewGORMProductRepository(db)
	productService := services.NewProductService(productRepo, nil)

	app := fiber.New(fiber.Config{
		Views:        views.NewEngine(),
		ErrorHandler: middleware.ErrorHandler,
	})
	handlers.NewProductHandler(productService, 10).RegisterRoutes(app)
	handlers.NewAPIHandler(productService, 10).RegisterRoutes(app.Group("/api/v1"))

	return app, productRepo
}

func seedProductsForTest(t *testing.T, repo repositories.ProductRepository) []models.Product {
	products := []models.Product{
		{Name: "Sencha", TeaType: "Vert", Origin: "Japon", Price: decimal.RequireFromString("12.50"), StockQuantity: 20},
		{Name: "Gyokuro", TeaType: "Vert", Origin: "Japon", Price: decimal.RequireFromString("34.90"), StockQuantity: 8},
		{Name: "Assam", TeaType: "Noir", Origin: "Inde", Price: decimal.RequireFromString("9.90"), StockQuantity: 40},
	}
	for i := range products {
		require.NoError(t, repo.Create(&products[i]))
	}
	return products
}

func allProducts(t *testing.T, repo repositories.ProductRepository) []models.Product {
	page, err := repo.FindPage(models.ProductFilter{}, models.PageRequest{Sort: models.Sort{Field: models.FieldID}})
	require.NoError(t, err)
	return page.Content
}

func get(t *testing.T, app *fiber.App, target string) (*http.Response, string) {
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func postForm(t *testing.T, app *fiber.App, target string, form url.Values) (*http.Response, string) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func validForm() url.Values {
	return url.Values{
		"nom":           {"Sencha"},
		"typeThe":       {"Vert"},
		"origine":       {"Japon"},
		"prix":          {"12.50"},
		"quantiteStock": {"20"},
		"description":   {""},
		"dateReception": {""},
	}
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestListPage(t *testing.T) {
	app, repo := setupApp(t)
	seedProductsForTest(t, repo)

	resp, body := get(t, app, "/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, "Sencha")
	assert.Contains(t, body, "Gyokuro")
	assert.Contains(t, body, "Assam")
	assert.Contains(t, body, "12.50")

	_, body = get(t, app, "/?typeThe=Noir")
	assert.Contains(t, body, "Assam")
	assert.NotContains(t, body, "Gyokuro")

	_, body = get(t, app, "/?recherche=SEN")
	assert.Contains(t, body, "Sencha")
	assert.NotContains(t, body, "Assam")
}

func TestListPage_EmptyCatalog(t *testing.T) {
	app, _ := setupApp(t)

	resp, body := get(t, app, "/?page=-4&size=0")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Aucun thé trouvé.")
}

func TestListPage_PastTheEndIsEmpty(t *testing.T) {
	app, repo := setupApp(t)
	seedProductsForTest(t, repo)

	for _, target := range []string{"/?page=5", "/?page=922337203685477580&size=10", "/?page=4611686018427387904&size=4"} {
		resp, body := get(t, app, target)
		assert.Equal(t, http.StatusOK, resp.StatusCode, target)
		assert.Contains(t, body, "Aucun thé trouvé.", target)
		assert.NotContains(t, body, "Sencha", target)
	}
}

func TestListPage_AccentInsensitiveSearch(t *testing.T) {
	app, repo := setupApp(t)
	seedProductsForTest(t, repo)
	noel := models.Product{Name: "Thé ÉPICÉ de Noël", TeaType: "Noir", Origin: "France", Price: decimal.RequireFromString("14"), StockQuantity: 5}
	require.NoError(t, repo.Create(&noel))

	_, body := get(t, app, "/?recherche="+url.QueryEscape("épicé"))
	assert.Contains(t, body, "Noël")
	assert.NotContains(t, body, "Assam")
}

func TestListPage_InvalidSortField(t *testing.T) {
	app, repo := setupApp(t)
	seedProductsForTest(t, repo)

	resp, _ := get(t, app, "/?sort=password")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestNewForm(t *testing.T) {
	app, _ := setupApp(t)

	resp, body := get(t, app, "/nouveau")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `action="/enregistrer"`)
	assert.Contains(t, body, `name="nom"`)
}

func TestCreateProduct(t *testing.T) {
	app, repo := setupApp(t)

	form := validForm()
	form.Set("description", "Notes d'algues")
	form.Set("dateReception", "2024-04-12")
	resp, _ := postForm(t, app, "/enregistrer", form)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	products := allProducts(t, repo)
	require.Len(t, products, 1)
	assert.NotZero(t, products[0].ID)
	assert.Equal(t, "Sencha", products[0].Name)
	assert.True(t, decimal.RequireFromString("12.50").Equal(products[0].Price))
	assert.Equal(t, 20, products[0].StockQuantity)
	assert.Equal(t, "Notes d'algues", products[0].DescriptionText())
	assert.Equal(t, "2024-04-12", products[0].FormattedReceivedDate())
}

func TestCreateProduct_ValidationErrors(t *testing.T) {
	cases := []struct {
		name    string
		field   string
		value   string
		message string
	}{
		{"blank name", "nom", "   ", "Le nom est obligatoire"},
		{"price too low", "prix", "4.99", "Le prix doit être au minimum 5€"},
		{"price too high", "prix", "100.01", "Le prix ne peut pas dépasser 100€"},
		{"negative stock", "quantiteStock", "-1", "La quantité ne peut pas être négative"},
		{"non-numeric stock", "quantiteStock", "abc", "La quantité doit être un nombre entier"},
		{"bad date", "dateReception", "12/04/2024", "La date de réception doit être au format AAAA-MM-JJ"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app, repo := setupApp(t)

			form := validForm()
			form.Set(tc.field, tc.value)
			resp, body := postForm(t, app, "/enregistrer", form)

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, body, tc.message)
			assert.Contains(t, body, `value="Japon"`, "submitted values are kept")
			assert.Empty(t, allProducts(t, repo))
		})
	}
}

func TestEditForm(t *testing.T) {
	app, repo := setupApp(t)
	products := seedProductsForTest(t, repo)

	resp, body := get(t, app, fmt.Sprintf("/modifier/%d", products[1].ID))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `value="Gyokuro"`)
	assert.Contains(t, body, `value="34.90"`)
	assert.Contains(t, body, fmt.Sprintf(`action="/modifier/%d"`, products[1].ID))
}

func TestEditForm_UnknownOrInvalidID(t *testing.T) {
	app, repo := setupApp(t)
	seedProductsForTest(t, repo)

	for _, target := range []string{"/modifier/999", "/modifier/abc", "/modifier/0"} {
		resp, _ := get(t, app, target)
		assert.Equal(t, http.StatusFound, resp.StatusCode, target)
		assert.Equal(t, "/", resp.Header.Get("Location"), target)
	}
}

func TestUpdateProduct(t *testing.T) {
	app, repo := setupApp(t)
	products := seedProductsForTest(t, repo)
	id := products[0].ID

	form := validForm()
	form.Set("nom", "Sencha Premium")
	form.Set("prix", "15")
	form.Set("quantiteStock", "0")
	resp, _ := postForm(t, app, fmt.Sprintf("/modifier/%d", id), form)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	updated, err := repo.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, "Sencha Premium", updated.Name)
	assert.Equal(t, "15.00", updated.FormattedPrice())
	assert.Equal(t, 0, updated.StockQuantity)
	assert.Len(t, allProducts(t, repo), 3)
}

func TestUpdateProduct_UnknownIDSavesNothing(t *testing.T) {
	app, repo := setupApp(t)
	seedProductsForTest(t, repo)

	resp, _ := postForm(t, app, "/modifier/999", validForm())

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Len(t, allProducts(t, repo), 3)
	exists, err := repo.ExistsByID(999)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUpdateProduct_ValidationErrors(t *testing.T) {
	app, repo := setupApp(t)
	products := seedProductsForTest(t, repo)

	form := validForm()
	form.Set("nom", "")
	resp, body := postForm(t, app, fmt.Sprintf("/modifier/%d", products[0].ID), form)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Le nom est obligatoire")
	unchanged, err := repo.GetByID(products[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Sencha", unchanged.Name)
}

func TestDeleteProduct(t *testing.T) {
	app, repo := setupApp(t)
	products := seedProductsForTest(t, repo)

	resp, _ := postForm(t, app, fmt.Sprintf("/supprimer/%d", products[0].ID), url.Values{})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Len(t, allProducts(t, repo), 2)

	// A second delete of the same ID still lands on the listing.
	resp, _ = postForm(t, app, fmt.Sprintf("/supprimer/%d", products[0].ID), url.Values{})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Len(t, allProducts(t, repo), 2)
}

func TestExportCSV(t *testing.T) {
	app, _ := setupApp(t)

	resp, _ := postForm(t, app, "/enregistrer", validForm())
	require.Equal(t, http.StatusFound, resp.StatusCode)

	resp, body := get(t, app, "/export-csv")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), `filename="produits.csv"`)

	expected := `"id","nom","typeThe","origine","prix","quantiteStock","description","dateReception"` + "\n" +
		`"1","Sencha","Vert","Japon","12.50","20","",""` + "\n"
	assert.Equal(t, expected, body)
}

func TestExportCSV_FollowsFiltersAndIgnoresPaging(t *testing.T) {
	app, repo := setupApp(t)
	seedProductsForTest(t, repo)

	_, body := get(t, app, "/export-csv?typeThe=Vert&size=1&page=3")

	lines := strings.Split(strings.TrimSuffix(body, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], `"Gyokuro"`)
	assert.Contains(t, lines[2], `"Sencha"`)
}

func TestAPIGetProducts(t *testing.T) {
	app, repo := setupApp(t)
	seedProductsForTest(t, repo)

	resp, body := get(t, app, "/api/v1/products?sort=prix&direction=desc&size=2")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var page models.Page[models.Product]
	require.NoError(t, json.Unmarshal([]byte(body), &page))
	assert.Equal(t, int64(3), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "Gyokuro", page.Content[0].Name)
	assert.Equal(t, "Sencha", page.Content[1].Name)
}

func TestAPIGetProducts_InvalidSortField(t *testing.T) {
	app, _ := setupApp(t)

	resp, body := get(t, app, "/api/v1/products?sort=nope")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &errResp))
	assert.NotEmpty(t, errResp["message"])
}

func TestAPIGetProductByID(t *testing.T) {
	app, repo := setupApp(t)
	products := seedProductsForTest(t, repo)

	resp, body := get(t, app, fmt.Sprintf("/api/v1/products/%d", products[2].ID))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var product models.Product
	require.NoError(t, json.Unmarshal([]byte(body), &product))
	assert.Equal(t, "Assam", product.Name)

	resp, _ = get(t, app, "/api/v1/products/999")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = get(t, app, "/api/v1/products/abc")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPIGetTeaTypes(t *testing.T) {
	app, repo := setupApp(t)
	seedProductsForTest(t, repo)

	resp, body := get(t, app, "/api/v1/tea-types")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var types []string
	require.NoError(t, json.Unmarshal([]byte(body), &types))
	assert.Equal(t, []string{"Noir", "Vert"}, types)
}
