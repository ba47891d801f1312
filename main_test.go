package main

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teashop/internal/config"
	"teashop/internal/models"
	"teashop/internal/repositories"
	"teashop/internal/services"
)

func testConfig(t *testing.T) config.Config {
	v := viper.New()
	config.SetDefaults(v)
	v.Set("DB_DRIVER", "memory")
	return config.FromViper(v)
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestHealthCheck(t *testing.T) {
	cfg := testConfig(t)
	repo, closeStore, err := openRepository(cfg)
	require.NoError(t, err)
	defer closeStore()

	app := newApp(cfg, services.NewProductService(repo, nil))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, body["time"])
}

func TestSeededCatalogIsServed(t *testing.T) {
	cfg := testConfig(t)
	repo, closeStore, err := openRepository(cfg)
	require.NoError(t, err)
	defer closeStore()
	seedProducts(repo)

	app := newApp(cfg, services.NewProductService(repo, nil))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/products?size=5", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var page models.Page[models.Product]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Equal(t, int64(9), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Content, 5)
	assert.Equal(t, "Assam", page.Content[0].Name)
}

func TestSeedProducts_OnlySeedsEmptyStore(t *testing.T) {
	repo := repositories.NewMemoryProductRepository()

	seedProducts(repo)
	seedProducts(repo)

	page, err := repo.FindPage(models.ProductFilter{}, models.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(9), page.TotalElements)
}

func TestOpenRepository_SQLite(t *testing.T) {
	cfg := testConfig(t)
	cfg.DBDriver = "sqlite"
	cfg.DatabaseDSN = "file::memory:"
	cfg.DBMaxOpenConns = 1

	repo, closeStore, err := openRepository(cfg)
	require.NoError(t, err)
	defer closeStore()

	_, ok := repo.(*repositories.GORMProductRepository)
	assert.True(t, ok)

	product := models.Product{Name: "Sencha", TeaType: "Vert", Origin: "Japon"}
	require.NoError(t, repo.Create(&product))
	exists, err := repo.ExistsByID(product.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestOpenRepository_UnsupportedDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.DBDriver = "oracle"

	_, _, err := openRepository(cfg)
	assert.Error(t, err)
}
