package middleware_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"teashop/internal/middleware"
	"teashop/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	handler := func(c *fiber.Ctx) error { return err }
	app.Get("/page", handler)
	app.Get("/api/v1/thing", handler)
	return app
}

func TestErrorHandler_InternalErrorIsGeneric(t *testing.T) {
	app := newApp(errors.New("connection refused"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/page", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.NotContains(t, string(body), "connection refused")
}

func TestErrorHandler_KeepsFiberErrorCode(t *testing.T) {
	app := newApp(fiber.NewError(fiber.StatusBadRequest, "Invalid form submission"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/page", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "Invalid form submission", string(body))
}

func TestErrorHandler_InvalidSortFieldOnAPI(t *testing.T) {
	app := newApp(fmt.Errorf("%w: %q", services.ErrInvalidSortField, "bogus"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/thing", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var payload map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Contains(t, payload["message"], "invalid sort field")
}
