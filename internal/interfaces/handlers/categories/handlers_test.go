package categories

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	catsvc "inventory-backend/internal/application/categories"
	"inventory-backend/internal/infrastructure/database"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCategoryApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := database.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	h := &Handlers{Service: &catsvc.Service{DB: db}}
	app := fiber.New()
	app.Get("/categories/:category", h.List)
	app.Post("/categories/:category", h.Add)
	app.Delete("/categories/:category/:id", h.Delete)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, raw
}

func TestCategoryLifecycle(t *testing.T) {
	app := setupCategoryApp(t)

	code, raw := call(t, app, "POST", "/categories/department", `{"value":"  Finance "}`)
	require.Equal(t, fiber.StatusCreated, code)
	var entry catsvc.Entry
	require.NoError(t, json.Unmarshal(raw, &entry))
	assert.Equal(t, "Finance", entry.Value)
	assert.NotZero(t, entry.ID)

	code, _ = call(t, app, "POST", "/categories/department", `{"value":"finance"}`)
	assert.Equal(t, fiber.StatusConflict, code)

	code, _ = call(t, app, "POST", "/categories/department", `{"value":"   "}`)
	assert.Equal(t, fiber.StatusBadRequest, code)

	call(t, app, "POST", "/categories/department", `{"value":"Admin"}`)
	code, raw = call(t, app, "GET", "/categories/department", "")
	require.Equal(t, fiber.StatusOK, code)
	var list []catsvc.Entry
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list, 2)
	assert.Equal(t, "Admin", list[0].Value)
	assert.Equal(t, "Finance", list[1].Value)

	code, raw = call(t, app, "DELETE", "/categories/department/"+jsonID(entry.ID), "")
	require.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, string(raw), "Category deleted")

	code, _ = call(t, app, "DELETE", "/categories/department/"+jsonID(entry.ID), "")
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestUnknownCategory(t *testing.T) {
	app := setupCategoryApp(t)
	code, raw := call(t, app, "GET", "/categories/users", "")
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Contains(t, string(raw), "Invalid category")

	code, _ = call(t, app, "POST", "/categories/nope", `{"value":"x"}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestEmptyListIsArray(t *testing.T) {
	app := setupCategoryApp(t)
	code, raw := call(t, app, "GET", "/categories/vendor", "")
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "[]", string(raw))
}

func jsonID(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
