package health

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	healthsvc "inventory-backend/internal/application/health"
	"inventory-backend/internal/infrastructure/database"
	"inventory-backend/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHealthApp(t *testing.T, withRedis bool) (*fiber.App, *redis.Client) {
	t.Helper()
	db, err := database.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	h := &Handlers{DB: healthsvc.GormPinger{DB: db}, HealthAdminKey: "reset-key"}
	if withRedis {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		h.Rdb = redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() {
			h.Rdb.Close()
			mr.Close()
		})
	}
	app := fiber.New()
	app.Use(middleware.HealthMarker(h.Rdb))
	app.Get("/", h.Liveness)
	app.Get("/health/json", h.JSON)
	app.Get("/health/reset", h.Reset)
	app.Get("/health/errors", h.Errors)
	app.Get("/boom", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusInternalServerError).SendString("boom")
	})
	return app, h.Rdb
}

func get(t *testing.T, app *fiber.App, path string) (int, []byte) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, raw
}

func TestLiveness(t *testing.T) {
	app, _ := setupHealthApp(t, false)
	code, raw := get(t, app, "/")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "Hello World IMS Backend!", string(raw))
}

func TestHealthJSON_WithoutRedis(t *testing.T) {
	app, _ := setupHealthApp(t, false)
	code, raw := get(t, app, "/health/json")
	require.Equal(t, fiber.StatusOK, code)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "ok", out["status"])
	assert.Equal(t, "inventory-backend", out["service"])
	deps := out["dependencies"].(map[string]interface{})
	assert.Equal(t, "disabled", deps["redis"].(map[string]interface{})["status"])

	code, _ = get(t, app, "/health/reset?key=reset-key")
	assert.Equal(t, fiber.StatusServiceUnavailable, code)
}

func TestTrafficAndErrors(t *testing.T) {
	app, _ := setupHealthApp(t, true)
	get(t, app, "/boom")
	get(t, app, "/boom")

	code, raw := get(t, app, "/health/json")
	require.Equal(t, fiber.StatusOK, code)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	traffic := out["traffic"].(map[string]interface{})
	assert.Equal(t, float64(2), traffic["totalRequests"])
	assert.Equal(t, float64(2), traffic["failedCount"])

	code, raw = get(t, app, "/health/errors")
	require.Equal(t, fiber.StatusOK, code)
	var entries []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "/boom", entries[0]["path"])
	assert.Equal(t, float64(500), entries[0]["status"])
}

func TestReset(t *testing.T) {
	app, rdb := setupHealthApp(t, true)
	get(t, app, "/boom")

	code, _ := get(t, app, "/health/reset?key=wrong")
	assert.Equal(t, fiber.StatusForbidden, code)

	code, _ = get(t, app, "/health/reset?key=reset-key")
	require.Equal(t, fiber.StatusOK, code)
	n, err := rdb.Exists(context.Background(), middleware.KeyReqTotal).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
