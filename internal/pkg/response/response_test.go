package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"inventory-backend/internal/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(t *testing.T, expose bool, err error) (int, ErrorBody) {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		c.Locals(LocalExposeDetails, expose)
		return Fail(c, err)
	})
	resp, e := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, e)
	raw, _ := io.ReadAll(resp.Body)
	var body ErrorBody
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestFail_MapsKind(t *testing.T) {
	status, body := call(t, false, fmt.Errorf("wrapped: %w", apperr.Conflict("Category value already exists")))
	assert.Equal(t, 409, status)
	assert.Equal(t, "error", body.Status)
	assert.Equal(t, "Category value already exists", body.Error.Message)
	assert.Equal(t, 409, body.Error.StatusCode)
}

func TestFail_HidesCauseInProduction(t *testing.T) {
	_, body := call(t, false, apperr.Storage("", errors.New("dial tcp: refused")))
	assert.Equal(t, "Internal Server Error", body.Error.Message)
	assert.Equal(t, map[string]interface{}{}, body.Error.Details)
}

func TestFail_ExposesCauseOutsideProduction(t *testing.T) {
	_, body := call(t, true, apperr.Storage("", errors.New("dial tcp: refused")))
	assert.Equal(t, map[string]interface{}{"error": "dial tcp: refused"}, body.Error.Details)
}

func TestSuccess_Envelope(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return Success(c, "ok", fiber.Map{"a": 1}, nil) })
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "ok", body["message"])
	assert.Equal(t, map[string]interface{}{"a": float64(1)}, body["data"])
}
