package middleware

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"inventory-backend/internal/application/auth"
	"inventory-backend/internal/pkg/apperr"
	"inventory-backend/internal/pkg/constants"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type blockList map[uint]bool

func (b blockList) IsBlocked(_ context.Context, id uint) (bool, error) {
	if id == 500 {
		return false, errors.New("lookup failed")
	}
	return b[id], nil
}

func newTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	s, err := auth.NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)
	return s
}

func send(t *testing.T, app *fiber.App, method, path string, headers map[string]string) (int, string, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	out := map[string]string{}
	for k := range resp.Header {
		out[k] = resp.Header.Get(k)
	}
	return resp.StatusCode, string(raw), out
}

func TestRequireAuth(t *testing.T) {
	tokens := newTokens(t)
	app := fiber.New()
	app.Get("/me", RequireAuth(tokens, blockList{2: true}), func(c *fiber.Ctx) error {
		return c.SendString(GetUser(c).Email)
	})

	code, body, _ := send(t, app, "GET", "/me", nil)
	assert.Equal(t, fiber.StatusUnauthorized, code)
	assert.Contains(t, body, "Unauthorized")

	code, body, _ = send(t, app, "GET", "/me", map[string]string{"Authorization": "Bearer nope"})
	assert.Equal(t, fiber.StatusUnauthorized, code)
	assert.Contains(t, body, "Invalid token")

	token, _, err := tokens.Issue(1, "a@example.com", constants.User)
	require.NoError(t, err)
	code, body, _ = send(t, app, "GET", "/me", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "a@example.com", body)

	code, _, _ = send(t, app, "GET", "/me", map[string]string{"Authorization": "Token " + token})
	assert.Equal(t, fiber.StatusUnauthorized, code)

	blocked, _, err := tokens.Issue(2, "b@example.com", constants.User)
	require.NoError(t, err)
	code, _, _ = send(t, app, "GET", "/me", map[string]string{"Authorization": "Bearer " + blocked})
	assert.Equal(t, fiber.StatusForbidden, code)

	broken, _, err := tokens.Issue(500, "c@example.com", constants.User)
	require.NoError(t, err)
	code, _, _ = send(t, app, "GET", "/me", map[string]string{"Authorization": "Bearer " + broken})
	assert.Equal(t, fiber.StatusInternalServerError, code)
}

func TestAuthorizePermission(t *testing.T) {
	tokens := newTokens(t)
	app := fiber.New()
	app.Get("/admin", RequireAuth(tokens, nil), AuthorizePermission(constants.ListUsers), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/misconfigured", RequireAuth(tokens, nil), AuthorizePermission("nope"), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	userToken, _, _ := tokens.Issue(1, "u@example.com", constants.User)
	adminToken, _, _ := tokens.Issue(2, "a@example.com", constants.Admin)

	code, body, _ := send(t, app, "GET", "/admin", map[string]string{"Authorization": "Bearer " + userToken})
	assert.Equal(t, fiber.StatusForbidden, code)
	assert.Contains(t, body, "Access denied. Admin only.")

	code, _, _ = send(t, app, "GET", "/admin", map[string]string{"Authorization": "Bearer " + adminToken})
	assert.Equal(t, fiber.StatusOK, code)

	code, _, _ = send(t, app, "GET", "/misconfigured", map[string]string{"Authorization": "Bearer " + adminToken})
	assert.Equal(t, fiber.StatusInternalServerError, code)
}

func TestCORS(t *testing.T) {
	app := fiber.New()
	app.Use(CORS(CORSConfig{AllowedOrigins: []string{"https://app.example.com"}}))
	app.Get("/x", func(c *fiber.Ctx) error { return c.SendString("ok") })

	code, _, h := send(t, app, "GET", "/x", nil)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "no-cache, no-store, must-revalidate", h["Cache-Control"])

	code, _, h = send(t, app, "GET", "/x", map[string]string{"Origin": "https://app.example.com"})
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "https://app.example.com", h["Access-Control-Allow-Origin"])
	assert.Contains(t, h["Access-Control-Allow-Headers"], "Authorization")

	code, _, _ = send(t, app, "OPTIONS", "/x", map[string]string{"Origin": "https://app.example.com"})
	assert.Equal(t, fiber.StatusNoContent, code)

	code, body, _ := send(t, app, "GET", "/x", map[string]string{"Origin": "https://evil.example.com"})
	assert.Equal(t, fiber.StatusForbidden, code)
	assert.Contains(t, body, "Not allowed by CORS")

	open := fiber.New()
	open.Use(CORS(CORSConfig{AllowedOrigins: []string{"*"}}))
	open.Get("/x", func(c *fiber.Ctx) error { return c.SendString("ok") })
	code, _, h = send(t, open, "GET", "/x", map[string]string{"Origin": "https://anything.test"})
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "https://anything.test", h["Access-Control-Allow-Origin"])
}

func TestTracing(t *testing.T) {
	app := fiber.New()
	app.Use(Tracing(), RouteLogger())
	app.Get("/x", func(c *fiber.Ctx) error { return c.SendString(GetTraceID(c)) })

	_, body, h := send(t, app, "GET", "/x", nil)
	assert.NotEmpty(t, body)
	assert.Equal(t, body, h["X-Trace-Id"])

	_, body, h = send(t, app, "GET", "/x", map[string]string{"X-Trace-Id": "abc-123"})
	assert.Equal(t, "abc-123", body)
	assert.Equal(t, "abc-123", h["X-Trace-Id"])
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(ResponseFormatter(true))
	app.Get("/fiber", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })
	app.Get("/app", func(c *fiber.Ctx) error { return apperr.Conflict("Category already exists") })
	app.Get("/raw", func(c *fiber.Ctx) error { return errors.New("disk on fire") })

	code, body, _ := send(t, app, "GET", "/fiber", nil)
	assert.Equal(t, fiber.StatusTeapot, code)
	assert.Contains(t, body, "short and stout")

	code, body, _ = send(t, app, "GET", "/app", nil)
	assert.Equal(t, fiber.StatusConflict, code)
	assert.Contains(t, body, "Category already exists")

	code, body, _ = send(t, app, "GET", "/raw", nil)
	assert.Equal(t, fiber.StatusInternalServerError, code)
	assert.Contains(t, body, "Internal Server Error")
	assert.Contains(t, body, "disk on fire")

	code, _, _ = send(t, app, "GET", "/missing", nil)
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestHealthMarker(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(HealthMarker(rdb))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/fail", func(c *fiber.Ctx) error { return errors.New("boom") })
	app.Get("/health/json", func(c *fiber.Ctx) error { return c.SendString("skip") })

	send(t, app, "GET", "/ok", nil)
	send(t, app, "GET", "/fail", nil)
	send(t, app, "GET", "/health/json", nil)

	ctx := context.Background()
	total, _ := rdb.Get(ctx, KeyReqTotal).Int()
	failed, _ := rdb.Get(ctx, KeyReqErrors).Int()
	count, _ := rdb.Get(ctx, KeyResCount).Int()
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 2, count)
	n, _ := rdb.LLen(ctx, KeyErrorLog).Result()
	assert.Equal(t, int64(1), n)

	passthrough := fiber.New()
	passthrough.Use(HealthMarker(nil))
	passthrough.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	code, _, _ := send(t, passthrough, "GET", "/ok", nil)
	assert.Equal(t, fiber.StatusOK, code)
}
