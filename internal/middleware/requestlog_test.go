package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bizsite/internal/auth"
	"bizsite/internal/models"
	"bizsite/internal/requestlog"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLog(t *testing.T) {
	ring := requestlog.New(10)
	codec := auth.NewTokenCodec(testSecret, time.Hour)

	app := fiber.New()
	app.Use(Session(codec, testCookie))
	app.Use(RequestLog(ring, "/health"))
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/missing", func(c *fiber.Ctx) error {
		return models.NewNotFoundError("Product", "x")
	})

	token, err := codec.Sign(7, false)
	require.NoError(t, err)

	for _, path := range []string{"/health", "/ok", "/missing"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	entries := ring.Recent(10)
	require.Len(t, entries, 2, "skipped paths are not recorded")
	assert.Equal(t, "/missing", entries[0].Path)
	assert.Equal(t, http.StatusNotFound, entries[0].Status)
	assert.Equal(t, "/ok", entries[1].Path)
	assert.Equal(t, http.StatusOK, entries[1].Status)
	assert.Equal(t, uint(7), entries[1].UserID)
	assert.Equal(t, http.MethodGet, entries[1].Method)
	assert.Less(t, entries[1].Seq, entries[0].Seq)
}

func TestRequestLog_EntriesOutliveRequestBuffers(t *testing.T) {
	ring := requestlog.New(20)

	app := fiber.New()
	app.Use(RequestLog(ring))
	app.Post("/*", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	app.Get("/*", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	calls := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/products/first-product"},
		{http.MethodPost, "/a"},
		{http.MethodGet, "/api/blog/another-post-with-a-long-slug"},
		{http.MethodPost, "/zz"},
	}
	for _, call := range calls {
		req := httptest.NewRequest(call.method, call.path, nil)
		resp, err := app.Test(req, 5000)
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	entries := ring.Recent(20)
	require.Len(t, entries, len(calls))
	for i, call := range calls {
		e := entries[len(calls)-1-i]
		assert.Equal(t, call.path, e.Path)
		assert.Equal(t, call.method, e.Method)
		assert.NotEmpty(t, e.IP)
	}
}
