package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessTime(t *testing.T) {
	app := fiber.New()
	app.Use(ProcessTime())
	app.Get("/slow", func(c fiber.Ctx) error {
		time.Sleep(15 * time.Millisecond)
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/slow", nil), fiber.TestConfig{Timeout: 5 * time.Second})
	require.NoError(t, err)
	defer resp.Body.Close()

	header := resp.Header.Get("X-Process-Time")
	require.NotEmpty(t, header)

	ms, err := strconv.ParseInt(header, 10, 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, ms, int64(10))
}
