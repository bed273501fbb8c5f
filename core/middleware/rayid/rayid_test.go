package rayid

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp() *fiber.App {
	app := fiber.New()
	app.Use(New())
	app.Get("/", func(c *fiber.Ctx) error {
		id, _ := c.Locals(LocalKey).(string)
		return c.SendString(id)
	})
	return app
}

func TestGeneratesID(t *testing.T) {
	resp, err := newApp().Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	id := resp.Header.Get(Header)
	assert.Equal(t, id, string(body))
	_, err = uuid.Parse(id)
	assert.NoError(t, err)
}

func TestKeepsCallerID(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(Header, "ray-123")
	resp, err := newApp().Test(req)
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "ray-123", string(body))
	assert.Equal(t, "ray-123", resp.Header.Get(Header))
}
