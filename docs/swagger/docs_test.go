package swagger_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	_ "mgzdb/docs/swagger"

	"github.com/gofiber/fiber/v2"
	fiberswagger "github.com/gofiber/swagger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

var routes = []string{
	"/matches/{id}",
	"/files/{id}",
	"/series/{id}",
	"/summary",
	"/peer/matches",
	"/peer/files/{id}",
	"/audit",
	"/audit/{hash}",
}

func TestReadDoc(t *testing.T) {
	doc, err := swag.ReadDoc()
	require.NoError(t, err)

	var spec struct {
		Swagger string                     `json:"swagger"`
		Paths   map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &spec))
	assert.Equal(t, "2.0", spec.Swagger)
	for _, r := range routes {
		assert.Contains(t, spec.Paths, r)
	}
	assert.Len(t, spec.Paths, len(routes))
}

func TestHandlerServesDoc(t *testing.T) {
	app := fiber.New()
	app.Get("/swagger/*", fiberswagger.HandlerDefault)

	resp, err := app.Test(httptest.NewRequest("GET", "/swagger/doc.json", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, json.Valid(body))
	assert.Contains(t, string(body), "/peer/files/{id}")
}
