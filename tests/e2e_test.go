package tests

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolah/tessa/internal/cli"
)

const petstoreYAML = `openapi: 3.0.3
info:
  title: Pet Store
  version: 1.0.0
servers:
  - url: https://api.example.com/v1
paths:
  /pets:
    get:
      operationId: listPets
      summary: List pets
      tags: [pets]
      parameters:
        - name: limit
          in: query
          schema:
            type: integer
    post:
      operationId: createPet
      summary: Create a pet
      tags: [pets]
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Pet'
  /pets/{petId}:
    parameters:
      - name: petId
        in: path
        required: true
        schema:
          type: string
    get:
      operationId: getPet
      summary: Fetch a pet by id
      tags: [pets]
      parameters:
        - name: filter
          in: query
          schema:
            type: string
        - name: X-Request-Id
          in: header
          schema:
            type: string
    delete:
      operationId: deletePet
      summary: Remove a pet
      tags: [pets]
  /secure:
    get:
      operationId: secureData
      summary: Read data that needs a key
      tags: [admin]
      parameters:
        - name: X-Api-Key
          in: header
          required: true
          schema:
            type: string
components:
  schemas:
    Pet:
      type: object
      required: [name]
      properties:
        name:
          type: string
        id:
          type: integer
          example: 99
`

// startAPI serves the spec document plus a small live implementation of it.
func startAPI(t *testing.T) *httptest.Server {
	t.Helper()

	e := echo.New()

	e.GET("/openapi.yaml", func(c echo.Context) error {
		return c.Blob(http.StatusOK, "application/yaml", []byte(petstoreYAML))
	})
	e.GET("/pets", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"pets": []string{"Rex", "Bella"}})
	})
	e.POST("/pets", func(c echo.Context) error {
		data, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return err
		}
		return c.Blob(http.StatusCreated, "application/json", data)
	})
	e.GET("/pets/:petId", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"id":        c.Param("petId"),
			"filter":    c.QueryParam("filter"),
			"requestId": c.Request().Header.Get("X-Request-Id"),
		})
	})
	e.DELETE("/pets/:petId", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	e.GET("/secure", func(c echo.Context) error {
		if c.Request().Header.Get("X-Api-Key") != "letmein" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		return c.JSON(http.StatusOK, map[string]string{"secret": "s3cr3t"})
	})

	server := httptest.NewServer(e)
	t.Cleanup(server.Close)
	return server
}

func writeSpecFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(petstoreYAML), 0644))
	return path
}

// runCLI executes the real command tree with the given arguments and
// returns what it wrote to stdout and stderr.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	root := cli.RootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	if stdin != "" {
		root.SetIn(strings.NewReader(stdin))
	}
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestCallDryRun(t *testing.T) {
	path := writeSpecFile(t)

	out, _, err := runCLI(t, "",
		"call", path, "get /pets/42", "--dry-run",
		"-q", "filter=active",
		"-H", "X-Request-Id: req-e2e")
	require.NoError(t, err)

	assert.Contains(t, out, "GET https://api.example.com/v1/pets/42?filter=active\n")
	assert.Contains(t, out, "X-Request-Id: req-e2e\n")
}

func TestCallRoundTrip(t *testing.T) {
	api := startAPI(t)

	// No --body flag, so the synthesized example body is sent; the live
	// handler echoes it back.
	out, _, err := runCLI(t, "",
		"call", api.URL+"/openapi.yaml", "createPet",
		"--server", api.URL)
	require.NoError(t, err)

	assert.Contains(t, out, "201 Created (")
	assert.Contains(t, out, "Content-Type: application/json")
	assert.Contains(t, out, "{\n  \"name\": \"string\",\n  \"id\": 99\n}")
}

func TestCallBodyFromFile(t *testing.T) {
	api := startAPI(t)
	specPath := writeSpecFile(t)

	bodyPath := filepath.Join(t.TempDir(), "body.json")
	require.NoError(t, os.WriteFile(bodyPath, []byte(`{"name":"Rex","id":7}`), 0644))

	out, _, err := runCLI(t, "",
		"call", specPath, "createPet",
		"--server", api.URL,
		"--body", "@"+bodyPath)
	require.NoError(t, err)

	assert.Contains(t, out, "201 Created (")
	assert.Contains(t, out, "\"name\": \"Rex\"")
	assert.Contains(t, out, "\"id\": 7")
}

func TestCallHeaderFlagFillsRequiredParameter(t *testing.T) {
	api := startAPI(t)
	specPath := writeSpecFile(t)

	out, _, err := runCLI(t, "",
		"call", specPath, "secureData",
		"--server", api.URL,
		"-H", "X-Api-Key: letmein")
	require.NoError(t, err)

	assert.Contains(t, out, "200 OK (")
	assert.Contains(t, out, "\"secret\": \"s3cr3t\"")
}

func TestCallRejectedResponseIsStillPrinted(t *testing.T) {
	api := startAPI(t)
	specPath := writeSpecFile(t)

	out, _, err := runCLI(t, "",
		"call", specPath, "secureData",
		"--server", api.URL,
		"-H", "X-Api-Key: wrong")
	require.NoError(t, err)

	assert.Contains(t, out, "401 Unauthorized (")
	assert.Contains(t, out, "\"error\": \"unauthorized\"")
}

func TestCallMissingRequiredHeader(t *testing.T) {
	api := startAPI(t)
	specPath := writeSpecFile(t)

	_, _, err := runCLI(t, "",
		"call", specPath, "secureData",
		"--server", api.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required header parameter "X-Api-Key" has no value`)
}

func TestCallUnreachableServer(t *testing.T) {
	specPath := writeSpecFile(t)

	dead := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	deadURL := dead.URL
	dead.Close()

	out, _, err := runCLI(t, "",
		"call", specPath, "createPet",
		"--server", deadURL)
	require.NoError(t, err)
	assert.Contains(t, out, "0 Network Error (")
	assert.Contains(t, out, "connection refused")
}

func TestCallDeleteSendsNoBody(t *testing.T) {
	api := startAPI(t)
	specPath := writeSpecFile(t)

	out, _, err := runCLI(t, "",
		"call", specPath, "deletePet",
		"--server", api.URL,
		"-p", "petId=9")
	require.NoError(t, err)

	assert.Contains(t, out, "204 No Content (")
}
