package utils_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/lumosedu/lumos-api/internal/utils"
)

func TestSendSuccessDefaultsMessage(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, "", map[string]string{"hello": "world"})
	})

	resp := performRequest(t, app, http.MethodGet, "/")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Success bool              `json:"success"`
		Message string            `json:"message"`
		Data    map[string]string `json:"data"`
	}
	decodeBody(t, resp, &payload)

	require.True(t, payload.Success)
	require.Equal(t, "success", payload.Message)
	require.Equal(t, "world", payload.Data["hello"])
}

func TestSendSuccessWithStatus(t *testing.T) {
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "created", nil)
	})

	resp := performRequest(t, app, http.MethodPost, "/")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var payload struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeBody(t, resp, &payload)

	require.True(t, payload.Success)
	require.Equal(t, "created", payload.Message)
}

func TestSendErrorEnvelope(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return utils.SendError(c, fiber.StatusBadRequest, "ALREADY_ENROLLED", "already enrolled in this course")
	})

	resp := performRequest(t, app, http.MethodGet, "/")
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var payload utils.APIErrorResponse
	decodeBody(t, resp, &payload)

	require.Equal(t, "ALREADY_ENROLLED", payload.Error.Code)
	require.Equal(t, "already enrolled in this course", payload.Error.Message)
}

func TestSendErrorFallbacks(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return utils.SendError(c, fiber.StatusInternalServerError, "", "")
	})

	resp := performRequest(t, app, http.MethodGet, "/")
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var payload utils.APIErrorResponse
	decodeBody(t, resp, &payload)

	require.Equal(t, "INTERNAL_ERROR", payload.Error.Code)
	require.NotEmpty(t, payload.Error.Message)
}

func performRequest(t *testing.T, app *fiber.App, method, target string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()

	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
