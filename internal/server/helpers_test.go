package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tactac/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- humanizeParam (pure function, no HTTP) ---

func TestHumanizeParam(t *testing.T) {
	tests := []struct {
		param    string
		expected string
	}{
		{"id", "ID"},
		{"userId", "user ID"},
		{"postId", "post ID"},
		{"commentId", "comment ID"},
		{"parentCommentId", "parent comment ID"},
		{"username", "username"},
	}
	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			assert.Equal(t, tt.expected, humanizeParam(tt.param))
		})
	}
}

// --- parseID ---

func TestParseID(t *testing.T) {
	app := fiber.New()
	app.Get("/comments/:commentId", func(c *fiber.Ctx) error {
		id, err := parseID(c, "commentId")
		if err != nil {
			return nil
		}
		return c.JSON(fiber.Map{"id": id})
	})

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantID     float64
	}{
		{"valid", "/comments/42", http.StatusOK, 42},
		{"non-numeric", "/comments/abc", http.StatusBadRequest, 0},
		{"zero", "/comments/0", http.StatusBadRequest, 0},
		{"negative", "/comments/-3", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantStatus == http.StatusOK {
				var body map[string]float64
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, tt.wantID, body["id"])
				return
			}
			var body models.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, "Invalid comment ID", body.Message)
			assert.Equal(t, models.CodeValidation, body.Code)
		})
	}
}

// --- pageParams ---

func TestPageParams(t *testing.T) {
	app := fiber.New()
	app.Get("/items", func(c *fiber.Ctx) error {
		page, limit := pageParams(c)
		return c.JSON(fiber.Map{"page": page, "limit": limit})
	})

	tests := []struct {
		query     string
		wantPage  float64
		wantLimit float64
	}{
		{"", 1, 0},
		{"?page=3&limit=5", 3, 5},
		{"?page=oops", 1, 0},
	}
	for _, tt := range tests {
		t.Run("query"+tt.query, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items"+tt.query, nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			var body map[string]float64
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantPage, body["page"])
			assert.Equal(t, tt.wantLimit, body["limit"])
		})
	}
}

// --- respondError ---

func TestRespondError_HidesInternalCause(t *testing.T) {
	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return respondError(c, models.NewInternalError(errors.New("pq: connection refused")))
	})
	app.Get("/conflict", func(c *fiber.Ctx) error {
		return respondError(c, models.NewConflictError("Username already taken"))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Internal server error", body.Message)
	assert.NotContains(t, body.Message, "pq")

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/conflict", nil))
	require.NoError(t, err)
	body = models.ErrorResponse{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, models.CodeConflict, body.Code)
	assert.Equal(t, "Username already taken", body.Message)
}

func TestParseBody_Malformed(t *testing.T) {
	app := fiber.New()
	app.Post("/things", func(c *fiber.Ctx) error {
		var dst struct {
			Name string `json:"name"`
		}
		if err := parseBody(c, &dst); err != nil {
			return nil
		}
		return c.SendStatus(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/things", strings.NewReader(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid request body", body.Message)
}
