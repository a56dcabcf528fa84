package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"tactac/internal/config"
	"tactac/internal/models"
	"tactac/internal/service"
	"tactac/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "server-test-secret-0123456789abcdef"

type testServer struct {
	srv     *Server
	app     *fiber.App
	db      *gorm.DB
	objects *testutil.MemoryStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.OpenTestDB(t)
	objects := testutil.NewMemoryStore()
	cfg := &config.Config{
		Env:         "test",
		JWTSecret:   testSecret,
		JWTTTLHours: 1,
		BcryptCost:  bcrypt.MinCost,
	}

	srv, err := NewServerWithDeps(cfg, db, nil, objects)
	require.NoError(t, err)
	return &testServer{srv: srv, app: srv.App(), db: db, objects: objects}
}

// user creates an account with password "Password1" and returns a bearer token for it.
func (ts *testServer) user(t *testing.T, name string, opts ...testutil.UserOption) (*models.User, string) {
	t.Helper()
	opts = append([]testutil.UserOption{testutil.WithPassword("Password1")}, opts...)
	u := testutil.CreateUser(t, ts.db, name, opts...)
	token, err := service.NewCredentialService(testSecret, time.Hour, bcrypt.MinCost).IssueToken(u.ID)
	require.NoError(t, err)
	return u, token
}

// envelope is the decoded response body of any API route.
type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Code    string              `json:"code"`
	Data    json.RawMessage     `json:"data"`
	Errors  []models.FieldError `json:"errors"`
}

func (e envelope) decode(t *testing.T, dst interface{}) {
	t.Helper()
	require.NotEmpty(t, e.Data, "response has no data")
	require.NoError(t, json.Unmarshal(e.Data, dst))
}

func (ts *testServer) send(t *testing.T, req *http.Request, token string) (int, envelope) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), "body: %s", raw)
	return resp.StatusCode, env
}

// do sends a JSON request. body may be nil.
func (ts *testServer) do(t *testing.T, method, path string, body interface{}, token string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return ts.send(t, req, token)
}

// multipartRequest builds a form with text fields and an optional PNG under fileField.
func multipartRequest(t *testing.T, method, path string, fields map[string]string, fileField string, file []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename="upload.png"`, fileField))
		h.Set("Content-Type", "image/png")
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestServer_UnknownRouteUsesEnvelope(t *testing.T) {
	ts := newTestServer(t)

	status, env := ts.do(t, http.MethodGet, "/api/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.Success)
	assert.Equal(t, models.CodeNotFound, env.Code)
}

func TestServer_HealthWithoutRedis(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "healthy", body.Checks["database"])
	assert.Equal(t, "unavailable", body.Checks["redis"])
}

func TestNewServerWithDeps_RequiresDependencies(t *testing.T) {
	_, err := NewServerWithDeps(&config.Config{}, nil, nil, testutil.NewMemoryStore())
	assert.Error(t, err)

	_, err = NewServerWithDeps(&config.Config{}, testutil.OpenTestDB(t), nil, nil)
	assert.Error(t, err)
}
