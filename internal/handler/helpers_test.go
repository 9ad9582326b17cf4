package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"idportal/internal/auth"
	"idportal/internal/middleware"
	"idportal/internal/model"
	"idportal/internal/service"
	"idportal/pkg/response"
)

const testToken = "test-token"

// roleResolver authenticates testToken as an admin user with role.
type roleResolver struct {
	role string
}

func (r roleResolver) ResolveSession(_ context.Context, token string) (*auth.Session, error) {
	if token != testToken {
		return &auth.Session{State: auth.SessionUnauthenticated}, nil
	}
	return &auth.Session{
		State: auth.SessionAuthenticated,
		User:  &model.AdminUser{ID: "uid-1", Email: "admin@example.org", Name: "Admin", Role: r.role},
	}, nil
}

// testRouter returns an engine with a public /api group and an /api/admin
// group that authenticates testToken with role.
func testRouter(role string) (*gin.Engine, *gin.RouterGroup, *gin.RouterGroup) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	admin := api.Group("/admin", middleware.RequireAdmin(roleResolver{role: role}, "/admin/login", logger))
	return r, api, admin
}

var testActor = service.Actor{UserID: "uid-1", Email: "admin@example.org"}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+testToken)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decode reads the envelope and, when data is non-nil, its data field.
func decode(t *testing.T, w *httptest.ResponseRecorder, data any) response.Response {
	t.Helper()

	var env struct {
		response.Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env.Response
}
