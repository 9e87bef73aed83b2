package ez

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/domain"
	resp "taskboard/internal/transport/http/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestFromDomain(t *testing.T) {
	cases := []struct {
		err  error
		kind resp.Kind
		msg  string
	}{
		{domain.Invalid("Task title is required"), resp.KindInvalidInput, "Task title is required"},
		{fmt.Errorf("wrap: %w", domain.ErrDuplicateEmail), resp.KindConflict, "User already exists with this email"},
		{domain.ErrInvalidCredentials, resp.KindInvalidCredentials, "Invalid email or password"},
		{domain.ErrNotFound, resp.KindNotFound, "Not Found"},
		{NotFound("Task not found"), resp.KindNotFound, "Task not found"},
		{context.DeadlineExceeded, resp.KindTimeout, ""},
		{errors.New("db exploded"), resp.KindInternal, "Internal server error"},
	}
	for _, tc := range cases {
		ae := FromDomain(tc.err)
		assert.Equal(t, tc.kind, ae.Kind, tc.err.Error())
		assert.Equal(t, tc.msg, ae.Msg, tc.err.Error())
	}
}

type echoIn struct {
	Name string `json:"name"`
}

func newEngine(register func(EZ)) *gin.Engine {
	r := gin.New()
	register(New(r.Group("/api"), nil))
	return r
}

func TestRegisterAction_JSONAndStatus(t *testing.T) {
	r := newEngine(func(e EZ) {
		RegisterAction(e, Action[echoIn, gin.H]{
			Method: http.MethodPost,
			Path:   "/echo",
			Binder: BindJSON,
			Status: http.StatusCreated,
			Handler: func(c *gin.Context, in *echoIn) (gin.H, error) {
				return gin.H{"name": in.Name}, nil
			},
		})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/echo", strings.NewReader(`{"name":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"name":"x"}`, w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/echo", strings.NewReader(`{"name":`))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterAction_InternalErrorIsGeneric(t *testing.T) {
	r := newEngine(func(e EZ) {
		RegisterAction(e, Action[struct{}, gin.H]{
			Method: http.MethodGet,
			Path:   "/boom",
			Binder: BindNone,
			Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
				return nil, errors.New("pq: connection refused at 10.0.0.3")
			},
		})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body resp.ErrBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, resp.KindInternal, body.Code)
	assert.NotContains(t, body.Error, "10.0.0.3")
}

func TestRegisterAction_MethodRouting(t *testing.T) {
	r := newEngine(func(e EZ) {
		for _, m := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPost} {
			m := m
			RegisterAction(e, Action[struct{}, gin.H]{
				Method: m,
				Path:   "/m",
				Binder: BindNone,
				Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
					return gin.H{"method": m}, nil
				},
			})
		}
	})
	for _, m := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPost} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(m, "/api/m", nil))
		assert.Equal(t, http.StatusOK, w.Code, m)
		assert.JSONEq(t, fmt.Sprintf(`{"method":%q}`, m), w.Body.String())
	}
}
