package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/0glabs/0g-snapshot/common/api"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNotFound = api.NewBusinessError(101, "Not found")

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	return api.NewRouter(func(router *gin.Engine) {
		router.POST("/ok", api.Wrap(func(c *gin.Context) (interface{}, error) {
			return []string{"a", "b"}, nil
		}))
		router.POST("/nil", api.Wrap(func(c *gin.Context) (interface{}, error) {
			return nil, nil
		}))
		router.POST("/business", api.Wrap(func(c *gin.Context) (interface{}, error) {
			return nil, errNotFound.WithData("missing")
		}))
		router.POST("/validation", api.Wrap(func(c *gin.Context) (interface{}, error) {
			var input struct {
				Name string `json:"name" binding:"required"`
			}
			return nil, c.ShouldBindJSON(&input)
		}))
		router.POST("/internal", api.Wrap(func(c *gin.Context) (interface{}, error) {
			return nil, errors.New("boom")
		}))
	})
}

func serve(t *testing.T, path string) (int, api.BusinessError) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	newTestRouter().ServeHTTP(w, req)

	var resp api.BusinessError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	return w.Code, resp
}

func TestWrap(t *testing.T) {
	tests := []struct {
		path   string
		status int
		code   int
		data   interface{}
	}{
		{"/ok", http.StatusOK, 0, []interface{}{"a", "b"}},
		{"/nil", http.StatusOK, 0, nil},
		{"/business", http.StatusOK, 101, "missing"},
		{"/validation", http.StatusOK, api.ErrValidation.Code, nil},
		{"/internal", 600, api.ErrInternal.Code, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			status, resp := serve(t, tt.path)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, resp.Code)
			if tt.data != nil {
				assert.Equal(t, tt.data, resp.Data)
			}
		})
	}
}

func TestBusinessErrorIs(t *testing.T) {
	err := errors.WithMessage(errNotFound.WithData("x"), "lookup")
	assert.ErrorIs(t, err, errNotFound)
	assert.NotErrorIs(t, err, api.ErrValidation)
	assert.Equal(t, "Not found", errNotFound.Error())
}

func TestServeShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- api.Serve(ctx, "127.0.0.1:0", func(*gin.Engine) {})
	}()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server not stopped")
	}
}
