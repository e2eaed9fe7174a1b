package middlewares

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"chakula-api/models"
	"chakula-api/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKeys struct {
	active map[string]bool
	err    error
	seen   []string
}

func (f *fakeKeys) FindActive(_ context.Context, key string) (*models.APIKey, error) {
	f.seen = append(f.seen, key)
	if f.err != nil {
		return nil, f.err
	}
	if f.active[key] {
		return &models.APIKey{Key: key, Active: true}, nil
	}
	return nil, services.ErrKeyNotFound
}

func authRouter(t *testing.T, keys KeyFinder) *gin.Engine {
	r := newRouter(t, false, APIKeyAuth(keys))
	r.GET("/meals", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func errorBody(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestAPIKeyAuth(t *testing.T) {
	t.Run("Should return 401 when no key is supplied", func(t *testing.T) {
		keys := &fakeKeys{}
		w := doRequest(authRouter(t, keys), http.MethodGet, "/meals", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "API key required", errorBody(t, w.Body.Bytes())["error"])
		assert.Empty(t, keys.seen)
	})

	t.Run("Should return 403 for an unknown key", func(t *testing.T) {
		keys := &fakeKeys{}
		w := doRequest(authRouter(t, keys), http.MethodGet, "/meals", "", map[string]string{"x-api-key": "invalidkey"})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Invalid API key", errorBody(t, w.Body.Bytes())["error"])
	})

	t.Run("Should admit a valid header key", func(t *testing.T) {
		keys := &fakeKeys{active: map[string]bool{"good": true}}
		w := doRequest(authRouter(t, keys), http.MethodGet, "/meals", "", map[string]string{"x-api-key": "good"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", w.Body.String())
	})

	t.Run("Should admit a valid query key", func(t *testing.T) {
		keys := &fakeKeys{active: map[string]bool{"good": true}}
		w := doRequest(authRouter(t, keys), http.MethodGet, "/meals?apiKey=good", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Should prefer the header over the query parameter", func(t *testing.T) {
		keys := &fakeKeys{active: map[string]bool{"good": true}}
		w := doRequest(authRouter(t, keys), http.MethodGet, "/meals?apiKey=good", "", map[string]string{"x-api-key": "bad"})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, []string{"bad"}, keys.seen)
	})

	t.Run("Should return 500 when the store fails", func(t *testing.T) {
		keys := &fakeKeys{err: errors.New("connection refused")}
		w := doRequest(authRouter(t, keys), http.MethodGet, "/meals", "", map[string]string{"x-api-key": "good"})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Internal server error", errorBody(t, w.Body.Bytes())["error"])
	})
}
