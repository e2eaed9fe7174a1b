package middlewares

import (
	"bytes"
	"io"
	"net/http"
	"testing"

	"chakula-api/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	r := newRouter(t, false, RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	t.Run("Should generate an id when none is sent", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/", "", nil)
		id := w.Header().Get(HeaderRequestID)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("Should keep a caller supplied id", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/", "", map[string]string{HeaderRequestID: "abc-123"})
		assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
	})
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger.Init(&logger.Config{Level: "info", Output: &buf})
	t.Cleanup(func() { logger.Init(&logger.Config{Level: "error", Output: io.Discard}) })

	r := newRouter(t, false, RequestID(), RequestLogger())
	r.GET("/meals", func(c *gin.Context) { c.Status(http.StatusOK) })
	doRequest(r, http.MethodGet, "/meals", "10.0.0.1:5000", nil)

	out := buf.String()
	assert.Contains(t, out, "path=/meals")
	assert.Contains(t, out, "status=200")
	assert.Contains(t, out, "client_ip=10.0.0.1")
}
