package middlewares

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"chakula-api/logger"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init(&logger.Config{Level: "error", Output: io.Discard})
}

func newRouter(t *testing.T, exposeDetail bool, mw ...gin.HandlerFunc) *gin.Engine {
	t.Helper()
	r := gin.New()
	if err := r.SetTrustedProxies(nil); err != nil {
		t.Fatal(err)
	}
	r.Use(ErrorHandler(exposeDetail))
	r.Use(mw...)
	return r
}

func doRequest(r http.Handler, method, target, remoteAddr string, header map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, http.NoBody)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(w, req)
	return w
}
