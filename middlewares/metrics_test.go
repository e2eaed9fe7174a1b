package middlewares

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Middleware(t *testing.T) {
	t.Run("Should count requests by route template", func(t *testing.T) {
		m := NewMetrics(prometheus.NewRegistry())
		r := newRouter(t, false, m.Middleware())
		r.GET("/meals/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

		doRequest(r, http.MethodGet, "/meals/1", "", nil)
		doRequest(r, http.MethodGet, "/meals/2", "", nil)
		doRequest(r, http.MethodGet, "/nowhere", "", nil)

		assert.Equal(t, float64(2), testutil.ToFloat64(m.requests.WithLabelValues("GET", "/meals/:id", "200")))
		assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
	})

	t.Run("Should tolerate a nil receiver", func(t *testing.T) {
		var m *Metrics
		r := newRouter(t, false, m.Middleware())
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
		assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/", "", nil).Code)
		m.RateLimited("strict")
	})
}
