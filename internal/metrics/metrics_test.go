package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/api/Events/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/Events/:id", "204"))

	for _, id := range []string{"1", "2", "3"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/Events/"+id, nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/Events/:id", "204"))
	assert.Equal(t, float64(3), after-before)
}

func TestHandlerExposesViewCounter(t *testing.T) {
	ObserveView(ViewTracked)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `tampabay_event_views_tracked_total{result="tracked"}`)
}
