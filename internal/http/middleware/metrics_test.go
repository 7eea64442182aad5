package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_CountsByRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())
	r.POST("/works/:id/accept", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	route := testutil.ToFloat64(httpReqs.WithLabelValues("POST", "/works/:id/accept", "200"))
	missing := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/nope", "404"))

	for _, id := range []string{"1", "2"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/works/"+id+"/accept", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("accept %s -> %d", id, w.Code)
		}
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	if got := testutil.ToFloat64(httpReqs.WithLabelValues("POST", "/works/:id/accept", "200")); got != route+2 {
		t.Fatalf("route counter = %v; want %v", got, route+2)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/nope", "404")); got != missing+1 {
		t.Fatalf("fallback counter = %v; want %v", got, missing+1)
	}
	if got := testutil.ToFloat64(httpInflight); got != 0 {
		t.Fatalf("inflight = %v; want 0", got)
	}
}
