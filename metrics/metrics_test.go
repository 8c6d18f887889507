package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewServerMetrics(reg)

	m.ObserveRequest("/api/orders", http.StatusCreated, 12*time.Millisecond)
	m.ObserveLookupPath("user_id", 3, nil)
	m.ObserveLookupPath("customer_email", 0, errors.New("boom"))
	m.ObserveOrderEvent("order_created")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("/api/orders", "201")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.LookupHits.WithLabelValues("user_id")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LookupPaths.WithLabelValues("customer_email", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrderEvents.WithLabelValues("order_created")))

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "restaurant_orders_http_requests_total")
	assert.Contains(t, rec.Body.String(), "restaurant_orders_order_lookup_path_queries_total")
}
