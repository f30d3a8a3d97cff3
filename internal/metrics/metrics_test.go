package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistered(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, HealthzUp)
	assert.NotNil(t, ReadyzUp)
	assert.NotNil(t, CatalogRequestsTotal)
	assert.NotNil(t, CatalogRequestDuration)
	assert.NotNil(t, CatalogErrorsTotal)
	assert.NotNil(t, CacheHitsTotal)
	assert.NotNil(t, CacheMissesTotal)
	assert.NotNil(t, QuotaUsage)
	assert.NotNil(t, QuotaLimitHits)
}

func TestCatalogRequestsTotal_Labels(t *testing.T) {
	t.Parallel()

	before := testutil.ToFloat64(CatalogRequestsTotal.WithLabelValues("search", "418"))
	CatalogRequestsTotal.WithLabelValues("search", "418").Inc()
	assert.InDelta(t, before+1, testutil.ToFloat64(CatalogRequestsTotal.WithLabelValues("search", "418")), 0.001)
}
