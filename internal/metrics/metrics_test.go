package metrics

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistered(t *testing.T) {
	t.Parallel()

	// Verify all metrics are non-nil (registered via promauto on package init).
	assert.NotNil(t, APICallsTotal)
	assert.NotNil(t, APICallErrorsTotal)
	assert.NotNil(t, APICallDuration)
	assert.NotNil(t, DailyUsage)
	assert.NotNil(t, DailyLimitHits)
	assert.NotNil(t, TokenExchangesTotal)
	assert.NotNil(t, TokenRefreshesTotal)
	assert.NotNil(t, TokenRefreshFailuresTotal)
	assert.NotNil(t, ListingStepsTotal)
	assert.NotNil(t, NotificationFailuresTotal)
}

func TestCounterLabelsWrite(t *testing.T) {
	t.Parallel()

	ListingStepsTotal.WithLabelValues("offer", "success").Inc()

	var m dto.Metric
	require.NoError(t, ListingStepsTotal.WithLabelValues("offer", "success").Write(&m))
	assert.GreaterOrEqual(t, m.GetCounter().GetValue(), float64(1))

	labels := map[string]string{}
	for _, lp := range m.GetLabel() {
		labels[lp.GetName()] = lp.GetValue()
	}
	assert.Equal(t, "offer", labels["step"])
	assert.Equal(t, "success", labels["status"])
}
