package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.FarmMutation("add_plot")
		m.StoreWriteFailed("k")
		m.Upstream("openweather", errors.New("x"))
		m.ChatReply("rules")
		m.WeatherRefreshed(1)
	})
	assert.Nil(t, m.Registry())
}

func TestCountersExposed(t *testing.T) {
	m := New()
	m.FarmMutation("add_plot")
	m.FarmMutation("add_plot")
	m.Upstream("openai", nil)
	m.Upstream("openai", errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.farmMutations.WithLabelValues("add_plot")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.upstreamCalls.WithLabelValues("openai", "error")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "micampo_farm_mutations_total"))
}
