package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsDefaults(t *testing.T) {
	m := NewMetrics(Config{})
	require.NotNil(t, m.Registry)
	assert.Equal(t, DefaultMetricsAddress, m.Server.Addr)
}

func TestRegistryInstruments(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "test"})
	instruments := NewRegistryInstruments(m)

	instruments.ObserveRegistration("record", "created", 5*time.Millisecond)
	instruments.ObserveRegistration("record", "created", 2*time.Millisecond)
	instruments.ObserveRegistration("record", "incompatible", time.Millisecond)
	instruments.ObserveCompatibilityCheck("record", true)
	instruments.ObserveCompatibilityCheck("record", false)

	assert.Equal(t, float64(2),
		testutil.ToFloat64(instruments.registrations.WithLabelValues("record", "created")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(instruments.registrations.WithLabelValues("record", "incompatible")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(instruments.compatibilityChecks.WithLabelValues("record", "compatible")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(instruments.compatibilityChecks.WithLabelValues("record", "incompatible")))
}

func TestInstrumentsRegisteredOnScrapeRegistry(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "test"})
	instruments := NewRegistryInstruments(m)
	instruments.ObserveRegistration("record", "created", time.Millisecond)

	count, err := testutil.GatherAndCount(m.Registry,
		"schema_registrations_total",
		"schema_registration_duration_seconds")
	require.NoError(t, err)
	assert.NotZero(t, count)
}
