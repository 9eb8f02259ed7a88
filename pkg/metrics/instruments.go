package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RegistryInstruments carries the schema-registry domain instruments. It
// implements the registry service's Metrics interface.
type RegistryInstruments struct {
	registrations        *prometheus.CounterVec
	registrationDuration *prometheus.HistogramVec
	compatibilityChecks  *prometheus.CounterVec
}

// NewRegistryInstruments creates and registers the domain instruments on the
// given registry.
func NewRegistryInstruments(m *Metrics) *RegistryInstruments {
	instruments := &RegistryInstruments{
		registrations: createCounterVec(
			"schema_registrations_total",
			"Schema registration attempts by schema type and outcome.",
			[]string{"schema_type", "outcome"},
		),
		registrationDuration: createHistogramVec(
			"schema_registration_duration_seconds",
			"Latency of schema registration attempts.",
			[]string{"schema_type"},
			prometheus.DefBuckets,
		),
		compatibilityChecks: createCounterVec(
			"schema_compatibility_checks_total",
			"Compatibility evaluations by schema type and result.",
			[]string{"schema_type", "result"},
		),
	}

	m.Registry.MustRegister(
		instruments.registrations,
		instruments.registrationDuration,
		instruments.compatibilityChecks,
	)

	return instruments
}

// ObserveRegistration records one registration attempt.
func (r *RegistryInstruments) ObserveRegistration(schemaType, outcome string, duration time.Duration) {
	r.registrations.WithLabelValues(schemaType, outcome).Inc()
	r.registrationDuration.WithLabelValues(schemaType).Observe(duration.Seconds())
}

// ObserveCompatibilityCheck records one compatibility evaluation.
func (r *RegistryInstruments) ObserveCompatibilityCheck(schemaType string, compatible bool) {
	result := "compatible"
	if !compatible {
		result = "incompatible"
	}
	r.compatibilityChecks.WithLabelValues(schemaType, result).Inc()
}
