package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	EnvelopesBuiltTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otr_envelopes_built_total",
			Help: "Total number of envelopes built.",
		},
		[]string{"mode"},
	)

	EnvelopeBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "otr_envelope_bytes",
			Help:    "Serialized envelope sizes.",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		},
		[]string{"mode"},
	)

	DeviceEncryptionFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otr_device_encryption_failures_total",
			Help: "Total number of recipient devices skipped or sent the failure payload.",
		},
		[]string{"reason"},
	)

	DestructionsFiredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otr_destructions_fired_total",
			Help: "Total number of destruction timers fired.",
		},
		[]string{"kind"},
	)
)

// MustRegister registers every collector on the default registry, labelled
// with the service name.
func MustRegister(serviceName string) {
	prometheus.WrapRegistererWith(prometheus.Labels{"service": serviceName}, prometheus.DefaultRegisterer).MustRegister(
		EnvelopesBuiltTotal,
		EnvelopeBytes,
		DeviceEncryptionFailuresTotal,
		DestructionsFiredTotal,
	)
}
