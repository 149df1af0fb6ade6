package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Rejection reasons used as the "reason" label of RejectionsTotal
const (
	ReasonMalformed     = "malformed_input"
	ReasonNotAuthorized = "not_authorized"
	ReasonDuplicate     = "duplicate_content"
	ReasonSigning       = "signing_failure"
)

// Nonce modes used as the "mode" label of NoncesTotal
const (
	NonceIssued   = "issued"
	NonceExplicit = "explicit"
)

var (
	// PermitsSigned counts permits signed successfully
	PermitsSigned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "permit_oracle_permits_signed_total",
			Help: "Total number of mint permits signed",
		},
	)

	// RejectionsTotal counts rejected requests by reason
	RejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "permit_oracle_rejections_total",
			Help: "Total number of rejected permit requests",
		},
		[]string{"reason"},
	)

	// SigningDuration tracks digest construction plus signing time
	SigningDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "permit_oracle_signing_duration_seconds",
			Help:    "Digest and signature duration in seconds",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05},
		},
	)

	// NoncesTotal counts nonces used by permits, split by registry-issued and caller-supplied
	NoncesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "permit_oracle_nonces_total",
			Help: "Total number of nonces used in permits",
		},
		[]string{"mode"},
	)

	// BurnedTotal counts requests whose fingerprint or nonce was consumed
	// but no signature was produced
	BurnedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "permit_oracle_burned_total",
			Help: "Total number of admitted fingerprints left without a signed permit",
		},
	)

	// AllowlistSize tracks the number of allowed creators
	AllowlistSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "permit_oracle_allowlist_size",
			Help: "Number of creators on the allowlist",
		},
	)

	// FingerprintsAdmitted tracks the size of the dedup store
	FingerprintsAdmitted = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "permit_oracle_fingerprints_admitted",
			Help: "Number of content fingerprints admitted since start",
		},
	)
)
