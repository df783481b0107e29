package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RPC endpoint labels. Paths are not used as labels to keep cardinality
// independent of addresses and hashes.
const (
	EndpointStatus   = "status"
	EndpointBalance  = "balance"
	EndpointSubmitTx = "tx_submit"
	EndpointGetTx    = "tx_get"
)

// CodeTransportError labels requests that never got an HTTP status.
const CodeTransportError = "transport_error"

type TxRejectedReason string

// ClientMetrics records what the SDK sends to a node. A nil *ClientMetrics
// is valid and records nothing.
type ClientMetrics struct {
	requests         *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	submittedTxCount prometheus.Counter
	rejectedTxCount  *prometheus.CounterVec
	timeToConfirm    prometheus.Histogram
}

// NewClientMetrics creates the SDK metrics and registers them with reg.
// A nil reg creates unregistered metrics.
func NewClientMetrics(reg prometheus.Registerer) *ClientMetrics {
	factory := promauto.With(reg)
	return &ClientMetrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sultan_client_rpc_requests_total",
				Help: "RPC requests sent to the node, by endpoint and HTTP status",
			},
			[]string{"endpoint", "code"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sultan_client_rpc_request_duration_seconds",
				Help:    "Latency of RPC requests, including body decode",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		submittedTxCount: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "sultan_client_submitted_tx_total",
				Help: "Transactions accepted by POST /tx",
			},
		),
		rejectedTxCount: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sultan_client_rejected_tx_total",
				Help: "Transactions the node refused, by error code",
			},
			[]string{"reason"},
		),
		timeToConfirm: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sultan_client_time_to_confirm_seconds",
				Help:    "Time from starting to wait on a transaction until it was reported confirmed",
				Buckets: []float64{1, 2, 4, 8, 16, 32, 64},
			},
		),
	}
}

// RecordRequest counts one RPC call. status 0 means the call failed before
// a response arrived.
func (m *ClientMetrics) RecordRequest(endpoint string, status int, d time.Duration) {
	if m == nil {
		return
	}
	code := CodeTransportError
	if status != 0 {
		code = strconv.Itoa(status)
	}
	m.requests.With(prometheus.Labels{"endpoint": endpoint, "code": code}).Inc()
	m.requestDuration.With(prometheus.Labels{"endpoint": endpoint}).Observe(d.Seconds())
}

func (m *ClientMetrics) RecordSubmittedTx() {
	if m == nil {
		return
	}
	m.submittedTxCount.Inc()
}

func (m *ClientMetrics) RecordRejectedTx(reason TxRejectedReason) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "other"
	}
	m.rejectedTxCount.With(prometheus.Labels{"reason": string(reason)}).Inc()
}

func (m *ClientMetrics) RecordTimeToConfirm(d time.Duration) {
	if m == nil {
		return
	}
	m.timeToConfirm.Observe(d.Seconds())
}
