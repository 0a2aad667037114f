package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	labelMethod = "method"
	labelType   = "type"
	labelKind   = "kind"
	typeSuccess = "success"
	typeFailed  = "failed"
)

var (
	relayerRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relayer_requests",
		Help: "The total number of http requests (counter)",
	}, []string{labelType})

	relayerProofs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relayer_proofs",
		Help: "The total number of relayed proofs (counter)",
	}, []string{labelType})

	failedProofs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relayer_failed_proofs",
		Help: "The total number of failed proofs by error kind (counter)",
	}, []string{labelKind})

	rejectedRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relayer_rejected_requests",
		Help: "The total number of proof requests rejected before any upstream call, by error kind (counter)",
	}, []string{labelKind})

	requestTime = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "request_time",
		Help:    "A histogram of requests duration",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 10, 30},
	}, []string{labelMethod, labelType})

	proofUpstreamTime = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "proof_upstream_time",
		Help:    "A histogram of eth_getProof duration",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 10, 30},
	}, []string{labelMethod, labelType})

	proofNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "proof_nodes",
		Help:    "A histogram of the number of storage proof nodes relayed",
		Buckets: []float64{1, 2, 3, 4, 5, 6, 8, 10, 12, 16},
	})
)

func incFailedRequests() {
	relayerRequests.With(prometheus.Labels{
		labelType: typeFailed,
	}).Inc()
}

func incSuccessRequests() {
	relayerRequests.With(prometheus.Labels{
		labelType: typeSuccess,
	}).Inc()
}

func AddFailedRequest(message string, dur float64) {
	incFailedRequests()
	requestTime.With(prometheus.Labels{
		labelMethod: message,
		labelType:   typeFailed,
	}).Observe(dur)
}

func AddSuccessRequest(message string, dur float64) {
	incSuccessRequests()
	requestTime.With(prometheus.Labels{
		labelMethod: message,
		labelType:   typeSuccess,
	}).Observe(dur)
}

func AddFailedProof(message string, kind string, dur float64) {
	relayerProofs.With(prometheus.Labels{
		labelType: typeFailed,
	}).Inc()
	failedProofs.With(prometheus.Labels{
		labelKind: kind,
	}).Inc()
	proofUpstreamTime.With(prometheus.Labels{
		labelMethod: message,
		labelType:   typeFailed,
	}).Observe(dur)
}

func AddSuccessProof(message string, nodes int, dur float64) {
	relayerProofs.With(prometheus.Labels{
		labelType: typeSuccess,
	}).Inc()
	proofUpstreamTime.With(prometheus.Labels{
		labelMethod: message,
		labelType:   typeSuccess,
	}).Observe(dur)
	proofNodes.Observe(float64(nodes))
}

// AddRejectedRequest counts a proof request that failed validation and never reached the upstream node.
func AddRejectedRequest(kind string) {
	rejectedRequests.With(prometheus.Labels{
		labelKind: kind,
	}).Inc()
}
