package blockchain

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	newPayloadValidNodeCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "new_payload_valid_node_count",
		Help: "Count the number of payloads the execution engine reported as VALID.",
	})
	newPayloadOptimisticNodeCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "new_payload_optimistic_node_count",
		Help: "Count the number of payloads the execution engine reported as SYNCING or ACCEPTED.",
	})
	newPayloadInvalidNodeCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "new_payload_invalid_node_count",
		Help: "Count the number of payloads the execution engine rejected.",
	})
	newPayloadIrrelevantCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "new_payload_irrelevant_count",
		Help: "Count the number of blocks imported before execution was enabled.",
	})
	mergeBlockChecksCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "merge_block_checks_total",
		Help: "Count the merge transition block checks by outcome.",
	}, []string{"outcome"})
	gossipPayloadRejectedCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gossip_execution_payload_rejected_total",
		Help: "Count the gossip blocks rejected by the execution payload checks, by reason.",
	}, []string{"reason"})
	payloadBuildCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "execution_payload_build_total",
		Help: "Count the execution payloads prepared for proposals, by outcome.",
	}, []string{"outcome"})
	payloadBuildLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "execution_payload_build_milliseconds",
		Help:    "Captures the time taken to prepare an execution payload for a proposal.",
		Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 4000},
	})
)
