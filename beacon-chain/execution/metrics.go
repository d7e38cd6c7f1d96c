package execution

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	newPayloadLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "new_payload_latency_milliseconds",
			Help:    "Captures RPC latency for newPayload in milliseconds",
			Buckets: []float64{25, 50, 100, 200, 500, 1000, 2000, 4000, 8000},
		},
	)
	getPayloadLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "get_payload_latency_milliseconds",
			Help:    "Captures RPC latency for getPayload in milliseconds",
			Buckets: []float64{25, 50, 100, 200, 500, 1000, 2000, 4000},
		},
	)
	forkchoiceUpdatedLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "forkchoice_updated_latency_milliseconds",
			Help:    "Captures RPC latency for forkchoiceUpdated in milliseconds",
			Buckets: []float64{25, 50, 100, 200, 500, 1000, 2000, 4000, 8000},
		},
	)
	engineStatusGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "execution_engine_status",
		Help: "Last observed execution engine status: 0 offline, 1 syncing, 2 online.",
	})
	payloadIDCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payload_id_cache_hits_total",
		Help: "Number of payload builds that reused a payload id from a previous forkchoiceUpdated call.",
	})
	payloadIDCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payload_id_cache_misses_total",
		Help: "Number of payload builds that required a new forkchoiceUpdated call.",
	})
	burnAddressFeeRecipientCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "burn_address_fee_recipient_total",
		Help: "Number of payload builds requested with the burn address as fee recipient.",
	})
	errParseCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "execution_parse_error_count",
		Help: "The number of errors that occurred due to invalid JSON received by the execution client",
	})
	errInvalidRequestCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "execution_invalid_request_count",
		Help: "The number of errors that occurred due to invalid request objects",
	})
	errMethodNotFoundCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "execution_method_not_found_count",
		Help: "The number of errors that occurred due to the engine not implementing a method",
	})
	errInvalidParamsCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "execution_invalid_params_count",
		Help: "The number of errors that occurred due to invalid method parameters",
	})
	errInternalCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "execution_internal_error_count",
		Help: "The number of errors that occurred due to internal JSON-RPC errors",
	})
	errUnknownPayloadCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "execution_unknown_payload_count",
		Help: "The number of errors that occurred due to a payload id not being known",
	})
	errInvalidForkchoiceStateCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "execution_invalid_forkchoice_state_count",
		Help: "The number of errors that occurred due to an invalid forkchoice state",
	})
	errInvalidPayloadAttributesCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "execution_invalid_payload_attributes_count",
		Help: "The number of errors that occurred due to invalid payload attributes",
	})
	errServerErrorCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "execution_server_error_count",
		Help: "The number of errors that occurred due to a generic server error",
	})
)
