package doublylinkedtree

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "forkchoice")

var (
	storeSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "forkchoice_store_nodes",
		Help: "Blocks currently held by the fork choice store.",
	})
	blocksInserted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "forkchoice_blocks_inserted_total",
		Help: "Blocks inserted into the fork choice store.",
	})
	nodesInvalidated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "forkchoice_nodes_invalidated_total",
		Help: "Nodes marked invalid after the execution engine rejected a payload.",
	})
	invalidationCalls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "forkchoice_invalidation_calls_total",
		Help: "Calls to SetOptimisticToInvalid.",
	})
	optimisticPromoted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "forkchoice_optimistic_promoted_total",
		Help: "Optimistic nodes later confirmed valid by the execution engine.",
	})
)
