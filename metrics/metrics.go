// Package metrics holds the prometheus collectors of the node. Contract calls
// are counted by result, so failed calls, which leave no event behind, are
// still visible.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vocdoni/zkgate/types"
)

const namespace = "zkgate"

// ResultOK is the result label of successful calls.
const ResultOK = "ok"

var (
	callsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "contract",
		Name:      "calls_total",
		Help:      "Contract calls by operation and result code",
	}, []string{"contract", "op", "result"})

	callDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "contract",
		Name:      "call_duration_seconds",
		Help:      "Duration of contract calls in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"contract", "op"})

	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "events_total",
		Help:      "Committed events by contract and name",
	}, []string{"contract", "name"})

	blockHeight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "block_height",
		Help:      "Current block height of the ledger clock",
	})
)

// Result returns the result label for err: ResultOK, the contract error
// code, or "internal" for errors that carry no code.
func Result(err error) string {
	if err == nil {
		return ResultOK
	}
	if code := types.ErrorCode(err); code != 0 {
		return strconv.FormatUint(uint64(code), 10)
	}
	return "internal"
}

// ObserveCall records a finished contract call.
func ObserveCall(contract, op string, start time.Time, err error) {
	callsTotal.WithLabelValues(contract, op, Result(err)).Inc()
	callDuration.WithLabelValues(contract, op).Observe(time.Since(start).Seconds())
}

// EventEmitted counts a committed event.
func EventEmitted(contract, name string) {
	eventsTotal.WithLabelValues(contract, name).Inc()
}

// SetBlockHeight updates the block height gauge.
func SetBlockHeight(h uint64) {
	blockHeight.Set(float64(h))
}
