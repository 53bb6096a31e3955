// Package metrics exposes the superstep engine's counters and histograms
// through a prometheus registry, replacing the hand-rolled stats structs
// the teacher used for its own epoch/queue bookkeeping with the pack's
// actual metrics dependency.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Set is one run's collection of counters and histograms. Each Runtime
// owns its own Set registered against its own *prometheus.Registry, so
// two concurrent Init/End cycles in the same process never collide.
type Set struct {
	Registry *prometheus.Registry

	Puts    prometheus.Counter
	Gets    prometheus.Counter
	Sends   prometheus.Counter
	PushReg prometheus.Counter
	PopReg  prometheus.Counter

	SyncCount    prometheus.Counter
	BarrierWait  prometheus.Histogram
	QueueBytes   prometheus.Gauge
	QueueEntries prometheus.Gauge
}

// NewSet builds and registers a fresh metric set.
func NewSet() *Set {
	reg := prometheus.NewRegistry()

	s := &Set{
		Registry: reg,
		Puts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bsp_puts_total",
			Help: "Total number of Put requests issued.",
		}),
		Gets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bsp_gets_total",
			Help: "Total number of Get requests issued.",
		}),
		Sends: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bsp_sends_total",
			Help: "Total number of Send requests issued.",
		}),
		PushReg: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bsp_pushreg_total",
			Help: "Total number of PushReg calls issued.",
		}),
		PopReg: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bsp_popreg_total",
			Help: "Total number of PopReg calls issued.",
		}),
		SyncCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bsp_sync_total",
			Help: "Total number of Sync calls completed, summed over all processes.",
		}),
		BarrierWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bsp_barrier_wait_seconds",
			Help:    "Time a process spent blocked inside Sync waiting for the barrier.",
			Buckets: prometheus.DefBuckets,
		}),
		QueueBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bsp_queue_bytes",
			Help: "Bytes queued for the current process as of the last QSize call.",
		}),
		QueueEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bsp_queue_entries",
			Help: "Message entries queued for the current process as of the last QSize call.",
		}),
	}

	reg.MustRegister(
		s.Puts, s.Gets, s.Sends, s.PushReg, s.PopReg,
		s.SyncCount, s.BarrierWait, s.QueueBytes, s.QueueEntries,
	)

	return s
}
