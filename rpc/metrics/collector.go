package metrics

import (
	"fmt"
	"io"
	"sync"
	"time"

	vmetrics "github.com/VictoriaMetrics/metrics"
	"github.com/ValentinKolb/ephemeral/lib/store"
	"github.com/ValentinKolb/ephemeral/rpc/common"
	"github.com/lni/dragonboat/v4/logger"
	gometrics "github.com/rcrowley/go-metrics"
)

var Logger = logger.GetLogger("metrics")

// InfoFunc returns the current metadata of the served store
type InfoFunc func() (store.Info, error)

// Collector records request metrics.
//
// Counters, latency histograms and store gauges are kept in a VictoriaMetrics
// set and exported in the Prometheus text format. Latency timers and the
// request meter are kept in a go-metrics registry and feed the periodic stats
// log line.
type Collector struct {
	set      *vmetrics.Set
	registry gometrics.Registry
	requests gometrics.Meter

	// mu orders Observe against Stop
	mu      sync.RWMutex
	stopped bool
}

// NewCollector creates a collector. If info is not nil the store is exported
// through the gauges ephemeral_store_nodes, ephemeral_store_values and
// ephemeral_store_root_branches.
func NewCollector(info InfoFunc) *Collector {
	c := &Collector{
		set:      vmetrics.NewSet(),
		registry: gometrics.NewRegistry(),
	}
	c.requests = gometrics.GetOrRegisterMeter("requests", c.registry)

	if info != nil {
		gauge := func(field func(store.Info) int) func() float64 {
			return func() float64 {
				i, err := info()
				if err != nil {
					Logger.Warningf("Failed to read store info: %v", err)
					return 0
				}
				return float64(field(i))
			}
		}
		c.set.NewGauge("ephemeral_store_nodes", gauge(func(i store.Info) int { return i.Nodes }))
		c.set.NewGauge("ephemeral_store_values", gauge(func(i store.Info) int { return i.Values }))
		c.set.NewGauge("ephemeral_store_root_branches", gauge(func(i store.Info) int { return i.RootBranches }))
	}

	return c
}

// Observe records one processed request line.
// After Stop only the Prometheus counters are updated.
func (c *Collector) Observe(op common.Operation, status common.ReplyStatus, d time.Duration) {
	c.set.GetOrCreateCounter(fmt.Sprintf(`ephemeral_requests_total{op=%q,status=%q}`, op, status)).Inc()
	c.set.GetOrCreateHistogram(fmt.Sprintf(`ephemeral_request_duration_seconds{op=%q}`, op)).Update(d.Seconds())

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.stopped {
		return
	}

	gometrics.GetOrRegisterTimer("latency."+op.String(), c.registry).Update(d)
	c.requests.Mark(1)
}

// Requests returns the number of requests with the given operation and reply status
func (c *Collector) Requests(op common.Operation, status common.ReplyStatus) uint64 {
	return c.set.GetOrCreateCounter(fmt.Sprintf(`ephemeral_requests_total{op=%q,status=%q}`, op, status)).Get()
}

// WritePrometheus writes all metrics (including process metrics) in the Prometheus text format
func (c *Collector) WritePrometheus(w io.Writer) {
	c.set.WritePrometheus(w)
	vmetrics.WriteProcessMetrics(w)
}

// Stop releases the meters of the collector. Later calls to Observe
// do not register new timers.
func (c *Collector) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.stopped {
		c.stopped = true
		c.registry.UnregisterAll()
	}
}

// --------------------------------------------------------------------------
// Stats
// --------------------------------------------------------------------------

// OpStats is a latency summary of one operation
type OpStats struct {
	Count int64
	Mean  time.Duration
	P99   time.Duration
}

// Stats is a point in time summary of the collector
type Stats struct {
	Requests int64
	Rate1    float64 // requests per second, one minute moving average
	Ops      map[string]OpStats
}

// Stats returns a summary of the recorded requests
func (c *Collector) Stats() Stats {
	stats := Stats{
		Requests: c.requests.Count(),
		Rate1:    c.requests.Rate1(),
		Ops:      make(map[string]OpStats),
	}

	for _, op := range append([]common.Operation{common.OpUnknown}, common.Operations...) {
		metric := c.registry.Get("latency." + op.String())
		timer, ok := metric.(gometrics.Timer)
		if !ok {
			continue
		}
		snapshot := timer.Snapshot()
		stats.Ops[op.String()] = OpStats{
			Count: snapshot.Count(),
			Mean:  time.Duration(snapshot.Mean()),
			P99:   time.Duration(snapshot.Percentile(0.99)),
		}
	}
	return stats
}

// String formats the stats as a single log line
func (s Stats) String() string {
	line := fmt.Sprintf("requests=%d rate1=%.2f/s", s.Requests, s.Rate1)
	for _, op := range append([]common.Operation{common.OpUnknown}, common.Operations...) {
		if o, ok := s.Ops[op.String()]; ok {
			line += fmt.Sprintf(" %s(n=%d mean=%s p99=%s)", op, o.Count, o.Mean, o.P99)
		}
	}
	return line
}
