// Package metrics records what the server does with incoming request lines.
//
// A Collector counts requests per operation and reply status, tracks request
// latencies and exposes the size of the served store. Two libraries back it:
//
//   - github.com/VictoriaMetrics/metrics: counters, latency histograms and store
//     gauges in the Prometheus text format, served by Server on GET /metrics.
//
//   - github.com/rcrowley/go-metrics: a latency timer per operation and a request
//     meter, summarised by Stats and logged periodically by StartReporter.
//
// Metric names:
//
//	ephemeral_requests_total{op="get",status="OK"}
//	ephemeral_request_duration_seconds{op="get"}
//	ephemeral_store_nodes
//	ephemeral_store_values
//	ephemeral_store_root_branches
//
// Lines that could not be decoded are recorded with op="unknown".
package metrics
