// Package metrics holds the Prometheus collectors for vibe.
// Collectors register with the default registry; the MCP HTTP transport
// exposes them at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// History operations recorded by CommandTotal.
const (
	OpExecute = "execute"
	OpUndo    = "undo"
	OpRedo    = "redo"
)

var (
	// CommandTotal counts history operations by command, operation and result.
	CommandTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vibe_command_total",
		Help: "Total history operations by command, operation and result",
	}, []string{"command", "operation", "result"})

	// SearchDuration tracks search latency by provider.
	SearchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vibe_search_duration_seconds",
		Help:    "Search duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~800ms
	}, []string{"provider"})

	// SearchResults tracks the number of results returned per search.
	SearchResults = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "vibe_search_results",
		Help:    "Number of results returned per search",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
	})

	// FileBytesWritten counts bytes stored for uploads.
	FileBytesWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vibe_file_bytes_written_total",
		Help: "Total bytes written for uploaded files",
	})

	// InboxImports counts inbox imports by result.
	InboxImports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vibe_inbox_imports_total",
		Help: "Total files imported from the inbox by result",
	}, []string{"result"})
)

// Result returns the result label for err.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveCommand records one history operation.
func ObserveCommand(command, operation string, err error) {
	CommandTotal.WithLabelValues(command, operation, Result(err)).Inc()
}

// ObserveSearch records one search.
func ObserveSearch(provider string, start time.Time, results int) {
	SearchDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	SearchResults.Observe(float64(results))
}
