package output

import (
	"fmt"
	"io"
	"time"

	"github.com/paraleipsis/proxyprobe/internal/checker"
)

// Stats aggregates a batch.
type Stats struct {
	Total        int
	Unique       int
	Working      int
	AvgLatencyMs float64
	Duration     time.Duration
}

// Compute builds Stats from results. Latency is averaged over working
// proxies only.
func Compute(results []checker.ProxyResult, duration time.Duration) Stats {
	stats := Stats{Total: len(results), Duration: duration}

	seen := make(map[string]struct{})

	var latencySum, latencyCount int64

	for _, r := range results {
		seen[r.Proxy] = struct{}{}

		if r.Working() {
			stats.Working++
			if r.LatencyMs != nil {
				latencySum += *r.LatencyMs
				latencyCount++
			}
		}
	}

	stats.Unique = len(seen)
	if latencyCount > 0 {
		stats.AvgLatencyMs = float64(latencySum) / float64(latencyCount)
	}

	return stats
}

// PrintSummary prints the aggregated batch stats on one line.
func PrintSummary(w io.Writer, stats Stats) {
	fmt.Fprintf(w, "Checked %d proxies (%d unique): %d working, avg latency %.1f ms, took %.2f s\n",
		stats.Total,
		stats.Unique,
		stats.Working,
		stats.AvgLatencyMs,
		stats.Duration.Seconds(),
	)
}
