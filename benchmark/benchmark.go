// benchmark.go
// Measures execution time and memory usage for any wrapped function

package benchmark

import (
	"os"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
)

// Stats is the resource usage of one wrapped call.
type Stats struct {
	Elapsed        time.Duration
	MemUsedMB      float64
	TotalAllocMB   float64
	PeakHeapMB     float64
	GCCycles       uint32
	GoroutinesFrom int
	GoroutinesTo   int
}

func mb(b uint64) float64 { return float64(b) / 1024.0 / 1024.0 }

// Run wraps f, logs its runtime and memory usage under label, and returns them.
func Run(log *logrus.Logger, label string, f func()) Stats {
	host, _ := os.Hostname()
	log.WithFields(logrus.Fields{
		"label":     label,
		"timestamp": time.Now().Format(time.RFC1123),
		"hostname":  host,
		"go":        runtime.Version(),
		"os_arch":   runtime.GOOS + "/" + runtime.GOARCH,
		"cpu_cores": runtime.NumCPU(),
	}).Info("benchmark started")

	// Prepare for benchmark
	runtime.GC()
	var memStart, memEnd runtime.MemStats
	runtime.ReadMemStats(&memStart)
	start := time.Now()
	stats := Stats{GoroutinesFrom: runtime.NumGoroutine()}

	f()

	stats.Elapsed = time.Since(start)
	runtime.ReadMemStats(&memEnd)
	stats.GoroutinesTo = runtime.NumGoroutine()
	if memEnd.Alloc > memStart.Alloc {
		stats.MemUsedMB = mb(memEnd.Alloc - memStart.Alloc)
	}
	stats.TotalAllocMB = mb(memEnd.TotalAlloc - memStart.TotalAlloc)
	stats.PeakHeapMB = mb(memEnd.HeapAlloc)
	stats.GCCycles = memEnd.NumGC - memStart.NumGC

	log.WithFields(logrus.Fields{
		"label":          label,
		"elapsed":        stats.Elapsed.String(),
		"mem_used_mb":    stats.MemUsedMB,
		"total_alloc_mb": stats.TotalAllocMB,
		"peak_heap_mb":   stats.PeakHeapMB,
		"gc_cycles":      stats.GCCycles,
		"goroutines":     []int{stats.GoroutinesFrom, stats.GoroutinesTo},
	}).Info("benchmark finished")
	return stats
}
