package stats

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

const (
	BYTE = 1 << (10 * iota)
	KILOBYTE
	MEGABYTE
	GIGABYTE
	TERABYTE
)

const statsFile = "stats"

// EnableMemoryStatistics enables go routine that periodically prints memory
// usage of the go process along with the counters of the metrics prefixed by
// namespace. Once ctx is done, default Prometheus metrics are dumped into
// datadir.
func EnableMemoryStatistics(
	ctx context.Context, interval time.Duration, datadir, namespace string,
) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				PrintMemoryStatistics()
				PrintNumOfRoutines()
				PrintCounters(namespace)
			case <-ctx.Done():
				if err := DumpPrometheusDefaults(datadir); err != nil {
					log.WithError(err).Warn("stats: failed to dump metrics")
				}
				return
			}
		}
	}()
}

// toGigabytes returns given memory in bytes to gigabytes.
func toGigabytes(bytes uint64) float64 {
	return float64(bytes) / GIGABYTE
}

// PrintMemoryStatistics prints memory statistics using go runtime library.
func PrintMemoryStatistics() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	log.Infof(
		"Total allocated: %.3fGB, Heap allocated: %.3fGB, "+
			"Allocated objects count: %v, Freed objects count: %v",
		toGigabytes(memStats.TotalAlloc),
		toGigabytes(memStats.HeapAlloc),
		memStats.Mallocs,
		memStats.Frees,
	)
}

// PrintCounters logs every counter of the default registry whose name starts
// with namespace.
func PrintCounters(namespace string) {
	metricFamilies, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		log.WithError(err).Warn("stats: failed to gather metrics")
		return
	}

	for _, mf := range metricFamilies {
		if !strings.HasPrefix(mf.GetName(), namespace) {
			continue
		}
		for _, m := range mf.GetMetric() {
			if m.GetCounter() == nil {
				continue
			}
			fields := log.Fields{}
			for _, label := range m.GetLabel() {
				fields[label.GetName()] = label.GetValue()
			}
			log.WithFields(fields).Infof("%s: %v", mf.GetName(), m.GetCounter().GetValue())
		}
	}
}

// DumpPrometheusDefaults appends default Prometheus metrics to the stats file
// in datadir.
func DumpPrometheusDefaults(datadir string) error {
	file, err := os.OpenFile(
		filepath.Join(datadir, statsFile),
		os.O_APPEND|os.O_CREATE|os.O_RDWR,
		0644,
	)
	if err != nil {
		return err
	}
	defer file.Close()

	metricFamilies, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}

	writer := bufio.NewWriter(file)
	for _, mf := range metricFamilies {
		if _, err := writer.WriteString(mf.String() + "\n"); err != nil {
			return err
		}
	}
	return writer.Flush()
}

// PrintNumOfRoutines prints number of go routines currently running
func PrintNumOfRoutines() {
	log.Infof("Num of go routines: %v", runtime.NumGoroutine())
}
