package stats_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/custody-ledger/pkg/stats"
)

var testCounter = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "stats",
	Subsystem: "test",
	Name:      "events_total",
	Help:      "Test counter.",
})

func TestDumpPrometheusDefaults(t *testing.T) {
	testCounter.Inc()
	datadir := t.TempDir()

	err := stats.DumpPrometheusDefaults(datadir)
	require.NoError(t, err)

	buf, err := os.ReadFile(filepath.Join(datadir, "stats"))
	require.NoError(t, err)
	require.Contains(t, string(buf), "stats_test_events_total")

	stats.PrintCounters("stats_")
}
