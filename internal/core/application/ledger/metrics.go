package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/tdex-network/custody-ledger/internal/core/domain"
)

const outcomeOk = "ok"

var operationsCounter = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "custody",
		Subsystem: "ledger",
		Name:      "operations_total",
		Help:      "Number of ledger operations by outcome.",
	},
	[]string{"operation", "outcome"},
)

func observe(operation string, err error) {
	outcome := outcomeOk
	if err != nil {
		outcome = domain.ErrorCode(err)
	}
	operationsCounter.WithLabelValues(operation, outcome).Inc()
}
