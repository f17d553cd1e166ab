package httpinterface

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tdex-network/custody-ledger/internal/core/application"
)

// NewRouter returns the http handler exposing the ledger operations.
func NewRouter(ledgerSvc application.LedgerService, rateLimit int) http.Handler {
	handler := newLedgerHandler(ledgerSvc)

	router := httprouter.New()
	router.POST("/v1/deposit", handler.deposit)
	router.POST("/v1/withdraw", handler.withdraw)
	router.GET("/v1/deposits/:address", handler.listDeposits)
	router.GET("/v1/receipts/:address", handler.listReceipts)
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	return withLogger(withRateLimit(router, rateLimit))
}
