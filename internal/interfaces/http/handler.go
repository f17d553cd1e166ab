package httpinterface

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/shopspring/decimal"
	"github.com/tdex-network/custody-ledger/internal/core/application"
	"github.com/tdex-network/custody-ledger/internal/core/domain"
)

// CallerHeader carries the authenticated address of the caller, as set by
// the host in front of the ledger.
const CallerHeader = "X-Caller-Address"

const maxBodySize = 1 << 16

type DepositRequest struct {
	Funds []domain.Coin `json:"funds"`
}

type WithdrawRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Asset  string          `json:"denom"`
}

type ListDepositsReply struct {
	Deposits []domain.Deposit `json:"deposits"`
}

type ListReceiptsReply struct {
	Receipts []domain.Receipt `json:"receipts"`
}

type ledgerHandler struct {
	ledgerSvc application.LedgerService
}

func newLedgerHandler(ledgerSvc application.LedgerService) *ledgerHandler {
	return &ledgerHandler{ledgerSvc}
}

func (h *ledgerHandler) deposit(
	w http.ResponseWriter, req *http.Request, _ httprouter.Params,
) {
	caller := req.Header.Get(CallerHeader)
	if caller == "" {
		writeError(w, fmt.Errorf("%w: %s", domain.ErrInvalidInput, errMissingCaller))
		return
	}

	body := DepositRequest{}
	if err := decodeBody(w, req, &body); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.ledgerSvc.Deposit(req.Context(), caller, body.Funds)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ledgerHandler) withdraw(
	w http.ResponseWriter, req *http.Request, _ httprouter.Params,
) {
	caller := req.Header.Get(CallerHeader)
	if caller == "" {
		writeError(w, fmt.Errorf("%w: %s", domain.ErrInvalidInput, errMissingCaller))
		return
	}

	body := WithdrawRequest{}
	if err := decodeBody(w, req, &body); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.ledgerSvc.Withdraw(req.Context(), caller, body.Amount, body.Asset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ledgerHandler) listDeposits(
	w http.ResponseWriter, req *http.Request, params httprouter.Params,
) {
	deposits, err := h.ledgerSvc.ListHoldings(req.Context(), params.ByName("address"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListDepositsReply{deposits})
}

func (h *ledgerHandler) listReceipts(
	w http.ResponseWriter, req *http.Request, params httprouter.Params,
) {
	page, err := parsePage(req)
	if err != nil {
		writeError(w, err)
		return
	}

	receipts, err := h.ledgerSvc.ListReceipts(
		req.Context(), params.ByName("address"), page,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListReceiptsReply{receipts})
}

func decodeBody(w http.ResponseWriter, req *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body: %s", domain.ErrInvalidInput, err)
	}
	return nil
}

func parsePage(req *http.Request) (*domain.Page, error) {
	query := req.URL.Query()
	if query.Get("page") == "" && query.Get("page_size") == "" {
		return nil, nil
	}

	number, err := strconv.Atoi(query.Get("page"))
	if err != nil || number <= 0 {
		return nil, fmt.Errorf("%w: page must be a positive number", domain.ErrInvalidInput)
	}
	size, err := strconv.Atoi(query.Get("page_size"))
	if err != nil || size <= 0 {
		return nil, fmt.Errorf("%w: page_size must be a positive number", domain.ErrInvalidInput)
	}
	page := domain.NewPage(number, size)
	return &page, nil
}
