package httpinterface

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/custody-ledger/internal/core/domain"
)

var errMissingCaller = errors.New("missing caller address")

var statusByCode = map[string]int{
	domain.CodeInvalidInput:       http.StatusBadRequest,
	domain.CodeRecordNotFound:     http.StatusNotFound,
	domain.CodeInsufficientFunds:  http.StatusUnprocessableEntity,
	domain.CodeArithmeticOverflow: http.StatusUnprocessableEntity,
	domain.CodeInvalidState:       http.StatusInternalServerError,
	domain.CodeInternal:           http.StatusInternalServerError,
}

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	code := domain.ErrorCode(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}

	msg := err.Error()
	// Internal failures are not leaked to clients.
	if status == http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{code, msg})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Warn("http: failed to write response")
	}
}
