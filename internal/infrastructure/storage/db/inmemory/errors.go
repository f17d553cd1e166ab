package inmemory

import "errors"

var (
	// ErrReadOnlyTx is returned when writing within a read-only transaction.
	ErrReadOnlyTx = errors.New("cannot write within a read-only transaction")
)
