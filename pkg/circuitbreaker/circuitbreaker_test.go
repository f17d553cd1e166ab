package circuitbreaker_test

import (
	"fmt"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/custody-ledger/pkg/circuitbreaker"
)

func TestCircuitBreaker(t *testing.T) {
	cb := circuitbreaker.NewCircuitBreaker("test")
	require.Equal(t, "test", cb.Name())
	require.Equal(t, gobreaker.StateClosed, cb.State())

	failingRequest := func() (interface{}, error) {
		return nil, fmt.Errorf("request failed")
	}

	for i := 0; i <= circuitbreaker.MaxNumOfFailingRequests; i++ {
		_, err := cb.Execute(failingRequest)
		require.Error(t, err)
	}
	require.Equal(t, gobreaker.StateOpen, cb.State())

	_, err := cb.Execute(failingRequest)
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
}
