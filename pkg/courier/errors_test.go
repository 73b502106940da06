package courier_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vttayde/smart-ship-app-sub000/pkg/courier"
)

func TestProviderError_Classification(t *testing.T) {
	err := courier.NewProviderError("delhivery", "boom")
	assert.Equal(t, courier.KindAPI, err.Kind)

	assert.Equal(t, courier.KindAuthentication, courier.NewProviderError("delhivery", "no").WithStatusCode(401).Kind)
	assert.Equal(t, courier.KindAuthentication, courier.NewProviderError("delhivery", "no").WithStatusCode(403).Kind)
	assert.Equal(t, courier.KindRateLimit, courier.NewProviderError("delhivery", "slow down").WithStatusCode(429).Kind)
	assert.Equal(t, courier.KindAPI, courier.NewProviderError("delhivery", "oops").WithStatusCode(500).Kind)
}

func TestProviderError_UnwrapAndIs(t *testing.T) {
	cause := errors.New("connection refused")
	err := courier.NewProviderError("xpressbees", "rate call failed").WithCause(cause)

	assert.ErrorIs(t, err, cause)

	var pe *courier.ProviderError
	assert.ErrorAs(t, fmt.Errorf("wrapped: %w", err), &pe)
	assert.Equal(t, "xpressbees", pe.Provider)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, courier.IsRetryable(courier.NewProviderError("x", "429").WithStatusCode(429)))
	assert.False(t, courier.IsRetryable(courier.NewProviderError("x", "401").WithStatusCode(401)))
	assert.False(t, courier.IsRetryable(courier.NewProviderError("x", "500").WithStatusCode(500)))
	assert.False(t, courier.IsRetryable(errors.New("plain")))
}

func TestIsAuthentication(t *testing.T) {
	assert.True(t, courier.IsAuthentication(courier.NewProviderError("x", "denied").WithStatusCode(401)))
	assert.False(t, courier.IsAuthentication(courier.NewProviderError("x", "oops")))
}
