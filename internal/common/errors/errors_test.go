package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeoutErrorIsDistinct(t *testing.T) {
	timeoutErr := NewTimeoutError("weather")
	networkErr := NewNetworkError("weather", fmt.Errorf("connection refused"))

	assert.True(t, IsTimeout(timeoutErr))
	assert.False(t, IsTimeout(networkErr))
	assert.Contains(t, timeoutErr.Message, "timed out")
	assert.NotContains(t, networkErr.Message, "timed out")
}

func TestPredicatesMatchCodes(t *testing.T) {
	assert.True(t, IsMissingCredential(NewMissingCredentialError("llm")))
	assert.True(t, IsNotFound(NewNotFoundError("City not found: Atlantis")))
	assert.True(t, IsAlreadyExists(NewAlreadyExistsError("user exists")))
	assert.False(t, IsNotFound(NewTimeoutError("search")))
}

func TestPredicatesSeeWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("dispatch: %w", NewTimeoutError("youtube"))
	assert.True(t, IsTimeout(wrapped))
}

func TestUserMessageNeverLeaksInternals(t *testing.T) {
	assert.Equal(t, "City not found: Pluto", UserMessage(NewNotFoundError("City not found: Pluto")))
	assert.Equal(t, "Something went wrong. Please try again.",
		UserMessage(fmt.Errorf("dial tcp 10.0.0.1: i/o timeout")))
}
