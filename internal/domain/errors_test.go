package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/classledger/attendance/internal/domain"
)

func TestRevertError_Unwrap(t *testing.T) {
	err := domain.NewRevertError("session does not exist")

	assert.True(t, errors.Is(err, domain.ErrContractReverted))
	assert.Contains(t, err.Error(), "session does not exist")

	var revertErr *domain.RevertError
	assert.True(t, errors.As(err, &revertErr))
	assert.Equal(t, "session does not exist", revertErr.Reason)
}

func TestRevertError_WrappedChain(t *testing.T) {
	inner := domain.NewRevertError("already registered")
	wrapped := fmt.Errorf("register failed: %w", inner)

	assert.True(t, errors.Is(wrapped, domain.ErrContractReverted))

	var revertErr *domain.RevertError
	assert.True(t, errors.As(wrapped, &revertErr))
	assert.Equal(t, "already registered", revertErr.Reason)
}
