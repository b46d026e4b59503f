package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrLedgerUnavailable is returned when the chain provider cannot be reached
	ErrLedgerUnavailable = errors.New("ledger unavailable")

	// ErrSessionNotFound is returned when a session id is out of range
	ErrSessionNotFound = errors.New("session not found")

	// ErrEventNotFound is returned when a confirmed creation receipt lacks the
	// SessionCreated event. The transaction landed but the assigned id cannot
	// be recovered, so the operation's outcome is indeterminate.
	ErrEventNotFound = errors.New("creation event not found in receipt")

	// ErrUserRejected is returned when the signer declines a transaction
	ErrUserRejected = errors.New("transaction rejected by signer")

	// ErrInsufficientFunds is returned when the signer balance cannot cover the transaction
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrContractReverted is the sentinel wrapped by RevertError
	ErrContractReverted = errors.New("contract reverted")

	// ErrAlreadyRegistered is raised by the duplicate pre-check before any write
	ErrAlreadyRegistered = errors.New("already registered for session")

	// ErrAlreadyCheckedIn is raised by the duplicate pre-check before any write
	ErrAlreadyCheckedIn = errors.New("already checked in to session")

	// ErrNotRegistered is raised when check-in is attempted without a prior registration
	ErrNotRegistered = errors.New("not registered for session")

	// ErrEditNotAllowed is raised when editing a session that is no longer upcoming
	ErrEditNotAllowed = errors.New("session can only be edited while upcoming")

	// ErrStorageUnavailable is returned on metadata store I/O failures
	ErrStorageUnavailable = errors.New("metadata storage unavailable")
)

// RevertError carries the ledger-supplied revert reason when the contract
// rejects a call. It matches ErrContractReverted under errors.Is.
type RevertError struct {
	Reason string
}

func (e *RevertError) Error() string {
	if e.Reason == "" {
		return ErrContractReverted.Error()
	}
	return fmt.Sprintf("contract reverted: %s", e.Reason)
}

func (e *RevertError) Unwrap() error {
	return ErrContractReverted
}

// NewRevertError creates a RevertError with the given reason.
func NewRevertError(reason string) error {
	return &RevertError{Reason: reason}
}
