package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrAccountIndex is returned when a keyring index is out of range
	ErrAccountIndex = errors.New("account index out of range")

	// ErrAccountNotFound is returned when no stored key exists under an id
	ErrAccountNotFound = errors.New("account not found")

	// ErrMissingConfig is returned when a required configuration entry is absent
	ErrMissingConfig = errors.New("missing configuration")

	// ErrUnknownContract is returned for contract names outside the mock mapping
	ErrUnknownContract = errors.New("unknown contract")

	// ErrUnknownNetwork is returned when a network name is neither built in nor configured
	ErrUnknownNetwork = errors.New("unknown network")

	// ErrNotDeployed is returned when a contract has no recorded deployment on the active chain
	ErrNotDeployed = errors.New("contract not deployed")

	// ErrTransactionFailed is returned when a mined transaction has a failed receipt status
	ErrTransactionFailed = errors.New("transaction failed")
)

// RevertError is a contract-execution revert observed through the ABI boundary.
type RevertError struct {
	Reason string
	Data   []byte
}

func (e *RevertError) Error() string {
	if e.Reason == "" {
		return "execution reverted"
	}
	return fmt.Sprintf("execution reverted: %s", e.Reason)
}

// UnknownContractErr reports a contract name with the closest known names.
type UnknownContractErr struct {
	Name        string
	Suggestions []string
}

func (e UnknownContractErr) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("unknown contract %q", e.Name)
	}
	return fmt.Sprintf("unknown contract %q, did you mean: %s", e.Name, strings.Join(e.Suggestions, ", "))
}

func (e UnknownContractErr) Unwrap() error {
	return ErrUnknownContract
}
