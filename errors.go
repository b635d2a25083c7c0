package splitter

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Sentinel errors for rejected operations. Every one of them aborts the whole
// operation; nothing the operation did before failing survives.
var (
	// ErrZeroAddress indicates a required identity argument is the zero address.
	ErrZeroAddress = errors.New("splitter: zero address")

	// ErrZeroAmount indicates a required amount argument is zero.
	ErrZeroAmount = errors.New("splitter: zero amount")

	// ErrAlreadyInitialized indicates a second Initialize on a holder.
	ErrAlreadyInitialized = errors.New("splitter: holder already initialized")

	// ErrSameAddress indicates a move whose source and destination are equal.
	ErrSameAddress = errors.New("splitter: source and destination delegatee are the same")

	// ErrNotOwner indicates the caller does not own the target account.
	ErrNotOwner = errors.New("splitter: caller is not the owner")

	// ErrNoCode indicates a call to a holder that was never materialized.
	ErrNoCode = errors.New("splitter: call to non-materialized holder")

	// ErrNotInitialized indicates a holder operation that needs Initialize first.
	ErrNotInitialized = errors.New("splitter: holder not initialized")
)

// CallError wraps a failure of a cross-account call: registry to holder, or
// either of them to the value store.
type CallError struct {
	Target common.Address
	Method string
	Err    error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("splitter: call %s on %s: %v", e.Method, e.Target.Hex(), e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// OperationError reports which top-level registry operation was reverted.
type OperationError struct {
	Op      string
	Account common.Address
	Amount  *big.Int
	Err     error
}

func (e *OperationError) Error() string {
	if e.Account != (common.Address{}) {
		return fmt.Sprintf("splitter: %s(%s, %s) reverted: %v", e.Op, e.Account.Hex(), amountString(e.Amount), e.Err)
	}
	return fmt.Sprintf("splitter: %s reverted: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

func amountString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// ErrArgumentCount indicates calldata with the wrong number of arguments.
var ErrArgumentCount = errors.New("splitter: wrong number of arguments")

// MethodNotFoundError indicates the splitter has no method with that name.
type MethodNotFoundError struct {
	Contract common.Address
	Method   string
}

func (e *MethodNotFoundError) Error() string {
	return fmt.Sprintf("splitter: method %q not found in contract %s", e.Method, e.Contract.Hex())
}

// ArgumentError indicates an issue with a method argument. Index is -1 when
// the failure is not tied to a single argument.
type ArgumentError struct {
	Method string
	Index  int
	Err    error
}

func (e *ArgumentError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("splitter: arguments for method %q: %v", e.Method, e.Err)
	}
	return fmt.Sprintf("splitter: argument %d for method %q: %v", e.Index, e.Method, e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// TypeMismatchError indicates a decoded value's type doesn't match the expected type.
type TypeMismatchError struct {
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("splitter: type mismatch: expected %s, got %s", e.Expected, e.Got)
}
