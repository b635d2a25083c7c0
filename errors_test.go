package splitter

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		msg  string
	}{
		{"ErrZeroAddress", ErrZeroAddress, "splitter: zero address"},
		{"ErrZeroAmount", ErrZeroAmount, "splitter: zero amount"},
		{"ErrAlreadyInitialized", ErrAlreadyInitialized, "splitter: holder already initialized"},
		{"ErrSameAddress", ErrSameAddress, "splitter: source and destination delegatee are the same"},
		{"ErrNotOwner", ErrNotOwner, "splitter: caller is not the owner"},
		{"ErrNoCode", ErrNoCode, "splitter: call to non-materialized holder"},
		{"ErrNotInitialized", ErrNotInitialized, "splitter: holder not initialized"},
		{"ErrArgumentCount", ErrArgumentCount, "splitter: wrong number of arguments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.msg {
				t.Errorf("Expected error message %q, got %q", tt.msg, tt.err.Error())
			}
		})
	}
}

func TestCallError(t *testing.T) {
	addr := common.HexToAddress("0x1234567890123456789012345678901234567890")
	inner := errors.New("insufficient balance")
	err := &CallError{Target: addr, Method: "transfer", Err: inner}

	expected := "splitter: call transfer on 0x1234567890123456789012345678901234567890: insufficient balance"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("errors.Is should find the inner error in chain")
	}
}

func TestOperationError(t *testing.T) {
	t.Run("with account", func(t *testing.T) {
		err := &OperationError{
			Op:      OpDelegate,
			Account: common.HexToAddress("0x1234567890123456789012345678901234567890"),
			Amount:  big.NewInt(42),
			Err:     ErrZeroAmount,
		}

		expected := "splitter: delegate(0x1234567890123456789012345678901234567890, 42) reverted: splitter: zero amount"
		if err.Error() != expected {
			t.Errorf("Expected error message %q, got %q", expected, err.Error())
		}
	})

	t.Run("without account", func(t *testing.T) {
		err := &OperationError{Op: OpWithdraw, Err: ErrZeroAddress}

		expected := "splitter: withdraw reverted: splitter: zero address"
		if err.Error() != expected {
			t.Errorf("Expected error message %q, got %q", expected, err.Error())
		}
	})

	t.Run("nested chain with errors.Is", func(t *testing.T) {
		err := &OperationError{
			Op: OpUndelegate,
			Err: &CallError{
				Method: "withdraw",
				Err:    &CallError{Method: "transfer", Err: ErrNoCode},
			},
		}

		if !errors.Is(err, ErrNoCode) {
			t.Error("errors.Is should find ErrNoCode in chain")
		}
		var callErr *CallError
		if !errors.As(err, &callErr) || callErr.Method != "withdraw" {
			t.Error("errors.As should find the outer CallError")
		}
	})
}

func TestArgumentError(t *testing.T) {
	t.Run("with index", func(t *testing.T) {
		err := &ArgumentError{Method: "delegate", Index: 1, Err: ErrArgumentCount}

		expected := `splitter: argument 1 for method "delegate": splitter: wrong number of arguments`
		if err.Error() != expected {
			t.Errorf("Expected error message %q, got %q", expected, err.Error())
		}
		if !errors.Is(err, ErrArgumentCount) {
			t.Error("errors.Is should find ErrArgumentCount in chain")
		}
	})

	t.Run("without index", func(t *testing.T) {
		err := &ArgumentError{Method: "withdraw", Index: -1, Err: errors.New("bad")}

		expected := `splitter: arguments for method "withdraw": bad`
		if err.Error() != expected {
			t.Errorf("Expected error message %q, got %q", expected, err.Error())
		}
	})
}

func TestMethodNotFoundError(t *testing.T) {
	addr := common.HexToAddress("0x1234567890123456789012345678901234567890")
	err := &MethodNotFoundError{Contract: addr, Method: "mint"}

	expected := `splitter: method "mint" not found in contract 0x1234567890123456789012345678901234567890`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
}

func TestTypeMismatchError(t *testing.T) {
	err := &TypeMismatchError{Expected: "address", Got: "[32]uint8"}

	expected := "splitter: type mismatch: expected address, got [32]uint8"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
}
