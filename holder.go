package splitter

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

// Holder is the sub-account dedicated to one delegatee. Once initialized, the
// whole of its balance in the value store votes for that delegatee.
//
// Construction fixes only the owner, so the holder's identity can be derived
// before its store and delegatee are known; Initialize supplies them once.
type Holder struct {
	gate        ownable
	address     common.Address
	store       ValueStore
	delegatee   common.Address
	initialized bool
	logger      log.Logger
}

// NewHolder creates an uninitialized holder at address, owned by owner.
func NewHolder(address, owner common.Address) *Holder {
	return newHolder(address, owner, log.Root())
}

func newHolder(address, owner common.Address, logger log.Logger) *Holder {
	return &Holder{
		gate:    newOwnable(owner),
		address: address,
		logger:  logger.New("holder", address),
	}
}

// Address returns the holder's identity.
func (h *Holder) Address() common.Address {
	return h.address
}

// Owner returns the identity allowed to initialize the holder and withdraw
// from it.
func (h *Holder) Owner() common.Address {
	return h.gate.Owner()
}

// TransferOwnership hands control of the holder to newOwner.
func (h *Holder) TransferOwnership(caller, newOwner common.Address) error {
	return h.gate.TransferOwnership(caller, newOwner)
}

// RenounceOwnership leaves the holder without an owner. Its balance can then
// never be withdrawn.
func (h *Holder) RenounceOwnership(caller common.Address) error {
	return h.gate.RenounceOwnership(caller)
}

// Delegatee returns the delegation target, zero before initialization.
func (h *Holder) Delegatee() common.Address {
	return h.delegatee
}

// Store returns the value store, nil before initialization.
func (h *Holder) Store() ValueStore {
	return h.store
}

// Initialized reports whether Initialize has succeeded.
func (h *Holder) Initialized() bool {
	return h.initialized
}

// Balance returns the holder's balance, zero before initialization.
func (h *Holder) Balance() *big.Int {
	if h.store == nil {
		return new(big.Int)
	}
	return h.store.BalanceOf(h.address)
}

// Initialize binds the holder to store and delegatee and delegates all of
// its voting weight to delegatee. It may succeed only once.
func (h *Holder) Initialize(caller common.Address, store ValueStore, delegatee common.Address) error {
	return h.initialize(caller, store, store, delegatee)
}

// initialize records store as the holder's ledger and sends the delegation
// through via, which is store itself or an open transaction on it.
func (h *Holder) initialize(caller common.Address, store, via ValueStore, delegatee common.Address) error {
	if err := h.gate.requireOwner(caller); err != nil {
		return err
	}
	if store == nil || store.Address() == (common.Address{}) || delegatee == (common.Address{}) {
		return ErrZeroAddress
	}
	if h.initialized {
		return ErrAlreadyInitialized
	}

	if err := via.Delegate(h.address, delegatee); err != nil {
		return &CallError{Target: store.Address(), Method: "delegate", Err: err}
	}

	h.store = store
	h.delegatee = delegatee
	h.initialized = true

	h.logger.Debug("Holder initialized", "delegatee", delegatee, "store", store.Address())
	return nil
}

// Withdraw transfers amount of the holder's balance to to.
func (h *Holder) Withdraw(caller, to common.Address, amount *big.Int) error {
	return h.withdraw(h.store, caller, to, amount)
}

func (h *Holder) withdraw(via ValueStore, caller, to common.Address, amount *big.Int) error {
	if err := h.gate.requireOwner(caller); err != nil {
		return err
	}
	if to == (common.Address{}) {
		return ErrZeroAddress
	}
	if isZero(amount) {
		return ErrZeroAmount
	}
	if !h.initialized {
		return ErrNotInitialized
	}

	if err := via.Transfer(h.address, to, amount); err != nil {
		return &CallError{Target: h.store.Address(), Method: "transfer", Err: err}
	}

	h.logger.Debug("Holder withdrew", "to", to, "amount", amount)
	return nil
}

func isZero(amount *big.Int) bool {
	return amount == nil || amount.Sign() == 0
}
