package splitter

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
)

// Operation names, used in errors, logs and metrics.
const (
	OpDelegate          = "delegate"
	OpUndelegate        = "undelegate"
	OpMoveDelegation    = "moveDelegation"
	OpWithdraw          = "withdraw"
	OpTransferOwnership = "transferOwnership"
	OpRenounceOwnership = "renounceOwnership"
)

// View method names of the splitter ABI.
const (
	MethodGetHolder    = "getHolder"
	MethodInitCodeHash = "INIT_CODE_HASH"
	MethodInstToken    = "instToken"
	MethodOwner        = "owner"
)

// Registry holds undelegated funds and spreads delegated funds over one
// holder per delegatee. The holder for a delegatee lives at an address
// derived from the registry address and the delegatee, so nothing needs to
// be looked up to find it; the holder is created the first time funds are
// delegated to it.
//
// Operations are serialized. Each runs as a unit: when the store implements
// Journal, the operation runs in its own store transaction, and a failed
// operation leaves neither store changes nor new holders behind. Registries
// sharing one Journal store never undo each other's changes.
type Registry struct {
	gate ownable

	mu           sync.Mutex
	address      common.Address
	store        ValueStore
	initCodeHash common.Hash
	holders      map[common.Address]*Holder // delegatee -> holder
	delegatees   []common.Address           // materialization order
	logger       log.Logger
	metrics      *metrics
}

// Receipt describes the effects of one successful operation.
type Receipt struct {
	Events []Event
	Logs   []*types.Log
}

// Allocation is a point-in-time view of how the registry's funds are spread.
type Allocation struct {
	Undelegated *big.Int
	Delegated   map[common.Address]*big.Int // delegatee -> holder balance
}

// TotalDelegated sums the balances of all materialized holders.
func (a Allocation) TotalDelegated() *big.Int {
	total := new(big.Int)
	for _, v := range a.Delegated {
		total.Add(total, v)
	}
	return total
}

// frame collects the effects of the operation in progress. Writes go
// through store, which is the open transaction when there is one.
type frame struct {
	store   ValueStore
	created map[common.Address]*Holder
	order   []common.Address
	events  []Event
}

func (f *frame) emit(kind EventKind, account common.Address, amount *big.Int) {
	f.events = append(f.events, Event{Kind: kind, Account: account, Amount: new(big.Int).Set(amount)})
}

// NewRegistry creates a registry at address, controlled by owner, keeping
// its funds in store.
func NewRegistry(address, owner common.Address, store ValueStore, opts ...RegistryOption) (*Registry, error) {
	if address == (common.Address{}) || owner == (common.Address{}) {
		return nil, ErrZeroAddress
	}
	if store == nil || store.Address() == (common.Address{}) {
		return nil, ErrZeroAddress
	}

	cfg := defaultRegistryConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	m, err := newMetrics(cfg.registerer)
	if err != nil {
		return nil, err
	}

	return &Registry{
		gate:         newOwnable(owner),
		address:      address,
		store:        store,
		initCodeHash: cfg.initCodeHash,
		holders:      make(map[common.Address]*Holder),
		logger:       cfg.logger.New("registry", address),
		metrics:      m,
	}, nil
}

// Address returns the registry's identity.
func (r *Registry) Address() common.Address {
	return r.address
}

// Owner returns the registry's controlling identity.
func (r *Registry) Owner() common.Address {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.gate.Owner()
}

// Store returns the value store the registry keeps funds in.
func (r *Registry) Store() ValueStore {
	return r.store
}

// InitCodeHash returns the holder code fingerprint used for derivation.
func (r *Registry) InitCodeHash() common.Hash {
	return r.initCodeHash
}

// GetHolder returns the holder identity for delegatee, whether or not the
// holder exists yet.
func (r *Registry) GetHolder(delegatee common.Address) common.Address {
	return DeriveHolderAddress(r.address, delegatee, r.initCodeHash)
}

// Holder returns the materialized holder for delegatee.
func (r *Registry) Holder(delegatee common.Address) (*Holder, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.holders[delegatee]
	return h, ok
}

// IsMaterialized reports whether the holder for delegatee exists.
func (r *Registry) IsMaterialized(delegatee common.Address) bool {
	_, ok := r.Holder(delegatee)
	return ok
}

// Holders returns the delegatees that have a holder, in creation order.
func (r *Registry) Holders() []common.Address {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]common.Address, len(r.delegatees))
	copy(out, r.delegatees)
	return out
}

// Balance returns the registry's undelegated balance.
func (r *Registry) Balance() *big.Int {
	return r.store.BalanceOf(r.address)
}

// Allocation reports the undelegated balance and every holder's balance.
func (r *Registry) Allocation() Allocation {
	r.mu.Lock()
	defer r.mu.Unlock()

	a := Allocation{
		Undelegated: r.store.BalanceOf(r.address),
		Delegated:   make(map[common.Address]*big.Int, len(r.holders)),
	}
	for delegatee, h := range r.holders {
		a.Delegated[delegatee] = r.store.BalanceOf(h.Address())
	}
	return a
}

// Delegate moves amount of undelegated funds into delegatee's holder,
// creating the holder first if it does not exist.
func (r *Registry) Delegate(caller, delegatee common.Address, amount *big.Int) (*Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.execute(OpDelegate, delegatee, amount, func(f *frame) error {
		if err := r.gate.requireOwner(caller); err != nil {
			return err
		}
		return r.delegate(f, delegatee, amount)
	})
}

// Undelegate pulls amount out of delegatee's holder and sends it to to, or
// back to the registry when to is the zero address.
func (r *Registry) Undelegate(caller, delegatee common.Address, amount *big.Int, to common.Address) (*Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.execute(OpUndelegate, delegatee, amount, func(f *frame) error {
		if err := r.gate.requireOwner(caller); err != nil {
			return err
		}
		return r.undelegate(f, delegatee, amount, to)
	})
}

// MoveDelegation shifts amount from the holder of from to the holder of to.
// It is an undelegate back to the registry followed by a delegate, done as
// one operation.
func (r *Registry) MoveDelegation(caller, from, to common.Address, amount *big.Int) (*Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.execute(OpMoveDelegation, to, amount, func(f *frame) error {
		if err := r.gate.requireOwner(caller); err != nil {
			return err
		}
		if from == (common.Address{}) || to == (common.Address{}) {
			return ErrZeroAddress
		}
		if isZero(amount) {
			return ErrZeroAmount
		}
		if from == to {
			return ErrSameAddress
		}

		if err := r.undelegate(f, from, amount, common.Address{}); err != nil {
			return err
		}
		return r.delegate(f, to, amount)
	})
}

// Withdraw sends amount of undelegated funds to to.
func (r *Registry) Withdraw(caller, to common.Address, amount *big.Int) (*Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.execute(OpWithdraw, to, amount, func(f *frame) error {
		if err := r.gate.requireOwner(caller); err != nil {
			return err
		}
		if to == (common.Address{}) {
			return ErrZeroAddress
		}
		if isZero(amount) {
			return ErrZeroAmount
		}

		if err := f.store.Transfer(r.address, to, amount); err != nil {
			return &CallError{Target: r.store.Address(), Method: "transfer", Err: err}
		}
		f.emit(EventWithdrawn, to, amount)
		return nil
	})
}

// TransferOwnership hands control of the registry, and through it of every
// holder, to newOwner. newOwner must not be the zero address.
func (r *Registry) TransferOwnership(caller, newOwner common.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.gate.TransferOwnership(caller, newOwner); err != nil {
		return &OperationError{Op: OpTransferOwnership, Account: newOwner, Err: err}
	}
	r.logger.Info("Ownership transferred", "owner", newOwner)
	return nil
}

// RenounceOwnership always fails with ErrZeroAddress. The registry keeps an
// owner for its whole life.
func (r *Registry) RenounceOwnership(common.Address) error {
	return ErrZeroAddress
}

func (r *Registry) delegate(f *frame, delegatee common.Address, amount *big.Int) error {
	if delegatee == (common.Address{}) {
		return ErrZeroAddress
	}
	if isZero(amount) {
		return ErrZeroAmount
	}

	holder, err := r.ensure(f, delegatee)
	if err != nil {
		return err
	}
	if err := f.store.Transfer(r.address, holder.Address(), amount); err != nil {
		return &CallError{Target: r.store.Address(), Method: "transfer", Err: err}
	}
	f.emit(EventDelegated, delegatee, amount)
	return nil
}

func (r *Registry) undelegate(f *frame, delegatee common.Address, amount *big.Int, to common.Address) error {
	if delegatee == (common.Address{}) {
		return ErrZeroAddress
	}
	if isZero(amount) {
		return ErrZeroAmount
	}

	holder := r.lookup(f, delegatee)
	if holder == nil {
		return &CallError{Target: r.GetHolder(delegatee), Method: "withdraw", Err: ErrNoCode}
	}
	if to == (common.Address{}) {
		to = r.address
	}
	if err := holder.withdraw(f.store, r.address, to, amount); err != nil {
		return &CallError{Target: holder.Address(), Method: "withdraw", Err: err}
	}
	f.emit(EventUnDelegated, delegatee, amount)
	return nil
}

// ensure returns the holder for delegatee, creating and initializing it if
// it does not exist yet.
func (r *Registry) ensure(f *frame, delegatee common.Address) (*Holder, error) {
	if h := r.lookup(f, delegatee); h != nil {
		return h, nil
	}

	h := newHolder(r.GetHolder(delegatee), r.address, r.logger)
	if err := h.initialize(r.address, r.store, f.store, delegatee); err != nil {
		return nil, &CallError{Target: h.Address(), Method: "initialize", Err: err}
	}
	f.created[delegatee] = h
	f.order = append(f.order, delegatee)
	return h, nil
}

func (r *Registry) lookup(f *frame, delegatee common.Address) *Holder {
	if h, ok := r.holders[delegatee]; ok {
		return h
	}
	return f.created[delegatee]
}

// execute runs fn as one operation. On failure the operation's transaction
// is rolled back and nothing fn did is kept.
func (r *Registry) execute(op string, account common.Address, amount *big.Int, fn func(*frame) error) (*Receipt, error) {
	f := &frame{store: r.store, created: make(map[common.Address]*Holder)}

	var tx Tx
	if journal, ok := r.store.(Journal); ok {
		tx = journal.Begin()
		f.store = tx
	}

	receipt, err := r.run(f, fn)
	r.metrics.observe(op, err)
	if err != nil {
		if tx != nil {
			tx.Rollback()
		}
		r.logger.Warn("Operation reverted", "op", op, "account", account, "amount", amount, "err", err)
		return nil, &OperationError{Op: op, Account: account, Amount: amount, Err: err}
	}
	if tx != nil {
		tx.Commit()
	}

	for _, delegatee := range f.order {
		h := f.created[delegatee]
		r.holders[delegatee] = h
		r.delegatees = append(r.delegatees, delegatee)
		r.metrics.materialized.Inc()
		r.logger.Info("Holder materialized", "delegatee", delegatee, "holder", h.Address())
	}
	for _, ev := range receipt.Events {
		r.logger.Debug("Operation applied", "op", op, "event", ev.Kind, "account", ev.Account, "amount", ev.Amount)
	}
	return receipt, nil
}

func (r *Registry) run(f *frame, fn func(*frame) error) (*Receipt, error) {
	if err := fn(f); err != nil {
		return nil, err
	}

	receipt := &Receipt{
		Events: f.events,
		Logs:   make([]*types.Log, 0, len(f.events)),
	}
	for i, ev := range f.events {
		l, err := ev.ToLog(r.address)
		if err != nil {
			return nil, err
		}
		l.Index = uint(i)
		receipt.Logs = append(receipt.Logs, l)
	}
	return receipt, nil
}
