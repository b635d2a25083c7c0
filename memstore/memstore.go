// Package memstore provides an in-memory vote-bearing token ledger that
// satisfies splitter.ValueStore and splitter.Journal.
//
// Writes go straight to the ledger, or through a Tx opened with Begin. While
// a Tx is open every other writer waits, so rolling it back undoes its own
// changes and nothing else.
//
// It follows ERC20Votes accounting: an account's balance counts as voting
// weight for whoever the account delegated to, and counts for nobody until
// the account delegates. Balances are 256-bit unsigned integers; transfers
// that would underflow a balance or overflow a total fail without effect.
package memstore

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

var (
	// ErrInsufficientBalance indicates a transfer larger than the sender's balance.
	ErrInsufficientBalance = errors.New("memstore: transfer amount exceeds balance")

	// ErrZeroAddress indicates a transfer or mint involving the zero address.
	ErrZeroAddress = errors.New("memstore: zero address")

	// ErrInvalidAmount indicates a negative amount or one wider than 256 bits.
	ErrInvalidAmount = errors.New("memstore: invalid amount")

	// ErrOverflow indicates a total that no longer fits in 256 bits.
	ErrOverflow = errors.New("memstore: total supply overflow")

	// ErrTxClosed indicates a write through a committed or rolled back Tx.
	ErrTxClosed = errors.New("memstore: transaction closed")
)

// Tx is an open transaction on a Store. It has the same method set as
// splitter.Tx.
type Tx = interface {
	Address() common.Address
	BalanceOf(account common.Address) *big.Int
	Transfer(from, to common.Address, amount *big.Int) error
	Delegate(account, delegatee common.Address) error
	Delegates(account common.Address) common.Address
	GetVotes(account common.Address) *big.Int

	Commit()
	Rollback()
}

// Store is an in-memory token ledger. It is safe for concurrent use.
type Store struct {
	writer sync.Mutex // held by the open transaction or a single write

	mu        sync.RWMutex
	address   common.Address
	balances  map[common.Address]*uint256.Int
	votes     map[common.Address]*uint256.Int
	delegates map[common.Address]common.Address
	supply    *uint256.Int
	recording bool
	journal   []func() // undo log of the open transaction
}

// New creates an empty ledger identified by address.
func New(address common.Address) *Store {
	return &Store{
		address:   address,
		balances:  make(map[common.Address]*uint256.Int),
		votes:     make(map[common.Address]*uint256.Int),
		delegates: make(map[common.Address]common.Address),
		supply:    new(uint256.Int),
	}
}

// Address returns the ledger's identity.
func (s *Store) Address() common.Address {
	return s.address
}

// BalanceOf returns the balance of account.
func (s *Store) BalanceOf(account common.Address) *big.Int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return get(s.balances, account).ToBig()
}

// GetVotes returns the voting weight delegated to account.
func (s *Store) GetVotes(account common.Address) *big.Int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return get(s.votes, account).ToBig()
}

// Delegates returns the delegatee of account, zero if it never delegated.
func (s *Store) Delegates(account common.Address) common.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.delegates[account]
}

// TotalSupply returns the sum of all balances.
func (s *Store) TotalSupply() *big.Int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.supply.ToBig()
}

// Mint creates amount new tokens in to's balance.
func (s *Store) Mint(to common.Address, amount *big.Int) error {
	s.writer.Lock()
	defer s.writer.Unlock()

	return s.mint(to, amount)
}

// Transfer moves amount from from to to, carrying the voting weight along
// from from's delegatee to to's delegatee.
func (s *Store) Transfer(from, to common.Address, amount *big.Int) error {
	s.writer.Lock()
	defer s.writer.Unlock()

	return s.transfer(from, to, amount)
}

// Delegate points all of account's voting weight at delegatee, taking it
// away from the previous delegatee.
func (s *Store) Delegate(account, delegatee common.Address) error {
	s.writer.Lock()
	defer s.writer.Unlock()

	return s.delegate(account, delegatee)
}

// Begin opens a transaction, waiting for any open one to close first.
func (s *Store) Begin() Tx {
	s.writer.Lock()

	s.mu.Lock()
	s.recording = true
	s.mu.Unlock()

	return &txn{s: s}
}

func (s *Store) mint(to common.Address, amount *big.Int) error {
	if to == (common.Address{}) {
		return ErrZeroAddress
	}
	v, err := toUint256(amount)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	supply, overflow := new(uint256.Int).AddOverflow(s.supply, v)
	if overflow {
		return ErrOverflow
	}
	s.setSupply(supply)
	s.setBalance(to, new(uint256.Int).Add(get(s.balances, to), v))
	s.moveVotes(common.Address{}, s.delegates[to], v)
	return nil
}

func (s *Store) transfer(from, to common.Address, amount *big.Int) error {
	if from == (common.Address{}) || to == (common.Address{}) {
		return ErrZeroAddress
	}
	v, err := toUint256(amount)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fromBalance := get(s.balances, from)
	if fromBalance.Lt(v) {
		return fmt.Errorf("%w: have %s, want %s", ErrInsufficientBalance, fromBalance.Dec(), v.Dec())
	}
	if from == to {
		return nil
	}
	s.setBalance(from, new(uint256.Int).Sub(fromBalance, v))
	s.setBalance(to, new(uint256.Int).Add(get(s.balances, to), v))
	s.moveVotes(s.delegates[from], s.delegates[to], v)
	return nil
}

func (s *Store) delegate(account, delegatee common.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.delegates[account]
	s.setDelegate(account, delegatee)
	s.moveVotes(previous, delegatee, get(s.balances, account))
	return nil
}

// close ends the open transaction, undoing its changes first when rollback
// is set.
func (s *Store) close(rollback bool) {
	s.mu.Lock()
	if rollback {
		for i := len(s.journal) - 1; i >= 0; i-- {
			s.journal[i]()
		}
	}
	s.journal = nil
	s.recording = false
	s.mu.Unlock()

	s.writer.Unlock()
}

func (s *Store) moveVotes(from, to common.Address, amount *uint256.Int) {
	if from == to || amount.IsZero() {
		return
	}
	if from != (common.Address{}) {
		s.setVotes(from, new(uint256.Int).Sub(get(s.votes, from), amount))
	}
	if to != (common.Address{}) {
		s.setVotes(to, new(uint256.Int).Add(get(s.votes, to), amount))
	}
}

func (s *Store) setBalance(account common.Address, v *uint256.Int) {
	s.record(s.balances, account)
	s.balances[account] = v
}

func (s *Store) setVotes(account common.Address, v *uint256.Int) {
	s.record(s.votes, account)
	s.votes[account] = v
}

func (s *Store) setSupply(v *uint256.Int) {
	if s.recording {
		prev := s.supply
		s.journal = append(s.journal, func() { s.supply = prev })
	}
	s.supply = v
}

func (s *Store) setDelegate(account, delegatee common.Address) {
	if s.recording {
		prev, existed := s.delegates[account]
		s.journal = append(s.journal, func() {
			if existed {
				s.delegates[account] = prev
			} else {
				delete(s.delegates, account)
			}
		})
	}
	s.delegates[account] = delegatee
}

// record journals the current value of m[account] while a transaction is
// open. Stored values are never mutated in place, so keeping the pointer is
// enough.
func (s *Store) record(m map[common.Address]*uint256.Int, account common.Address) {
	if !s.recording {
		return
	}
	prev, existed := m[account]
	s.journal = append(s.journal, func() {
		if existed {
			m[account] = prev
		} else {
			delete(m, account)
		}
	})
}

func get(m map[common.Address]*uint256.Int, account common.Address) *uint256.Int {
	if v, ok := m[account]; ok {
		return v
	}
	return new(uint256.Int)
}

func toUint256(amount *big.Int) (*uint256.Int, error) {
	if amount == nil {
		return new(uint256.Int), nil
	}
	if amount.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative %s", ErrInvalidAmount, amount)
	}
	v, overflow := uint256.FromBig(amount)
	if overflow {
		return nil, fmt.Errorf("%w: %s exceeds 256 bits", ErrInvalidAmount, amount)
	}
	return v, nil
}

// txn is the Tx returned by Begin. It is used by one goroutine at a time.
type txn struct {
	s      *Store
	closed bool
}

func (t *txn) Address() common.Address {
	return t.s.Address()
}

func (t *txn) BalanceOf(account common.Address) *big.Int {
	return t.s.BalanceOf(account)
}

func (t *txn) Delegates(account common.Address) common.Address {
	return t.s.Delegates(account)
}

func (t *txn) GetVotes(account common.Address) *big.Int {
	return t.s.GetVotes(account)
}

func (t *txn) Transfer(from, to common.Address, amount *big.Int) error {
	if t.closed {
		return ErrTxClosed
	}
	return t.s.transfer(from, to, amount)
}

func (t *txn) Delegate(account, delegatee common.Address) error {
	if t.closed {
		return ErrTxClosed
	}
	return t.s.delegate(account, delegatee)
}

// Commit keeps the transaction's changes. Closing a Tx twice has no effect.
func (t *txn) Commit() {
	if !t.closed {
		t.closed = true
		t.s.close(false)
	}
}

// Rollback undoes the transaction's changes.
func (t *txn) Rollback() {
	if !t.closed {
		t.closed = true
		t.s.close(true)
	}
}
