package splitter

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ValueStore is the vote-bearing token ledger the registry and its holders
// keep their balances in. Transfer and Delegate act on behalf of the account
// passed as the first argument, the way a token contract acts on behalf of
// msg.sender.
type ValueStore interface {
	// Address returns the ledger's own identity.
	Address() common.Address

	// BalanceOf returns the balance held by account.
	BalanceOf(account common.Address) *big.Int

	// Transfer moves amount from from to to.
	Transfer(from, to common.Address, amount *big.Int) error

	// Delegate binds all of account's voting weight to delegatee.
	Delegate(account, delegatee common.Address) error

	// Delegates returns the account's current delegatee, zero if none.
	Delegates(account common.Address) common.Address

	// GetVotes returns the voting weight currently attributed to account.
	GetVotes(account common.Address) *big.Int
}

// Tx is an open transaction on a store. Writes made through it take effect
// at once and are undone as a group by Rollback; Commit keeps them. Exactly
// one of the two must be called.
type Tx = interface {
	ValueStore

	Commit()
	Rollback()
}

// Journal is implemented by stores that support transactions. Begin blocks
// until no other transaction on the store is open, and the store accepts no
// writes except through the returned Tx until it is closed. The registry runs
// each operation in its own transaction.
type Journal interface {
	Begin() Tx
}
