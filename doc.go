// Package splitter lets one controlling account split a vote-bearing token
// balance across many delegatees.
//
// A governance token attributes an account's whole balance to a single
// delegate. To back several delegates at once, the Registry keeps one
// Holder per delegatee; each holder delegates all of its balance to its
// delegatee, and moving funds between holders moves voting weight.
//
// # Holder addresses
//
// The holder for a delegatee lives at a CREATE2 address computed from the
// registry address, keccak256(delegatee) as salt, and the holder init code
// hash:
//
//	holder := registry.GetHolder(bob)          // before any delegation
//	_, err := registry.Delegate(owner, bob, amount)
//	// registry.GetHolder(bob) is unchanged, and the holder now exists
//
// Nothing is stored to find a holder. It is created and initialized the
// first time funds are delegated to its delegatee.
//
// # Operations
//
//   - Delegate moves undelegated funds into a delegatee's holder.
//   - Undelegate moves funds out of a holder, back to the registry or to
//     another address.
//   - MoveDelegation moves funds from one holder to another.
//   - Withdraw sends undelegated funds out of the registry.
//
// Every operation is owner-only and returns a Receipt carrying the emitted
// events, both as Event values and as ABI-encoded logs matching the
// on-chain DelegationSplitter. Binding packs calldata for the same methods,
// and Registry.Dispatch executes such calldata against a Registry.
//
// # Value store
//
// Balances and voting weight live in a ValueStore. Package memstore provides
// an in-memory implementation that also supports transactions. The registry
// runs each operation in its own transaction and rolls it back on failure,
// so registries sharing one store never undo each other's changes.
package splitter
