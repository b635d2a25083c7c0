package splitter

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// HolderName is the contract name whose creation code the default init code
// hash fingerprints.
const HolderName = "DelegationHolder"

// DefaultInitCodeHash is the fingerprint of the holder creation code used when
// no other hash is configured. Holder construction takes no arguments, so the
// hash is the same for every delegatee.
var DefaultInitCodeHash = crypto.Keccak256Hash([]byte(HolderName))

// HolderSalt returns the CREATE2 salt for delegatee: keccak256 of the
// tightly packed address.
func HolderSalt(delegatee common.Address) common.Hash {
	return crypto.Keccak256Hash(delegatee.Bytes())
}

// DeriveHolderAddress computes the holder identity that deployer produces for
// delegatee. It needs no state and gives the same answer before and after the
// holder exists.
func DeriveHolderAddress(deployer, delegatee common.Address, initCodeHash common.Hash) common.Address {
	return crypto.CreateAddress2(deployer, HolderSalt(delegatee), initCodeHash.Bytes())
}
