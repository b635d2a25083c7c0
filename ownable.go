package splitter

import (
	"github.com/ethereum/go-ethereum/common"
)

// ownable is a single-owner access gate. Registry and Holder each keep one in
// an unexported field and forward only the entry points they allow; every
// mutating entry point of either checks requireOwner first.
type ownable struct {
	owner common.Address
}

func newOwnable(owner common.Address) ownable {
	return ownable{owner: owner}
}

func (o *ownable) Owner() common.Address {
	return o.owner
}

func (o *ownable) TransferOwnership(caller, newOwner common.Address) error {
	if err := o.requireOwner(caller); err != nil {
		return err
	}
	if newOwner == (common.Address{}) {
		return ErrZeroAddress
	}
	o.owner = newOwner
	return nil
}

// RenounceOwnership leaves the gate without an owner, which disables every
// privileged operation for good.
func (o *ownable) RenounceOwnership(caller common.Address) error {
	if err := o.requireOwner(caller); err != nil {
		return err
	}
	o.owner = common.Address{}
	return nil
}

func (o *ownable) requireOwner(caller common.Address) error {
	if caller != o.owner || o.owner == (common.Address{}) {
		return ErrNotOwner
	}
	return nil
}
