package splitter

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Binding builds calldata for a splitter deployed at a fixed address. The
// same calldata can be sent to an on-chain DelegationSplitter or handed to
// Registry.Dispatch.
type Binding struct {
	address common.Address
	abi     abi.ABI
}

// NewBinding returns a Binding for the splitter at address.
func NewBinding(address common.Address) *Binding {
	return &Binding{address: address, abi: splitterABI}
}

// Address returns the splitter address.
func (b *Binding) Address() common.Address {
	return b.address
}

// ABI returns the splitter ABI.
func (b *Binding) ABI() abi.ABI {
	return b.abi
}

// HasMethod returns true if the splitter has a method with the given name.
func (b *Binding) HasMethod(name string) bool {
	_, ok := b.abi.Methods[name]
	return ok
}

// Call is packed calldata for one splitter method.
type Call struct {
	To     common.Address
	Method string
	Data   []byte
}

// Selector returns the 4-byte function selector.
func (c *Call) Selector() [4]byte {
	var sel [4]byte
	copy(sel[:], c.Data[:4])
	return sel
}

// Invoke packs a call to the named method.
func (b *Binding) Invoke(method string, args ...any) (*Call, error) {
	m, ok := b.abi.Methods[method]
	if !ok {
		return nil, &MethodNotFoundError{Contract: b.address, Method: method}
	}
	if len(args) != len(m.Inputs) {
		return nil, &ArgumentError{Method: method, Index: len(args), Err: ErrArgumentCount}
	}
	data, err := b.abi.Pack(method, args...)
	if err != nil {
		return nil, &ArgumentError{Method: method, Index: -1, Err: err}
	}
	return &Call{To: b.address, Method: method, Data: data}, nil
}

// MustInvoke is like Invoke but panics on error.
func (b *Binding) MustInvoke(method string, args ...any) *Call {
	call, err := b.Invoke(method, args...)
	if err != nil {
		panic(err)
	}
	return call
}

// Delegate packs delegate(delegatee, amount).
func (b *Binding) Delegate(delegatee common.Address, amount *big.Int) (*Call, error) {
	return b.Invoke(OpDelegate, delegatee, amount)
}

// Undelegate packs undelegate(delegatee, amount, to).
func (b *Binding) Undelegate(delegatee common.Address, amount *big.Int, to common.Address) (*Call, error) {
	return b.Invoke(OpUndelegate, delegatee, amount, to)
}

// MoveDelegation packs moveDelegation(from, to, amount).
func (b *Binding) MoveDelegation(from, to common.Address, amount *big.Int) (*Call, error) {
	return b.Invoke(OpMoveDelegation, from, to, amount)
}

// Withdraw packs withdraw(to, amount).
func (b *Binding) Withdraw(to common.Address, amount *big.Int) (*Call, error) {
	return b.Invoke(OpWithdraw, to, amount)
}

// GetHolder packs getHolder(delegatee).
func (b *Binding) GetHolder(delegatee common.Address) (*Call, error) {
	return b.Invoke(MethodGetHolder, delegatee)
}

// UnpackAddress decodes the single address returned by a view method such
// as getHolder, instToken or owner.
func (b *Binding) UnpackAddress(method string, output []byte) (common.Address, error) {
	values, err := b.abi.Unpack(method, output)
	if err != nil {
		return common.Address{}, fmt.Errorf("splitter: unpack %s: %w", method, err)
	}
	if len(values) != 1 {
		return common.Address{}, fmt.Errorf("splitter: unpack %s: %d outputs", method, len(values))
	}
	addr, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, &TypeMismatchError{Expected: "address", Got: fmt.Sprintf("%T", values[0])}
	}
	return addr, nil
}

// Dispatch decodes splitter calldata and runs it against the registry as if
// caller had sent it in a transaction. View methods return their ABI-encoded
// output and a nil receipt; state-changing methods return a receipt.
func (r *Registry) Dispatch(caller common.Address, data []byte) (*Receipt, []byte, error) {
	if len(data) < 4 {
		return nil, nil, &ArgumentError{Method: "", Index: -1, Err: ErrArgumentCount}
	}
	m, err := splitterABI.MethodById(data[:4])
	if err != nil {
		return nil, nil, fmt.Errorf("splitter: %w", err)
	}
	args, err := m.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, nil, &ArgumentError{Method: m.Name, Index: -1, Err: err}
	}

	addr := func(i int) common.Address { return args[i].(common.Address) }
	amount := func(i int) *big.Int { return args[i].(*big.Int) }

	switch m.Name {
	case OpDelegate:
		receipt, err := r.Delegate(caller, addr(0), amount(1))
		return receipt, nil, err
	case OpUndelegate:
		receipt, err := r.Undelegate(caller, addr(0), amount(1), addr(2))
		return receipt, nil, err
	case OpMoveDelegation:
		receipt, err := r.MoveDelegation(caller, addr(0), addr(1), amount(2))
		return receipt, nil, err
	case OpWithdraw:
		receipt, err := r.Withdraw(caller, addr(0), amount(1))
		return receipt, nil, err
	case OpTransferOwnership:
		if err := r.TransferOwnership(caller, addr(0)); err != nil {
			return nil, nil, err
		}
		return &Receipt{}, nil, nil
	case OpRenounceOwnership:
		return nil, nil, r.RenounceOwnership(caller)
	case MethodGetHolder:
		out, err := m.Outputs.Pack(r.GetHolder(addr(0)))
		return nil, out, err
	case MethodInitCodeHash:
		out, err := m.Outputs.Pack([32]byte(r.InitCodeHash()))
		return nil, out, err
	case MethodInstToken:
		out, err := m.Outputs.Pack(r.store.Address())
		return nil, out, err
	case MethodOwner:
		out, err := m.Outputs.Pack(r.Owner())
		return nil, out, err
	default:
		return nil, nil, &MethodNotFoundError{Contract: r.address, Method: m.Name}
	}
}
