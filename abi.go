package splitter

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// SplitterABIJSON is the interface of the on-chain DelegationSplitter.
const SplitterABIJSON = `[
	{"type": "constructor", "inputs": [{"name": "_instToken", "type": "address"}]},
	{
		"name": "delegate", "type": "function", "stateMutability": "nonpayable",
		"inputs": [{"name": "delegatee", "type": "address"}, {"name": "amount", "type": "uint256"}],
		"outputs": []
	},
	{
		"name": "undelegate", "type": "function", "stateMutability": "nonpayable",
		"inputs": [
			{"name": "delegatee", "type": "address"},
			{"name": "amount", "type": "uint256"},
			{"name": "to", "type": "address"}
		],
		"outputs": []
	},
	{
		"name": "moveDelegation", "type": "function", "stateMutability": "nonpayable",
		"inputs": [
			{"name": "from", "type": "address"},
			{"name": "to", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"outputs": []
	},
	{
		"name": "withdraw", "type": "function", "stateMutability": "nonpayable",
		"inputs": [{"name": "to", "type": "address"}, {"name": "amount", "type": "uint256"}],
		"outputs": []
	},
	{
		"name": "getHolder", "type": "function", "stateMutability": "view",
		"inputs": [{"name": "delegatee", "type": "address"}],
		"outputs": [{"name": "", "type": "address"}]
	},
	{
		"name": "INIT_CODE_HASH", "type": "function", "stateMutability": "view",
		"inputs": [],
		"outputs": [{"name": "", "type": "bytes32"}]
	},
	{
		"name": "instToken", "type": "function", "stateMutability": "view",
		"inputs": [],
		"outputs": [{"name": "", "type": "address"}]
	},
	{
		"name": "owner", "type": "function", "stateMutability": "view",
		"inputs": [],
		"outputs": [{"name": "", "type": "address"}]
	},
	{
		"name": "transferOwnership", "type": "function", "stateMutability": "nonpayable",
		"inputs": [{"name": "newOwner", "type": "address"}],
		"outputs": []
	},
	{
		"name": "renounceOwnership", "type": "function", "stateMutability": "nonpayable",
		"inputs": [],
		"outputs": []
	},
	{
		"name": "Delegated", "type": "event", "anonymous": false,
		"inputs": [
			{"name": "delegatee", "type": "address", "indexed": true},
			{"name": "amount", "type": "uint256", "indexed": false}
		]
	},
	{
		"name": "UnDelegated", "type": "event", "anonymous": false,
		"inputs": [
			{"name": "delegatee", "type": "address", "indexed": true},
			{"name": "amount", "type": "uint256", "indexed": false}
		]
	},
	{
		"name": "Withdrawn", "type": "event", "anonymous": false,
		"inputs": [
			{"name": "to", "type": "address", "indexed": true},
			{"name": "amount", "type": "uint256", "indexed": false}
		]
	}
]`

// HolderABIJSON is the interface of the on-chain DelegationHolder.
const HolderABIJSON = `[
	{
		"name": "initialize", "type": "function", "stateMutability": "nonpayable",
		"inputs": [{"name": "_instToken", "type": "address"}, {"name": "_delegatee", "type": "address"}],
		"outputs": []
	},
	{
		"name": "withdraw", "type": "function", "stateMutability": "nonpayable",
		"inputs": [{"name": "to", "type": "address"}, {"name": "amount", "type": "uint256"}],
		"outputs": []
	},
	{
		"name": "delegatee", "type": "function", "stateMutability": "view",
		"inputs": [],
		"outputs": [{"name": "", "type": "address"}]
	},
	{
		"name": "instToken", "type": "function", "stateMutability": "view",
		"inputs": [],
		"outputs": [{"name": "", "type": "address"}]
	},
	{
		"name": "owner", "type": "function", "stateMutability": "view",
		"inputs": [],
		"outputs": [{"name": "", "type": "address"}]
	}
]`

var (
	splitterABI = MustParseABI(SplitterABIJSON)
	holderABI   = MustParseABI(HolderABIJSON)
)

// SplitterABI returns the parsed DelegationSplitter ABI.
func SplitterABI() abi.ABI {
	return splitterABI
}

// HolderABI returns the parsed DelegationHolder ABI.
func HolderABI() abi.ABI {
	return holderABI
}

// ParseABI parses a JSON ABI string into an abi.ABI.
func ParseABI(abiJSON string) (abi.ABI, error) {
	return abi.JSON(strings.NewReader(abiJSON))
}

// MustParseABI is like ParseABI but panics on error.
func MustParseABI(abiJSON string) abi.ABI {
	parsed, err := ParseABI(abiJSON)
	if err != nil {
		panic(err)
	}
	return parsed
}

// EventKind names a registry event.
type EventKind string

const (
	EventDelegated   EventKind = "Delegated"
	EventUnDelegated EventKind = "UnDelegated"
	EventWithdrawn   EventKind = "Withdrawn"
)

// Event is a decoded registry event. Account is the delegatee for Delegated
// and UnDelegated, and the recipient for Withdrawn.
type Event struct {
	Kind    EventKind
	Account common.Address
	Amount  *big.Int
}

func (e Event) String() string {
	return fmt.Sprintf("%s(%s, %s)", e.Kind, e.Account.Hex(), amountString(e.Amount))
}

// ToLog ABI-encodes the event as a log emitted by emitter.
func (e Event) ToLog(emitter common.Address) (*types.Log, error) {
	ev, ok := splitterABI.Events[string(e.Kind)]
	if !ok {
		return nil, fmt.Errorf("splitter: unknown event %q", e.Kind)
	}
	data, err := ev.Inputs.NonIndexed().Pack(e.Amount)
	if err != nil {
		return nil, fmt.Errorf("splitter: pack %s: %w", e.Kind, err)
	}
	return &types.Log{
		Address: emitter,
		Topics:  []common.Hash{ev.ID, common.BytesToHash(e.Account.Bytes())},
		Data:    data,
	}, nil
}

// DecodeEvent parses a log produced by a splitter, whether the Go registry
// or an on-chain deployment.
func DecodeEvent(l *types.Log) (Event, error) {
	if l == nil || len(l.Topics) != 2 {
		return Event{}, fmt.Errorf("splitter: not a splitter event log")
	}
	ev, err := splitterABI.EventByID(l.Topics[0])
	if err != nil {
		return Event{}, fmt.Errorf("splitter: %w", err)
	}
	values, err := ev.Inputs.NonIndexed().Unpack(l.Data)
	if err != nil {
		return Event{}, fmt.Errorf("splitter: unpack %s: %w", ev.Name, err)
	}
	amount, ok := values[0].(*big.Int)
	if !ok {
		return Event{}, fmt.Errorf("splitter: unexpected %s amount type %T", ev.Name, values[0])
	}
	return Event{
		Kind:    EventKind(ev.Name),
		Account: common.BytesToAddress(l.Topics[1].Bytes()),
		Amount:  amount,
	}, nil
}
