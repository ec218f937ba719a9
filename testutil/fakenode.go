// Package testutil provides an in-memory fake of a permissioned network so
// gateway and step tests can run without provisioned nodes.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"sync"

	"github.com/cespare/xxhash"
	"github.com/dolanor/quorum-acceptance-tests/network"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

const (
	setSelector = "0x60fe47b1" // set(uint256)
	getSelector = "0x6d4ce63c" // get()
)

// FakeNetwork simulates participant nodes sharing one chain, each holding
// only the private contract state it is party to.
type FakeNetwork struct {
	mu    sync.Mutex
	nodes map[string]*FakeNode

	blockNumber uint64
	txnNonce    uint64
	txns        map[common.Hash]*fakeTxn
	contracts   map[common.Address]*fakeContract

	// receipt polls before a submitted transaction reports as mined
	minedAfterPolls int
	// hand out zero block receipts instead of null while pending
	zeroBlockPendingReceipts bool
	// upcoming eth_sendTransaction calls to fail
	failNextSubmissions int
}

type fakeTxn struct {
	hash      common.Hash
	contract  *common.Address // set for deployments
	minedIn   uint64          // block number, 0 while pending
	pollsLeft int
}

type fakeContract struct {
	value   *big.Int
	parties map[string]bool // participant name => party to the private state
}

// FakeNode is one participant's RPC endpoint. It satisfies network.Caller.
type FakeNode struct {
	net            *FakeNetwork
	name           string
	privacyAddress string
	account        common.Address
}

func NewFakeNetwork(names ...string) *FakeNetwork {
	f := &FakeNetwork{
		nodes:       make(map[string]*FakeNode, len(names)),
		txns:        make(map[common.Hash]*fakeTxn),
		contracts:   make(map[common.Address]*fakeContract),
		blockNumber: 1,
	}

	for i, name := range names {
		f.nodes[name] = &FakeNode{
			net:            f,
			name:           name,
			privacyAddress: fmt.Sprintf("%v-transaction-manager-key", name),
			account:        common.BigToAddress(big.NewInt(int64(i + 1))),
		}
	}

	return f
}

// SetMinedAfterPolls delays mining: each submitted transaction reports as
// mined only after its receipt has been polled n times.
func (f *FakeNetwork) SetMinedAfterPolls(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.minedAfterPolls = n
}

// UseZeroBlockPendingReceipts makes pending transactions report a receipt
// with a zero block number instead of no receipt at all.
func (f *FakeNetwork) UseZeroBlockPendingReceipts() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.zeroBlockPendingReceipts = true
}

// FailNextSubmissions makes the next n eth_sendTransaction calls fail.
func (f *FakeNetwork) FailNextSubmissions(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failNextSubmissions = n
}

// CallerFor resolves a participant name to its fake RPC endpoint.
func (f *FakeNetwork) CallerFor(name string) (network.Caller, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	node, ok := f.nodes[name]
	if !ok {
		return nil, errors.Errorf("unknown network participant %v", name)
	}

	return node, nil
}

// PrivacyAddressOf returns the fake transaction manager key of the named
// participant.
func (f *FakeNetwork) PrivacyAddressOf(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	node, ok := f.nodes[name]
	if !ok {
		return "", errors.Errorf("unknown network participant %v", name)
	}

	return node.privacyAddress, nil
}

// CallContext dispatches a JSON-RPC method against this node's view of the
// chain. Requests and responses cross a JSON round trip, matching what the
// real transport does.
func (n *FakeNode) CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n.net.mu.Lock()
	defer n.net.mu.Unlock()

	switch method {
	case "eth_accounts":
		return setResult(result, []common.Address{n.account})
	case "eth_sendTransaction":
		return n.sendTransaction(result, args...)
	case "eth_getTransactionReceipt":
		return n.transactionReceipt(result, args...)
	case "eth_call":
		return n.call(result, args...)
	case "eth_storageRoot":
		return n.storageRoot(result, args...)
	case "eth_blockNumber":
		return setResult(result, hexutil.Uint64(n.net.blockNumber))
	case "net_version":
		return setResult(result, "10")
	default:
		return errors.Errorf("method %v not supported by fake node", method)
	}
}

func (n *FakeNode) sendTransaction(result interface{}, args ...interface{}) error {
	if len(args) != 1 {
		return errors.Errorf("eth_sendTransaction takes 1 argument, got %v", len(args))
	}

	net := n.net
	if net.failNextSubmissions > 0 {
		net.failNextSubmissions--
		return errors.New("transaction submission rejected")
	}

	var sendArgs struct {
		From       common.Address  `json:"from"`
		To         *common.Address `json:"to"`
		Data       hexutil.Bytes   `json:"data"`
		PrivateFor []string        `json:"privateFor"`
	}
	if err := decodeArg(args[0], &sendArgs); err != nil {
		return errors.WithMessage(err, "malformed eth_sendTransaction payload")
	}

	if sendArgs.From != n.account {
		return errors.Errorf("account %v is not managed by this node", sendArgs.From)
	}

	parties := map[string]bool{n.name: true}
	for _, key := range sendArgs.PrivateFor {
		for name, node := range net.nodes {
			if node.privacyAddress == key {
				parties[name] = true
			}
		}
	}

	net.txnNonce++
	txn := &fakeTxn{
		hash:      common.BigToHash(new(big.Int).SetUint64(0xfa4e<<32 | net.txnNonce)),
		pollsLeft: net.minedAfterPolls,
	}

	data := hexutil.Encode(sendArgs.Data)
	switch {
	case sendArgs.To == nil:
		// deployment, constructor argument is the trailing word
		if len(sendArgs.Data) < 32 {
			return errors.New("deployment payload too short")
		}
		address := common.BigToAddress(new(big.Int).SetUint64(0xc0de<<32 | net.txnNonce))
		net.contracts[address] = &fakeContract{
			value:   new(big.Int).SetBytes(sendArgs.Data[len(sendArgs.Data)-32:]),
			parties: parties,
		}
		txn.contract = &address
	case len(data) == len(setSelector)+64 && data[:len(setSelector)] == setSelector:
		contract, ok := net.contracts[*sendArgs.To]
		if !ok {
			return errors.Errorf("no contract at %v", sendArgs.To)
		}
		if contract.parties[n.name] {
			contract.value = new(big.Int).SetBytes(sendArgs.Data[4:36])
		}
	default:
		return errors.Errorf("unrecognized transaction payload %v", data)
	}

	if txn.pollsLeft == 0 {
		net.blockNumber++
		txn.minedIn = net.blockNumber
	}

	net.txns[txn.hash] = txn
	return setResult(result, txn.hash)
}

func (n *FakeNode) transactionReceipt(result interface{}, args ...interface{}) error {
	if len(args) != 1 {
		return errors.Errorf("eth_getTransactionReceipt takes 1 argument, got %v", len(args))
	}

	var hash common.Hash
	if err := decodeArg(args[0], &hash); err != nil {
		return errors.WithMessage(err, "malformed transaction hash")
	}

	net := n.net
	txn, ok := net.txns[hash]
	if !ok {
		return setResult(result, nil)
	}

	if txn.minedIn == 0 {
		if txn.pollsLeft > 0 {
			txn.pollsLeft--
		} else {
			net.blockNumber++
			txn.minedIn = net.blockNumber
		}
	}

	if txn.minedIn == 0 {
		if !net.zeroBlockPendingReceipts {
			return setResult(result, nil)
		}
		return setResult(result, newReceiptFields(hash, txn.contract, 0))
	}

	return setResult(result, newReceiptFields(hash, txn.contract, txn.minedIn))
}

func (n *FakeNode) call(result interface{}, args ...interface{}) error {
	if len(args) != 2 {
		return errors.Errorf("eth_call takes 2 arguments, got %v", len(args))
	}

	var callArgs struct {
		To   common.Address `json:"to"`
		Data hexutil.Bytes  `json:"data"`
	}
	if err := decodeArg(args[0], &callArgs); err != nil {
		return errors.WithMessage(err, "malformed eth_call payload")
	}

	if hexutil.Encode(callArgs.Data) != getSelector {
		return errors.Errorf("unrecognized call payload %v", hexutil.Encode(callArgs.Data))
	}

	contract, ok := n.net.contracts[callArgs.To]
	if !ok {
		return errors.Errorf("no contract at %v", callArgs.To)
	}

	// non-party nodes never see the private state and observe the zero value
	value := new(big.Int)
	if contract.parties[n.name] {
		value = contract.value
	}

	return setResult(result, hexutil.Bytes(common.BigToHash(value).Bytes()))
}

func (n *FakeNode) storageRoot(result interface{}, args ...interface{}) error {
	if len(args) != 2 {
		return errors.Errorf("eth_storageRoot takes 2 arguments, got %v", len(args))
	}

	var address common.Address
	if err := decodeArg(args[0], &address); err != nil {
		return errors.WithMessage(err, "malformed contract address")
	}

	contract, ok := n.net.contracts[address]
	if !ok {
		return errors.Errorf("no contract at %v", address)
	}

	// parties fingerprint the replicated private state, strangers the empty
	// state
	state := "empty"
	if contract.parties[n.name] {
		state = contract.value.String()
	}

	root := xxhash.Sum64String(fmt.Sprintf("%v|%v", address, state))
	return setResult(result, fmt.Sprintf("0x%016x", root))
}

func newReceiptFields(hash common.Hash, contract *common.Address, minedIn uint64) map[string]interface{} {
	fields := map[string]interface{}{
		"transactionHash": hash,
		"blockNumber":     hexutil.Uint64(minedIn),
		"gasUsed":         hexutil.Uint64(21000),
		"status":          hexutil.Uint64(1),
	}
	if minedIn != 0 {
		fields["blockHash"] = common.BigToHash(new(big.Int).SetUint64(minedIn))
	}
	if contract != nil {
		fields["contractAddress"] = contract
	}
	return fields
}

func decodeArg(arg, target interface{}) error {
	data, err := json.Marshal(arg)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

func setResult(result, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, result)
}
