package chain

import (
	"context"
	"sync"
	"time"

	"github.com/Conflux-Chain/go-conflux-util/viper"
	"github.com/dolanor/quorum-acceptance-tests/metrics"
	"github.com/dolanor/quorum-acceptance-tests/network"
	"github.com/dolanor/quorum-acceptance-tests/txn"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/mcuadros/go-defaults"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type Config struct {
	GasLimit          uint64        `default:"4700000"`
	DeployConcurrency int           `default:"8"`
	DeployRate        int           `default:"50"` // max deployments submitted per second
	BatchTimeout      time.Duration `default:"2m"`
}

// DefaultConfig returns a Config with default values applied.
func DefaultConfig() Config {
	var cfg Config
	defaults.SetDefaults(&cfg)
	return cfg
}

// Network is the slice of the participant registry the gateway needs.
type Network interface {
	CallerFor(name string) (network.Caller, error)
	PrivacyAddressOf(name string) (string, error)
}

// Gateway deploys and queries private SimpleStorage contracts on participant
// nodes.
type Gateway struct {
	net     Network
	txns    *txn.Gateway
	cfg     Config
	limiter *rate.Limiter
	latency *metrics.LatencyRecorder

	accounts sync.Map // participant name => default account address
}

// MustNewGatewayFromViper creates a contract gateway configured from the
// "chain" viper key, panic on error.
func MustNewGatewayFromViper(net Network, txns *txn.Gateway) *Gateway {
	var cfg Config
	viper.MustUnmarshalKey("chain", &cfg)

	return NewGateway(net, txns, cfg)
}

func NewGateway(net Network, txns *txn.Gateway, cfg Config) *Gateway {
	return &Gateway{
		net:     net,
		txns:    txns,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.DeployRate), max(cfg.DeployRate, 1)),
		latency: metrics.NewLatencyRecorder(),
	}
}

// sendTxnArgs is the quorum flavored eth_sendTransaction request payload.
// PrivateFor carries the visibility set of the private payload.
type sendTxnArgs struct {
	From       common.Address  `json:"from"`
	To         *common.Address `json:"to,omitempty"`
	Gas        hexutil.Uint64  `json:"gas"`
	Data       hexutil.Bytes   `json:"data"`
	PrivateFor []string        `json:"privateFor,omitempty"`
}

// Deploy submits a private SimpleStorage deployment from source's default
// account, visible to source and target, and waits for the mined receipt.
func (g *Gateway) Deploy(ctx context.Context, initialValue int64, source, target string) (*Contract, error) {
	data, err := simpleStorage.deployData(initialValue)
	if err != nil {
		return nil, err
	}

	hash, err := g.sendPrivateTxn(ctx, source, target, nil, data)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to submit contract deployment")
	}

	receipt, err := g.txns.WaitMined(ctx, source, hash)
	if err != nil {
		return nil, err
	}

	if receipt.ContractAddress == nil {
		return nil, errors.Errorf("no contract address in deployment receipt %v", hash)
	}

	logrus.WithFields(logrus.Fields{
		"address": *receipt.ContractAddress,
		"txnHash": hash,
		"source":  source,
		"target":  target,
	}).Debug("Private contract deployed")

	return &Contract{Address: *receipt.ContractAddress, TxnHash: hash, Receipt: receipt}, nil
}

// Read executes the contract's get() function on the given node and returns
// the stored value. Participants outside the visibility set observe the
// zero value.
func (g *Gateway) Read(ctx context.Context, node string, address common.Address) (int64, error) {
	caller, err := g.net.CallerFor(node)
	if err != nil {
		return 0, err
	}

	data, err := simpleStorage.packGet()
	if err != nil {
		return 0, err
	}

	callArgs := struct {
		To   common.Address `json:"to"`
		Data hexutil.Bytes  `json:"data"`
	}{address, data}

	var out hexutil.Bytes
	if err := caller.CallContext(ctx, &out, "eth_call", callArgs, "latest"); err != nil {
		return 0, errors.WithMessagef(err, "get() call failed on %v", node)
	}

	return simpleStorage.unpackGet(out)
}

// Update submits a private set(newValue) transaction against the contract and
// waits for the mined receipt.
func (g *Gateway) Update(ctx context.Context, source, target string, address common.Address, newValue int64) (*txn.Receipt, error) {
	data, err := simpleStorage.packSet(newValue)
	if err != nil {
		return nil, err
	}

	hash, err := g.sendPrivateTxn(ctx, source, target, &address, data)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to submit set() transaction")
	}

	return g.txns.WaitMined(ctx, source, hash)
}

// StorageRoot returns the node's storage root fingerprint for the contract.
func (g *Gateway) StorageRoot(ctx context.Context, node string, address common.Address) (string, error) {
	caller, err := g.net.CallerFor(node)
	if err != nil {
		return "", err
	}

	var root string
	if err := caller.CallContext(ctx, &root, "eth_storageRoot", address, "latest"); err != nil {
		return "", errors.WithMessagef(err, "eth_storageRoot failed on %v", node)
	}

	return root, nil
}

func (g *Gateway) sendPrivateTxn(
	ctx context.Context, source, target string, to *common.Address, data []byte,
) (common.Hash, error) {
	caller, err := g.net.CallerFor(source)
	if err != nil {
		return common.Hash{}, err
	}

	from, err := g.defaultAccount(ctx, caller, source)
	if err != nil {
		return common.Hash{}, err
	}

	privacyAddr, err := g.net.PrivacyAddressOf(target)
	if err != nil {
		return common.Hash{}, err
	}

	var hash common.Hash
	err = caller.CallContext(ctx, &hash, "eth_sendTransaction", &sendTxnArgs{
		From:       from,
		To:         to,
		Gas:        hexutil.Uint64(g.cfg.GasLimit),
		Data:       data,
		PrivateFor: []string{privacyAddr},
	})
	if err != nil {
		return common.Hash{}, errors.WithMessagef(err, "eth_sendTransaction failed on %v", source)
	}

	return hash, nil
}

func (g *Gateway) defaultAccount(ctx context.Context, caller network.Caller, node string) (common.Address, error) {
	if v, ok := g.accounts.Load(node); ok {
		return v.(common.Address), nil
	}

	var accounts []common.Address
	if err := caller.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return common.Address{}, errors.WithMessagef(err, "failed to get accounts of %v", node)
	}

	if len(accounts) == 0 {
		return common.Address{}, errors.Errorf("participant %v has no default account", node)
	}

	g.accounts.Store(node, accounts[0])
	return accounts[0], nil
}
