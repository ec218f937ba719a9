package txn

import (
	"context"
	"fmt"
	"time"

	"github.com/Conflux-Chain/go-conflux-util/viper"
	"github.com/dolanor/quorum-acceptance-tests/network"
	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru"
	"github.com/mcuadros/go-defaults"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	ReceiptCacheSize int           `default:"2048"`
	PollInterval     time.Duration `default:"500ms"`
	PollTimeout      time.Duration `default:"30s"`
	Concurrency      int           `default:"8"`
}

// DefaultConfig returns a Config with default values applied.
func DefaultConfig() Config {
	var cfg Config
	defaults.SetDefaults(&cfg)
	return cfg
}

// CallerResolver resolves a participant name to its RPC caller.
type CallerResolver interface {
	CallerFor(name string) (network.Caller, error)
}

// Gateway queries participant nodes for transaction receipts.
type Gateway struct {
	net   CallerResolver
	cfg   Config
	cache *lru.Cache // mined receipts by node/txn hash
}

// MustNewGatewayFromViper creates a transaction gateway configured from the
// "txn" viper key, panic on error.
func MustNewGatewayFromViper(net CallerResolver) *Gateway {
	var cfg Config
	viper.MustUnmarshalKey("txn", &cfg)

	return MustNewGateway(net, cfg)
}

func MustNewGateway(net CallerResolver, cfg Config) *Gateway {
	cache, err := lru.New(cfg.ReceiptCacheSize)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create receipt cache")
	}

	return &Gateway{net: net, cfg: cfg, cache: cache}
}

// ReceiptFor queries the given node for a transaction's receipt by hash.
// A nil receipt with nil error means the node does not know the transaction.
func (g *Gateway) ReceiptFor(ctx context.Context, node string, txnHash common.Hash) (*Receipt, error) {
	cacheKey := fmt.Sprintf("%v/%v", node, txnHash)
	if v, ok := g.cache.Get(cacheKey); ok {
		return v.(*Receipt), nil
	}

	caller, err := g.net.CallerFor(node)
	if err != nil {
		return nil, err
	}

	var receipt *Receipt
	if err := caller.CallContext(ctx, &receipt, "eth_getTransactionReceipt", txnHash); err != nil {
		return nil, errors.WithMessagef(err, "failed to get transaction receipt from %v", node)
	}

	// mined receipts are immutable, pending or absent ones must be re-queried
	if receipt.Mined() {
		g.cache.Add(cacheKey, receipt)
	}

	return receipt, nil
}

// WaitMined polls the given node until the transaction's receipt carries a
// nonzero block number, or until the poll timeout elapses.
func (g *Gateway) WaitMined(ctx context.Context, node string, txnHash common.Hash) (*Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.PollTimeout)
	defer cancel()

	ticker := time.NewTicker(g.cfg.PollInterval)
	defer ticker.Stop()

	for {
		receipt, err := g.ReceiptFor(ctx, node, txnHash)
		if err != nil {
			return nil, err
		}

		if receipt.Mined() {
			return receipt, nil
		}

		select {
		case <-ctx.Done():
			return nil, errors.WithMessagef(ctx.Err(), "transaction %v not mined on %v", txnHash, node)
		case <-ticker.C:
		}
	}
}

// CountMined concurrently looks up every transaction's receipt on the given
// node and counts those already included in a nonzero block. Any lookup
// error fails the whole operation.
func (g *Gateway) CountMined(ctx context.Context, node string, txnHashes []common.Hash) (int, error) {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.Concurrency)

	minedFlags := make([]bool, len(txnHashes))
	for i, h := range txnHashes {
		idx, txnHash := i, h

		eg.Go(func() error {
			receipt, err := g.ReceiptFor(ctx, node, txnHash)
			if err != nil {
				return err
			}

			// flag index is unique per goroutine within the group
			minedFlags[idx] = receipt.Mined()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return 0, err
	}

	count := 0
	for _, mined := range minedFlags {
		if mined {
			count++
		}
	}

	return count, nil
}
