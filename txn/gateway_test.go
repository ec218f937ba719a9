package txn_test

import (
	"context"
	"testing"
	"time"

	"github.com/dolanor/quorum-acceptance-tests/chain"
	"github.com/dolanor/quorum-acceptance-tests/testutil"
	"github.com/dolanor/quorum-acceptance-tests/txn"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deployContracts(t *testing.T, net *testutil.FakeNetwork, txns *txn.Gateway, count int) []*chain.Contract {
	t.Helper()

	gateway := chain.NewGateway(net, txns, chain.DefaultConfig())
	contracts, err := gateway.DeployBatch(context.Background(), count, "Node1", "Node2", 10)
	require.NoError(t, err)

	return contracts
}

func fastPollConfig() txn.Config {
	cfg := txn.DefaultConfig()
	cfg.PollInterval = time.Millisecond
	cfg.PollTimeout = time.Second
	return cfg
}

func TestReceiptForUnknownTransaction(t *testing.T) {
	net := testutil.NewFakeNetwork("Node1", "Node2")
	txns := txn.MustNewGateway(net, txn.DefaultConfig())

	receipt, err := txns.ReceiptFor(context.Background(), "Node1", common.HexToHash("0xdead"))
	require.NoError(t, err)
	assert.Nil(t, receipt)
	assert.False(t, receipt.Mined())
}

func TestWaitMinedPollsUntilIncluded(t *testing.T) {
	net := testutil.NewFakeNetwork("Node1", "Node2")
	net.SetMinedAfterPolls(3)
	txns := txn.MustNewGateway(net, fastPollConfig())

	contracts := deployContracts(t, net, txns, 1)

	receipt := contracts[0].Receipt
	require.True(t, receipt.Mined())
	assert.True(t, receipt.Successful())
}

func TestWaitMinedZeroBlockPendingReceipts(t *testing.T) {
	// some nodes report a pending receipt with a zero block number, it must
	// not count as mined
	net := testutil.NewFakeNetwork("Node1", "Node2")
	net.SetMinedAfterPolls(3)
	net.UseZeroBlockPendingReceipts()
	txns := txn.MustNewGateway(net, fastPollConfig())

	contracts := deployContracts(t, net, txns, 1)
	assert.True(t, contracts[0].Receipt.Mined())
}

func TestCountMined(t *testing.T) {
	net := testutil.NewFakeNetwork("Node1", "Node2")
	txns := txn.MustNewGateway(net, txn.DefaultConfig())

	contracts := deployContracts(t, net, txns, 5)

	hashes := make([]common.Hash, 0, len(contracts))
	for _, contract := range contracts {
		hashes = append(hashes, contract.TxnHash)
	}

	for _, node := range []string{"Node1", "Node2"} {
		count, err := txns.CountMined(context.Background(), node, hashes)
		require.NoError(t, err)
		assert.Equal(t, 5, count)
	}

	count, err := txns.CountMined(context.Background(), "Node1", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCountMinedUnknownNode(t *testing.T) {
	net := testutil.NewFakeNetwork("Node1")
	txns := txn.MustNewGateway(net, txn.DefaultConfig())

	_, err := txns.CountMined(context.Background(), "NodeX", []common.Hash{{}})
	assert.Error(t, err)
}

func TestMinedReceiptsAreCached(t *testing.T) {
	net := testutil.NewFakeNetwork("Node1", "Node2")
	txns := txn.MustNewGateway(net, txn.DefaultConfig())

	contracts := deployContracts(t, net, txns, 1)
	hash := contracts[0].TxnHash

	first, err := txns.ReceiptFor(context.Background(), "Node1", hash)
	require.NoError(t, err)
	require.True(t, first.Mined())

	// second lookup is served from the cache and returns the same receipt
	second, err := txns.ReceiptFor(context.Background(), "Node1", hash)
	require.NoError(t, err)
	assert.Same(t, first, second)
}
