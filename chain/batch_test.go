package chain_test

import (
	"context"
	"testing"

	"github.com/dolanor/quorum-acceptance-tests/testutil"
	"github.com/dolanor/quorum-acceptance-tests/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeployBatch(t *testing.T) {
	net := testutil.NewFakeNetwork("Node1", "Node2")
	gateway := newTestGateway(net)

	for _, count := range []int{0, 1, 7} {
		contracts, err := gateway.DeployBatch(context.Background(), count, "Node1", "Node2", 10)
		require.NoError(t, err)
		require.Len(t, contracts, count)

		seen := make(map[string]bool, count)
		for i, contract := range contracts {
			require.NotNil(t, contract, "batch slot %v must be filled", i)
			assert.True(t, util.IsValidHashStr(contract.TxnHash.Hex()))
			assert.False(t, seen[contract.TxnHash.Hex()], "deployments must be independent transactions")
			seen[contract.TxnHash.Hex()] = true
		}
	}
}

func TestDeployBatchFailsAsWhole(t *testing.T) {
	net := testutil.NewFakeNetwork("Node1", "Node2")
	gateway := newTestGateway(net)

	net.FailNextSubmissions(1)

	contracts, err := gateway.DeployBatch(context.Background(), 5, "Node1", "Node2", 10)
	assert.Error(t, err)
	assert.Nil(t, contracts)
}
