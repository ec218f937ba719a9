package scenario

import (
	"testing"

	"github.com/dolanor/quorum-acceptance-tests/chain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func newContracts(n int) []*chain.Contract {
	contracts := make([]*chain.Contract, n)
	for i := range contracts {
		contracts[i] = &chain.Contract{
			Address: common.BigToAddress(common.Big1),
			TxnHash: common.BigToHash(common.Big1),
		}
	}
	return contracts
}

func TestBatchesForUnionsRoles(t *testing.T) {
	ctx := New()
	ctx.StoreBatch("Node1", RoleSource, newContracts(3))
	ctx.StoreBatch("Node2", RoleTarget, newContracts(3))

	assert.Len(t, ctx.BatchesFor("Node1"), 3)
	assert.Len(t, ctx.BatchesFor("Node2"), 3)
	assert.Empty(t, ctx.BatchesFor("Node3"))

	// a node that was both source and target sees both batches
	ctx.StoreBatch("Node1", RoleTarget, newContracts(2))
	assert.Len(t, ctx.BatchesFor("Node1"), 5)
}

func TestStoreBatchLastWriteWins(t *testing.T) {
	ctx := New()
	ctx.StoreBatch("Node1", RoleSource, newContracts(3))
	ctx.StoreBatch("Node1", RoleSource, newContracts(1))

	assert.Len(t, ctx.BatchesFor("Node1"), 1)
}

func TestContextsAreIndependent(t *testing.T) {
	first, second := New(), New()
	assert.NotEqual(t, first.ID, second.ID)

	first.StoreBatch("Node1", RoleSource, newContracts(2))
	assert.Empty(t, second.BatchesFor("Node1"))
}
