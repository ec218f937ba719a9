package txn

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Receipt identifies a mined transaction. Produced by the node, never mutated
// by the harness.
type Receipt struct {
	TransactionHash common.Hash     `json:"transactionHash"`
	ContractAddress *common.Address `json:"contractAddress"`
	BlockHash       *common.Hash    `json:"blockHash"`
	BlockNumber     *hexutil.Big    `json:"blockNumber"`
	GasUsed         hexutil.Uint64  `json:"gasUsed"`
	Status          *hexutil.Uint64 `json:"status"`
}

// Mined reports whether the transaction has been included in a block. Some
// node implementations hand out a pending receipt with a zero block number
// before inclusion, so both an absent and a zero block number count as not
// yet mined.
func (r *Receipt) Mined() bool {
	return r != nil && r.BlockNumber != nil && r.BlockNumber.ToInt().Sign() != 0
}

// Successful reports whether the transaction executed without reverting.
// Nodes predating the status field return no status at all, treat that as
// success.
func (r *Receipt) Successful() bool {
	return r.Status == nil || uint64(*r.Status) == 1
}
