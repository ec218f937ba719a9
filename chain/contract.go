package chain

import (
	"github.com/dolanor/quorum-acceptance-tests/txn"
	"github.com/ethereum/go-ethereum/common"
)

// Contract identifies one deployed private contract instance. Immutable once
// the deployment receipt is set.
type Contract struct {
	Address common.Address
	TxnHash common.Hash
	Receipt *txn.Receipt
}
