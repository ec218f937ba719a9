package scenario

import (
	"github.com/dolanor/quorum-acceptance-tests/chain"
	"github.com/google/uuid"
)

// Role distinguishes which side of a private deployment a participant took.
type Role string

const (
	RoleSource Role = "source"
	RoleTarget Role = "target"
)

type batchKey struct {
	node string
	role Role
}

// Context carries state between the steps of one scenario. Created at
// scenario start, discarded at scenario end. Steps run sequentially, so no
// locking is needed.
type Context struct {
	ID uuid.UUID

	// Contract deployed by the single-contract steps.
	Contract *chain.Contract
	// TxnHash recorded by the "transaction hash is returned" step.
	TxnHash string

	batches map[batchKey][]*chain.Contract
}

func New() *Context {
	return &Context{
		ID:      uuid.New(),
		batches: make(map[batchKey][]*chain.Contract),
	}
}

// StoreBatch records a deployed batch against the given participant and role.
// Last write per (node, role) slot wins.
func (c *Context) StoreBatch(node string, role Role, contracts []*chain.Contract) {
	c.batches[batchKey{node, role}] = contracts
}

// BatchesFor returns the union of the batches stored against the node as
// source and as target.
func (c *Context) BatchesFor(node string) []*chain.Contract {
	var all []*chain.Contract
	all = append(all, c.batches[batchKey{node, RoleSource}]...)
	all = append(all, c.batches[batchKey{node, RoleTarget}]...)
	return all
}
