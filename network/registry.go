package network

import (
	"context"

	"github.com/openweb3/web3go"
	"github.com/pkg/errors"
)

// Caller is the narrow RPC surface the gateways depend on. It is satisfied by
// the node client provider as well as by in-memory fake nodes in tests.
type Caller interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
}

// Participant is one member of the permissioned network, identified by its
// logical role name. PrivacyAddress is the public key of the participant's
// transaction manager, used as a `privateFor` visibility entry.
type Participant struct {
	Name           string
	URL            string
	PrivacyAddress string
}

// Node couples a participant identity with its RPC client.
type Node struct {
	Participant

	client *web3go.Client
}

func (n *Node) Client() *web3go.Client {
	return n.client
}

func (n *Node) Caller() Caller {
	return n.client.Provider()
}

// Registry resolves logical participant names to provisioned nodes.
type Registry struct {
	nodes map[string]*Node
	names []string
}

// MustNewRegistry creates a registry with one RPC client per configured
// participant, panic on client creation error.
func MustNewRegistry(cfg *Config) *Registry {
	r := &Registry{
		nodes: make(map[string]*Node, len(cfg.Nodes)),
	}

	for _, nc := range cfg.Nodes {
		r.nodes[nc.Name] = &Node{
			Participant: Participant{
				Name:           nc.Name,
				URL:            nc.URL,
				PrivacyAddress: nc.PrivacyAddress,
			},
			client: MustNewNodeClient(nc.Name, nc.URL, cfg.Client),
		}
		r.names = append(r.names, nc.Name)
	}

	return r
}

// Node looks up a participant node by its logical name.
func (r *Registry) Node(name string) (*Node, error) {
	node, ok := r.nodes[name]
	if !ok {
		return nil, errors.Errorf("unknown network participant %v", name)
	}

	return node, nil
}

// CallerFor returns the RPC caller for the named participant.
func (r *Registry) CallerFor(name string) (Caller, error) {
	node, err := r.Node(name)
	if err != nil {
		return nil, err
	}

	return node.Caller(), nil
}

// PrivacyAddressOf returns the transaction manager public key of the named
// participant.
func (r *Registry) PrivacyAddressOf(name string) (string, error) {
	node, err := r.Node(name)
	if err != nil {
		return "", err
	}

	if len(node.PrivacyAddress) == 0 {
		return "", errors.Errorf("participant %v has no privacy address configured", name)
	}

	return node.PrivacyAddress, nil
}

// Names returns the participant names in configuration order.
func (r *Registry) Names() []string {
	return r.names
}

// Close closes all node clients.
func (r *Registry) Close() {
	for _, node := range r.nodes {
		node.client.Close()
	}
}
