package steps

import (
	"testing"

	"github.com/cucumber/godog"
	"github.com/dolanor/quorum-acceptance-tests/chain"
	"github.com/dolanor/quorum-acceptance-tests/testutil"
	"github.com/dolanor/quorum-acceptance-tests/txn"
)

// TestPrivateContractFeatures drives the shipped feature files end to end
// against an in-memory fake network.
func TestPrivateContractFeatures(t *testing.T) {
	net := testutil.NewFakeNetwork("Node1", "Node3", "Node7")
	txns := txn.MustNewGateway(net, txn.DefaultConfig())
	contracts := chain.NewGateway(net, txns, chain.DefaultConfig())

	suite := godog.TestSuite{
		Name:                "private-contracts",
		ScenarioInitializer: NewSuite(contracts, txns).InitializeScenario,
		Options: &godog.Options{
			Format:      "progress",
			Paths:       []string{"../features"},
			Strict:      true,
			Concurrency: 1,
			TestingT:    t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("feature suite failed")
	}
}
