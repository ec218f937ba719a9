// Package steps binds the Gherkin step definitions for the private smart
// contract feature to the contract and transaction gateways.
package steps

import (
	"context"

	"github.com/cucumber/godog"
	"github.com/dolanor/quorum-acceptance-tests/chain"
	"github.com/dolanor/quorum-acceptance-tests/scenario"
	"github.com/dolanor/quorum-acceptance-tests/txn"
	"github.com/dolanor/quorum-acceptance-tests/util"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// batchInitialValue is the fixed initial value used for every contract of a
// batch deployment.
const batchInitialValue = 10

// Suite binds the step definitions to the gateways. Scenarios run one at a
// time, each getting a fresh scenario context from the Before hook.
type Suite struct {
	contracts *chain.Gateway
	txns      *txn.Gateway

	scenario *scenario.Context
}

func NewSuite(contracts *chain.Gateway, txns *txn.Gateway) *Suite {
	return &Suite{contracts: contracts, txns: txns}
}

// InitializeScenario registers every step definition with godog.
func (s *Suite) InitializeScenario(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, scn *godog.Scenario) (context.Context, error) {
		s.scenario = scenario.New()
		logrus.WithFields(logrus.Fields{
			"id":   s.scenario.ID,
			"name": scn.Name,
		}).Debug("Scenario started")

		return ctx, nil
	})

	sc.Step(`^I deploy a simple smart contract with initial value (\d+) in "([^"]+)"'s default account and it's private for "([^"]+)"$`, s.deployContract)
	sc.Step(`^a transaction hash is returned$`, s.verifyTransactionHash)
	sc.Step(`^the transaction receipt is present in "([^"]+)"$`, s.verifyTransactionReceipt)
	sc.Step(`^contracts stored in "([^"]+)" and "([^"]+)" must have the same storage root$`, s.verifySameStorageRoot)
	sc.Step(`^contracts stored in "([^"]+)" and "([^"]+)" must not have the same storage root$`, s.verifyDifferentStorageRoot)
	sc.Step(`^the smart contract's get\(\) function execution in "([^"]+)" returns (\d+)$`, s.verifyContractValue)
	sc.Step(`^I execute the smart contract's set\(\) function with new value (\d+) in "([^"]+)" and it's private for "([^"]+)"$`, s.updateContractValue)
	sc.Step(`^I deploy (\d+) private smart contracts between a default account in "([^"]+)" and a default account in "([^"]+)"$`, s.deployBatch)
	sc.Step(`^"([^"]+)" has received (\d+) transactions$`, s.verifyReceivedTransactionCount)
}

func (s *Suite) deployContract(ctx context.Context, initialValue int, source, target string) error {
	contract, err := s.contracts.Deploy(ctx, int64(initialValue), source, target)
	if err != nil {
		return err
	}

	s.scenario.Contract = contract
	return nil
}

func (s *Suite) verifyTransactionHash(ctx context.Context) error {
	contract := s.scenario.Contract
	if contract == nil {
		return errors.New("no contract deployed in this scenario")
	}
	if contract.Receipt == nil {
		return errors.New("no transaction receipt for contract")
	}

	hash := contract.Receipt.TransactionHash.Hex()
	if !util.IsValidHashStr(hash) {
		return errors.Errorf("transaction hash %q is not a well formed hash", hash)
	}

	logrus.WithField("txnHash", hash).Info("Transaction hash returned")

	s.scenario.TxnHash = hash
	return nil
}

func (s *Suite) verifyTransactionReceipt(ctx context.Context, node string) error {
	if len(s.scenario.TxnHash) == 0 {
		return errors.New("no transaction hash recorded in this scenario")
	}

	receipt, err := s.txns.ReceiptFor(ctx, node, common.HexToHash(s.scenario.TxnHash))
	if err != nil {
		return err
	}

	if receipt == nil {
		return errors.Errorf("transaction receipt not present in %v", node)
	}
	if !receipt.Mined() {
		return errors.Errorf("transaction receipt in %v has zero block number", node)
	}

	return nil
}

func (s *Suite) verifySameStorageRoot(ctx context.Context, source, target string) error {
	roots, err := s.storageRoots(ctx, source, target)
	if err != nil {
		return err
	}

	if roots[0] != roots[1] {
		return errors.Errorf("storage root mismatch: %v has %v, %v has %v", source, roots[0], target, roots[1])
	}

	return nil
}

func (s *Suite) verifyDifferentStorageRoot(ctx context.Context, source, stranger string) error {
	roots, err := s.storageRoots(ctx, source, stranger)
	if err != nil {
		return err
	}

	if roots[0] == roots[1] {
		return errors.Errorf("expected storage roots of %v and %v to differ, both are %v", source, stranger, roots[0])
	}

	return nil
}

func (s *Suite) storageRoots(ctx context.Context, first, second string) ([2]string, error) {
	var roots [2]string

	contract := s.scenario.Contract
	if contract == nil {
		return roots, errors.New("no contract deployed in this scenario")
	}

	for i, node := range []string{first, second} {
		root, err := s.contracts.StorageRoot(ctx, node, contract.Address)
		if err != nil {
			return roots, err
		}
		roots[i] = root
	}

	return roots, nil
}

func (s *Suite) verifyContractValue(ctx context.Context, node string, expected int) error {
	contract := s.scenario.Contract
	if contract == nil {
		return errors.New("no contract deployed in this scenario")
	}

	actual, err := s.contracts.Read(ctx, node, contract.Address)
	if err != nil {
		return err
	}

	if actual != int64(expected) {
		return errors.Errorf("get() in %v returned %v, want %v", node, actual, expected)
	}

	return nil
}

func (s *Suite) updateContractValue(ctx context.Context, newValue int, source, target string) error {
	contract := s.scenario.Contract
	if contract == nil {
		return errors.New("no contract deployed in this scenario")
	}

	receipt, err := s.contracts.Update(ctx, source, target, contract.Address, int64(newValue))
	if err != nil {
		return err
	}

	if !util.IsValidHashStr(receipt.TransactionHash.Hex()) {
		return errors.Errorf("set() transaction hash %q is not a well formed hash", receipt.TransactionHash.Hex())
	}
	if !receipt.Mined() {
		return errors.New("set() transaction receipt has zero block number")
	}

	return nil
}

func (s *Suite) deployBatch(ctx context.Context, count int, source, target string) error {
	contracts, err := s.contracts.DeployBatch(ctx, count, source, target, batchInitialValue)
	if err != nil {
		return err
	}

	s.scenario.StoreBatch(source, scenario.RoleSource, contracts)
	s.scenario.StoreBatch(target, scenario.RoleTarget, contracts)
	return nil
}

func (s *Suite) verifyReceivedTransactionCount(ctx context.Context, node string, expected int) error {
	contracts := s.scenario.BatchesFor(node)

	hashes := make([]common.Hash, 0, len(contracts))
	for _, contract := range contracts {
		if contract.Receipt == nil {
			return errors.Errorf("no deployment receipt recorded for contract %v", contract.Address)
		}
		hashes = append(hashes, contract.TxnHash)
	}

	actual, err := s.txns.CountMined(ctx, node, hashes)
	if err != nil {
		return err
	}

	if actual != expected {
		return errors.Errorf("%v has received %v transactions, want %v", node, actual, expected)
	}

	return nil
}
