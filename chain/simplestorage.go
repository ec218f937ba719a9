package chain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// SimpleStorage is the value holding contract driven by the privacy
// scenarios:
//
//	contract SimpleStorage {
//	    uint private storedData;
//	    constructor(uint initVal) { storedData = initVal; }
//	    function set(uint x) public { storedData = x; }
//	    function get() public view returns (uint) { return storedData; }
//	}
const simpleStorageABI = `[
	{"inputs":[{"name":"initVal","type":"uint256"}],"stateMutability":"nonpayable","type":"constructor"},
	{"inputs":[],"name":"get","outputs":[{"name":"retVal","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"name":"x","type":"uint256"}],"name":"set","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

// simpleStorageBin is the compiled deployment bytecode of SimpleStorage.
const simpleStorageBin = "0x6060604052341561000f57600080fd5b60405160208061014983398101604052808051906020019091905050" +
	"5b806000819055505b505b610104806100456000396000f30060606040526000357c01000000000000000000000000000000000000000000" +
	"00000000000000900463ffffffff16806360fe47b114603d5780636d4ce63c14605d575b600080fd5b3415604757600080fd5b605b600480" +
	"80359060200190919050506083565b005b3415606757600080fd5b606d608e565b6040518082815260200191505060405180910390f35b80" +
	"6000819055505b50565b6000805490505b905600a165627a7a72305820d5851baab720bba574474de3d09dbeaabc674a15f4dd93b9749084" +
	"76542c23f00029"

var simpleStorage = mustParseSimpleStorage()

type simpleStorageContract struct {
	abi abi.ABI
	bin []byte
}

func mustParseSimpleStorage() *simpleStorageContract {
	parsed, err := abi.JSON(strings.NewReader(simpleStorageABI))
	if err != nil {
		panic(errors.WithMessage(err, "invalid SimpleStorage ABI"))
	}

	bin, err := hexutil.Decode(simpleStorageBin)
	if err != nil {
		panic(errors.WithMessage(err, "invalid SimpleStorage bytecode"))
	}

	return &simpleStorageContract{abi: parsed, bin: bin}
}

// deployData returns the deployment payload: bytecode followed by the ABI
// encoded constructor argument.
func (c *simpleStorageContract) deployData(initialValue int64) ([]byte, error) {
	ctor, err := c.abi.Pack("", big.NewInt(initialValue))
	if err != nil {
		return nil, errors.WithMessage(err, "failed to encode constructor argument")
	}

	return append(append([]byte{}, c.bin...), ctor...), nil
}

func (c *simpleStorageContract) packGet() ([]byte, error) {
	return c.abi.Pack("get")
}

func (c *simpleStorageContract) packSet(newValue int64) ([]byte, error) {
	return c.abi.Pack("set", big.NewInt(newValue))
}

func (c *simpleStorageContract) unpackGet(out []byte) (int64, error) {
	vals, err := c.abi.Unpack("get", out)
	if err != nil {
		return 0, errors.WithMessage(err, "failed to decode get() return data")
	}

	if len(vals) != 1 {
		return 0, errors.Errorf("get() returned %v values, want 1", len(vals))
	}

	value, ok := vals[0].(*big.Int)
	if !ok {
		return 0, errors.Errorf("get() returned %T, want *big.Int", vals[0])
	}

	return value.Int64(), nil
}
