package chain

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeployDataEmbedsConstructorArgument(t *testing.T) {
	data, err := simpleStorage.deployData(42)
	require.NoError(t, err)

	// deployment payload is the bytecode followed by one ABI encoded word
	require.Len(t, data, len(simpleStorage.bin)+32)

	arg := common.BytesToHash(data[len(simpleStorage.bin):])
	assert.Equal(t, int64(42), arg.Big().Int64())
}

func TestPackSelectors(t *testing.T) {
	get, err := simpleStorage.packGet()
	require.NoError(t, err)
	assert.Equal(t, "0x6d4ce63c", hexutil.Encode(get))

	set, err := simpleStorage.packSet(7)
	require.NoError(t, err)
	require.Len(t, set, 4+32)
	assert.Equal(t, "0x60fe47b1", hexutil.Encode(set[:4]))
}

func TestUnpackGet(t *testing.T) {
	value, err := simpleStorage.unpackGet(common.BigToHash(common.Big32).Bytes())
	require.NoError(t, err)
	assert.Equal(t, int64(32), value)

	_, err = simpleStorage.unpackGet([]byte{0x01})
	assert.Error(t, err)
}
