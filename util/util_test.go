package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidHashStr(t *testing.T) {
	assert.True(t, IsValidHashStr("0x1db50f8b7762c35e15ee64ed5e4b80db4418a9ba0a48ddbdf53c5b45a88d9c9a"))

	assert.False(t, IsValidHashStr(""))
	assert.False(t, IsValidHashStr("0x"))
	assert.False(t, IsValidHashStr("1db50f8b7762c35e15ee64ed5e4b80db4418a9ba0a48ddbdf53c5b45a88d9c9a"))
	assert.False(t, IsValidHashStr("0x1db50f8b7762c35e15ee64ed5e4b80db4418a9ba0a48ddbdf53c5b45a88d9c"))
	assert.False(t, IsValidHashStr("0xzz50f8b7762c35e15ee64ed5e4b80db4418a9ba0a48ddbdf53c5b45a88d9c9a"))
}
