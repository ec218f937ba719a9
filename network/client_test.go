package network

import (
	"testing"
	"time"

	providers "github.com/openweb3/go-rpc-provider/provider_wrapper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustNewNodeClient(t *testing.T) {
	cfg := ClientConfig{
		Retry:          2,
		RetryInterval:  time.Second,
		RequestTimeout: 3 * time.Second,
	}

	client := MustNewNodeClient("Node1", "http://127.0.0.1:22000", cfg)
	require.NotNil(t, client)
	defer client.Close()

	// provider carries the logging and latency middleware hooks
	var provider interface{} = client.Provider()
	_, ok := provider.(*providers.MiddlewarableProvider)
	assert.True(t, ok)
}
