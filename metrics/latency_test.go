package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLatencySummary(t *testing.T) {
	r := NewLatencyRecorder()
	for _, ms := range []int{10, 20, 30, 40} {
		r.Record("eth_getTransactionReceipt", time.Duration(ms)*time.Millisecond)
	}

	summary, err := r.Summary("eth_getTransactionReceipt")
	assert.NoError(t, err)
	assert.Equal(t, 4, summary.Count)
	assert.Equal(t, 10*time.Millisecond, summary.Min)
	assert.Equal(t, 40*time.Millisecond, summary.Max)
	assert.Equal(t, 25*time.Millisecond, summary.Mean)
	assert.True(t, summary.P95 >= summary.Mean)
}

func TestLatencySummaryNoSamples(t *testing.T) {
	r := NewLatencyRecorder()

	_, err := r.Summary("eth_call")
	assert.Error(t, err)
}

func TestLatencyMethods(t *testing.T) {
	r := NewLatencyRecorder()
	r.Record("eth_call", time.Millisecond)
	r.Record("eth_sendTransaction", time.Millisecond)

	assert.ElementsMatch(t, []string{"eth_call", "eth_sendTransaction"}, r.Methods())
}
