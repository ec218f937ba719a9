package metrics

import (
	"sync"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
)

// LatencySummary aggregates duration samples collected for one RPC method.
type LatencySummary struct {
	Count int
	Min   time.Duration
	Mean  time.Duration
	P95   time.Duration
	Max   time.Duration
}

// LatencyRecorder collects per-method RPC call durations. It is hooked into
// the node client provider middleware and also fed directly by batch
// operations to report deployment latency.
type LatencyRecorder struct {
	mu      sync.Mutex
	samples map[string][]float64 // method => duration samples (ms)
}

func NewLatencyRecorder() *LatencyRecorder {
	return &LatencyRecorder{
		samples: make(map[string][]float64),
	}
}

// Record adds one duration sample for the given method.
func (r *LatencyRecorder) Record(method string, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.samples[method] = append(r.samples[method], float64(elapsed)/float64(time.Millisecond))
}

// Summary computes latency statistics for the given method.
func (r *LatencyRecorder) Summary(method string) (LatencySummary, error) {
	r.mu.Lock()
	data := stats.Float64Data(append([]float64(nil), r.samples[method]...))
	r.mu.Unlock()

	if data.Len() == 0 {
		return LatencySummary{}, errors.Errorf("no latency samples for method %v", method)
	}

	min, err := stats.Min(data)
	if err != nil {
		return LatencySummary{}, errors.WithMessage(err, "failed to compute min latency")
	}

	mean, err := stats.Mean(data)
	if err != nil {
		return LatencySummary{}, errors.WithMessage(err, "failed to compute mean latency")
	}

	p95, err := stats.Percentile(data, 95)
	if err != nil {
		p95 = mean
	}

	max, err := stats.Max(data)
	if err != nil {
		return LatencySummary{}, errors.WithMessage(err, "failed to compute max latency")
	}

	return LatencySummary{
		Count: data.Len(),
		Min:   msToDuration(min),
		Mean:  msToDuration(mean),
		P95:   msToDuration(p95),
		Max:   msToDuration(max),
	}, nil
}

// Methods returns all method names with at least one recorded sample.
func (r *LatencyRecorder) Methods() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	methods := make([]string, 0, len(r.samples))
	for m := range r.samples {
		methods = append(methods, m)
	}
	return methods
}

func msToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
