package network

import (
	"context"
	"time"

	"github.com/dolanor/quorum-acceptance-tests/metrics"
	providers "github.com/openweb3/go-rpc-provider/provider_wrapper"
	"github.com/openweb3/web3go"
	"github.com/sirupsen/logrus"
)

// rpcLatency collects RPC call latencies across all node clients.
var rpcLatency = metrics.NewLatencyRecorder()

// RPCLatency exposes the process wide RPC latency recorder.
func RPCLatency() *metrics.LatencyRecorder {
	return rpcLatency
}

// MustNewNodeClient creates an RPC client for one participant node, with
// logging and latency middlewares hooked, panic on error.
func MustNewNodeClient(name, url string, cfg ClientConfig) *web3go.Client {
	eth, err := web3go.NewClientWithOption(url, web3go.ClientOption{
		Option: providers.Option{
			RetryCount:     cfg.Retry,
			RetryInterval:  cfg.RetryInterval,
			RequestTimeout: cfg.RequestTimeout,
		},
	})
	if err != nil {
		logrus.WithField("url", url).WithError(err).Fatal("Failed to create node RPC client")
	}

	mp := providers.NewMiddlewarableProvider(eth.Provider())
	mp.HookCallContext(middlewareLog(name))
	mp.HookCallContext(middlewareLatency())
	eth.SetProvider(mp)

	return eth
}

func middlewareLatency() providers.CallContextMiddleware {
	return func(handler providers.CallContextFunc) providers.CallContextFunc {
		return func(ctx context.Context, result interface{}, method string, args ...interface{}) error {
			start := time.Now()
			err := handler(ctx, result, method, args...)
			rpcLatency.Record(method, time.Since(start))

			return err
		}
	}
}

func middlewareLog(node string) providers.CallContextMiddleware {
	return func(handler providers.CallContextFunc) providers.CallContextFunc {
		return func(ctx context.Context, result interface{}, method string, args ...interface{}) error {
			if !logrus.IsLevelEnabled(logrus.DebugLevel) {
				return handler(ctx, result, method, args...)
			}

			logger := logrus.WithFields(logrus.Fields{
				"node":   node,
				"method": method,
				"args":   args,
			})

			logger.Debug("RPC enter")

			start := time.Now()
			err := handler(ctx, result, method, args...)
			logger = logger.WithField("elapsed", time.Since(start))

			if err != nil {
				logger = logger.WithError(err)
			} else if logrus.IsLevelEnabled(logrus.TraceLevel) {
				logger = logger.WithField("result", result)
			}

			logger.Debug("RPC leave")

			return err
		}
	}
}
