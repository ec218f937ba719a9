package chain

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DeployBatch concurrently deploys count independent private contracts
// between source and target, all holding the same initial value. The
// returned slice pairs 1:1 with the submitted deployment requests; mining
// order is not preserved. Any single deployment failure fails the whole
// batch.
func (g *Gateway) DeployBatch(
	ctx context.Context, count int, source, target string, initialValue int64,
) ([]*Contract, error) {
	contracts := make([]*Contract, count)
	if count == 0 {
		return contracts, nil
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.BatchTimeout)
	defer cancel()

	start := time.Now()

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.DeployConcurrency)

	for i := 0; i < count; i++ {
		// Capture loop variable
		idx := i

		eg.Go(func() error {
			// pace submissions so a large batch doesn't flood the node
			if err := g.limiter.Wait(ctx); err != nil {
				return err
			}

			deployStart := time.Now()
			contract, err := g.Deploy(ctx, initialValue, source, target)
			if err != nil {
				return errors.WithMessagef(err, "batch deployment #%v failed", idx)
			}
			g.latency.Record("deploy", time.Since(deployStart))

			// Thread safe to write here since contract index is unique for
			// each goroutine within the group.
			contracts[idx] = contract
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if summary, err := g.latency.Summary("deploy"); err == nil {
		logrus.WithFields(logrus.Fields{
			"count":   count,
			"elapsed": time.Since(start),
			"mean":    summary.Mean,
			"p95":     summary.P95,
		}).Info("Batch contract deployment completed")
	}

	return contracts, nil
}
