package cmd

import (
	"context"
	"time"

	"github.com/dolanor/quorum-acceptance-tests/network"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

var (
	checkTimeout time.Duration

	checkCmd = &cobra.Command{
		Use:   "check",
		Short: "Preflight check that every configured participant node is reachable",
		Run:   checkNetwork,
	}
)

func init() {
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 10*time.Second, "overall check timeout")
}

func checkNetwork(cmd *cobra.Command, args []string) {
	net := network.Default()
	defer net.Close()

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	// probe every node even if some fail, then report all failures at once
	names := net.Names()
	probeErrs := make([]error, len(names))

	var eg errgroup.Group
	for i, name := range names {
		idx, node := i, name

		eg.Go(func() error {
			probeErrs[idx] = probeNode(ctx, net, node)
			return nil
		})
	}
	eg.Wait()

	if err := multierr.Combine(probeErrs...); err != nil {
		logrus.WithError(err).Fatal("Network preflight check failed")
	}

	logrus.WithField("participants", names).Info("All participant nodes reachable")
}

func probeNode(ctx context.Context, net *network.Registry, name string) error {
	node, err := net.Node(name)
	if err != nil {
		return err
	}

	client := node.Client().WithContext(ctx)

	blockNumber, err := client.Eth.BlockNumber()
	if err != nil {
		return errors.WithMessagef(err, "failed to get block number from %v", name)
	}

	netVersion, err := client.Eth.NetVersion()
	if err != nil {
		return errors.WithMessagef(err, "failed to get net version from %v", name)
	}

	logrus.WithFields(logrus.Fields{
		"node":        name,
		"blockNumber": blockNumber,
		"netVersion":  netVersion,
	}).Info("Participant node reachable")

	return nil
}
