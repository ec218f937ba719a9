package cmd

import (
	"github.com/cucumber/godog"
	"github.com/dolanor/quorum-acceptance-tests/chain"
	"github.com/dolanor/quorum-acceptance-tests/network"
	"github.com/dolanor/quorum-acceptance-tests/steps"
	"github.com/dolanor/quorum-acceptance-tests/txn"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	featurePaths  []string
	featureTags   string
	featureFormat string
	stopOnFailure bool

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the acceptance feature suite against the configured network",
		Run:   runFeatures,
	}
)

func init() {
	runCmd.Flags().StringSliceVar(&featurePaths, "features", []string{"features"}, "feature file paths")
	runCmd.Flags().StringVar(&featureTags, "tags", "", "filter scenarios by tag expression")
	runCmd.Flags().StringVar(&featureFormat, "format", "pretty", "godog output format")
	runCmd.Flags().BoolVar(&stopOnFailure, "stop-on-failure", false, "stop the suite on first scenario failure")
}

func runFeatures(cmd *cobra.Command, args []string) {
	net := network.Default()
	defer net.Close()

	txns := txn.MustNewGatewayFromViper(net)
	contracts := chain.MustNewGatewayFromViper(net, txns)

	suite := godog.TestSuite{
		Name:                "quorum-acceptance",
		ScenarioInitializer: steps.NewSuite(contracts, txns).InitializeScenario,
		Options: &godog.Options{
			Format:        featureFormat,
			Paths:         featurePaths,
			Tags:          featureTags,
			StopOnFailure: stopOnFailure,
			Strict:        true,
			// steps share one scenario context, scenarios must not interleave
			Concurrency: 1,
		},
	}

	status := suite.Run()

	if viper.GetBool("metrics.report.enabled") {
		reportRPCLatency()
	}

	if status != 0 {
		logrus.WithField("status", status).Fatal("Acceptance feature suite failed")
	}

	logrus.Info("Acceptance feature suite passed")
}

// reportRPCLatency logs per-method latency statistics collected by the node
// client middleware over the whole suite run.
func reportRPCLatency() {
	recorder := network.RPCLatency()

	for _, method := range recorder.Methods() {
		summary, err := recorder.Summary(method)
		if err != nil {
			continue
		}

		logrus.WithFields(logrus.Fields{
			"method": method,
			"count":  summary.Count,
			"min":    summary.Min,
			"mean":   summary.Mean,
			"p95":    summary.P95,
			"max":    summary.Max,
		}).Info("RPC latency")
	}
}
