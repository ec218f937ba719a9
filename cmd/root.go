package cmd

import (
	"fmt"
	"os"

	"github.com/dolanor/quorum-acceptance-tests/config"
	"github.com/spf13/cobra"
)

var (
	flagVersion bool // print version and exit

	rootCmd = &cobra.Command{
		Use:   "qat",
		Short: "Acceptance test harness for the private smart contract feature",
		Run: func(cmd *cobra.Command, args []string) {
			if flagVersion {
				config.DumpVersionInfo()
				return
			}

			cmd.Help()
		},
	}
)

func init() {
	rootCmd.Flags().BoolVarP(&flagVersion, "version", "v", false, "If true, print version and exit")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
}

// Execute is the command line entrypoint.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
