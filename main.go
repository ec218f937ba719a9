package main

import (
	"github.com/dolanor/quorum-acceptance-tests/cmd"
	"github.com/dolanor/quorum-acceptance-tests/config"
)

func main() {
	// ensure configuration initialized at first.
	config.Init()

	cmd.Execute()
}
