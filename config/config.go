package config

import (
	"github.com/Conflux-Chain/go-conflux-util/config"
	"github.com/dolanor/quorum-acceptance-tests/network"
)

// Read system environment variables prefixed with "QAT".
// eg., `QAT_LOG_LEVEL` will override "log.level" config item from the config file.
const viperEnvPrefix = "qat"

func Init() {
	// init utilities eg., viper and logging
	config.MustInit(viperEnvPrefix)

	// init network participants and node clients
	network.MustInit()
}
