package network

import (
	"time"

	"github.com/Conflux-Chain/go-conflux-util/viper"
	"github.com/sirupsen/logrus"
)

var registry *Registry // default participant registry from viper

// Config is the provisioned network the harness runs against. The node list
// matches the variables exposed by the network provisioning scripts.
type Config struct {
	Nodes  []ParticipantConfig
	Client ClientConfig
}

type ParticipantConfig struct {
	Name           string
	URL            string
	PrivacyAddress string
}

type ClientConfig struct {
	Retry          int           `default:"3"`
	RetryInterval  time.Duration `default:"1s"`
	RequestTimeout time.Duration `default:"3s"`
}

// MustInit initializes the default participant registry from viper config,
// panic on error.
func MustInit() {
	var cfg Config
	viper.MustUnmarshalKey("network", &cfg)

	if len(cfg.Nodes) == 0 {
		logrus.Fatal("No network participants configured")
	}

	registry = MustNewRegistry(&cfg)
	logrus.WithField("participants", registry.Names()).Debug("Network participant registry initialized")
}

// Default returns the participant registry built from configuration.
func Default() *Registry {
	return registry
}
