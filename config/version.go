package config

import (
	"runtime"

	"github.com/sirupsen/logrus"
)

// Build metadata, injected via -ldflags at release time.
var (
	Version   string
	GitCommit string
	BuildDate string
)

func DumpVersionInfo() {
	logrus.Infof("qat %v (commit %v)", Version, GitCommit)
	logrus.Infof("built %v for %v/%v", BuildDate, runtime.GOOS, runtime.GOARCH)
}
