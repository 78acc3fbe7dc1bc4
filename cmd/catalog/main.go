package main

import (
	"os"

	"gift_catalog/internal/cli"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		logrus.WithError(err).Error("catalog failed")
		os.Exit(1)
	}
}
