package main

import (
	"github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.WithError(err).Fatal("fatal error running the prediction registry")
	}
}
