// Command pointerctl is a thin exerciser of the analysis package: it
// wires a config file plus flags onto analysis.Config, runs
// analysis.Analyze, and prints the result through the query interface
// (§6). It does not implement source discovery or parsing -- that
// remains the embedding program's responsibility, supplied here as an
// ir.ModuleFinder plugged in at build time (see finder.go).
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := newRootCommand(log).Execute(); err != nil {
		log.WithError(err).Error("pointerctl failed")
		os.Exit(1)
	}
}
