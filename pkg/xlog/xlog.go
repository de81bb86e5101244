// Package xlog centralizes logrus setup for blockfreeze's binaries, mirroring
// the teacher's logrus.JSONFormatter + ParseLevel convention instead of
// configuring the global logger ad hoc at each call site.
package xlog

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Setup parses level (a logrus level name, e.g. "info", "debug") and applies
// it to the standard logger, along with a JSON formatter so batch runs emit
// machine-parseable lines. An unparseable level falls back to Info and the
// parse error is logged rather than returned, since logging setup itself
// must never prevent a run from starting.
func Setup(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stderr)

	lv, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.SetLevel(logrus.InfoLevel)
		logrus.WithField("requested", level).Warn("unknown log level, defaulting to info")
		return
	}
	logrus.SetLevel(lv)
}

// WithRun returns a logger entry carrying the fields every partition/chunk
// log line in this run shares, so individual call sites only add what's
// specific to them (partition, datatype, attempt).
func WithRun(runID, network string) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"run_id":  runID,
		"network": network,
	})
}
