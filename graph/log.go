package graph

import "github.com/btcsuite/btclog"

// log is the package-level logger used throughout graph. It is disabled
// by default and wired up by callers via UseLogger.
var log = btclog.Disabled

// UseLogger lets callers set the package-wide logger used by the graph
// package.
func UseLogger(logger btclog.Logger) {
	log = logger
}
