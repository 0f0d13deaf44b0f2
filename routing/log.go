package routing

import "github.com/btcsuite/btclog"

var log = btclog.Disabled

// UseLogger lets callers set the package-wide logger used by the routing
// package.
func UseLogger(logger btclog.Logger) {
	log = logger
}
