package htlcswitch

import "github.com/btcsuite/btclog"

var log = btclog.Disabled

// UseLogger lets callers set the package-wide logger used by htlcswitch.
func UseLogger(logger btclog.Logger) {
	log = logger
}
