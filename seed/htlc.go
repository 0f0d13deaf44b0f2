package seed

import (
	"github.com/go-errors/errors"
	"github.com/lightningnetwork/lnsim/graph"
)

// ErrHTLCConfigInvalid is returned when number*amount_fract exceeds 1,
// which would lock more than an edge's full balance.
var ErrHTLCConfigInvalid = errors.New("seed: number*amount_fract must be <= 1")

// HTLCConfig configures the pending-HTLC seeding pass. Only a constant
// per-edge count and fraction are supported.
type HTLCConfig struct {
	Number      int
	AmountFract float64
}

// SeedHTLCs inserts Number pending HTLCs onto every directed edge in g,
// each sized AmountFract times the edge's balance before seeding, debiting
// balance and appending to pending_htlc with direction-flag 0 (outgoing
// reservation). It is a no-op when cfg is nil.
func SeedHTLCs(g *graph.Graph, cfg *HTLCConfig) error {
	if cfg == nil {
		return nil
	}
	if float64(cfg.Number)*cfg.AmountFract > 1 {
		return ErrHTLCConfigInvalid
	}

	return g.ForEachDirectedChannel(func(d *graph.DirectedChannel) error {
		amt := int64(float64(d.Balance) * cfg.AmountFract)
		for i := 0; i < cfg.Number; i++ {

			idx := d.NextHTLCIndex
			d.NextHTLCIndex++

			d.PendingHTLC[idx] = graph.PendingEntry{
				Amount:    amt,
				Direction: 0,
			}
			d.ValPendingHTLC[idx] = graph.PendingHTLC{
				Incoming:         false,
				Amount:           uint64(amt),
				ExpirationHeight: 0,
			}
			d.HTLCs[idx] = &graph.HTLC{
				Status: graph.HTLCStatusInFlight,
			}

			d.Balance -= amt
		}
		return nil
	})
}
