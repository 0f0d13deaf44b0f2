package seed

import (
	"math"

	"github.com/lightningnetwork/lnsim/graph"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// BalanceTag names one of the five supported balance-split distributions.
type BalanceTag string

const (
	BalanceConst  BalanceTag = "const"
	BalanceUnif   BalanceTag = "unif"
	BalanceNormal BalanceTag = "normal"
	BalanceExp    BalanceTag = "exp"
	BalanceBeta   BalanceTag = "beta"
)

// BalanceConfig configures the balance-seeding pass. Only the fields
// relevant to Name are consulted.
type BalanceConfig struct {
	Name   BalanceTag
	Mu     float64 // normal
	Sigma  float64 // normal
	Lambda float64 // exp
	Alpha  float64 // beta
	Beta   float64 // beta

	// Src is the randomness source; if nil a fresh source is created.
	Src rand.Source
}

// SeedBalances assigns initial per-direction balances to every channel in
// g according to cfg. It is a no-op when cfg is nil.
func SeedBalances(g *graph.Graph, cfg *BalanceConfig) error {
	if cfg == nil {
		return nil
	}

	src := cfg.Src
	if src == nil {
		src = rand.NewSource(1)
	}

	log.Debugf("Assigning %s-distributed balances across %d channels",
		cfg.Name, g.NumChannels())

	return g.ForEachChannel(func(c *graph.ChannelEdge) error {
		capacityMSat := c.Capacity * 1000

		first, err := sampleFirstSide(cfg, src, capacityMSat)
		if err != nil {
			return err
		}

		fwdKey := c.ChannelID + "-" + c.Node1Pub
		revKey := c.ChannelID + "-" + c.Node2Pub

		fwd, err := g.DirectedChannel(fwdKey)
		if err != nil {
			return err
		}
		rev, err := g.DirectedChannel(revKey)
		if err != nil {
			return err
		}

		fwd.Balance = first
		rev.Balance = capacityMSat - first

		return nil
	})
}

// sampleFirstSide samples the "first side" balance for a single channel
// per the tagged distribution; the opposite side receives the remainder.
func sampleFirstSide(cfg *BalanceConfig, src rand.Source, capacityMSat int64) (int64, error) {
	capF := float64(capacityMSat)

	switch cfg.Name {
	case BalanceConst:
		return capacityMSat / 2, nil

	case BalanceUnif:
		u := distuv.Uniform{Min: 0, Max: capF, Src: src}
		return int64(u.Rand()), nil

	case BalanceNormal:
		n := distuv.Normal{Mu: cfg.Mu, Sigma: cfg.Sigma, Src: src}
		r := rejectUnitInterval(n.Rand)
		return capacityMSat - int64(math.Floor(capF*r)), nil

	case BalanceExp:
		e := distuv.Exponential{Rate: cfg.Lambda, Src: src}
		r := rejectMaxOne(e.Rand)
		return capacityMSat - int64(math.Floor(capF*r)), nil

	case BalanceBeta:
		b := distuv.Beta{Alpha: cfg.Alpha, Beta: cfg.Beta, Src: src}
		r := b.Rand()
		return capacityMSat - int64(math.Floor(capF*r)), nil

	default:
		return capacityMSat / 2, nil
	}
}

// rejectUnitInterval resamples until the drawn value falls in [0,1].
func rejectUnitInterval(draw func() float64) float64 {
	for i := 0; i < 10000; i++ {
		r := draw()
		if r >= 0 && r <= 1 {
			return r
		}
	}
	return 0
}

// rejectMaxOne resamples while the drawn value exceeds 1.
func rejectMaxOne(draw func() float64) float64 {
	for i := 0; i < 10000; i++ {
		r := draw()
		if r <= 1 {
			return r
		}
	}
	return 1
}
