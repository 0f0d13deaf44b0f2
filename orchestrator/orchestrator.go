// Package orchestrator drives simulation runs: it walks a test plan,
// queries the routing engine (and optionally a live connector) for each
// requested payment, pushes every resulting Payment through the HTLC
// state machine, and records the outcomes together with correctness
// checks over the dual graph.
package orchestrator

import (
	"sort"
	"strconv"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-errors/errors"

	"github.com/lightningnetwork/lnsim/connectors"
	"github.com/lightningnetwork/lnsim/graph"
	"github.com/lightningnetwork/lnsim/htlcswitch"
	"github.com/lightningnetwork/lnsim/routing"
	"github.com/lightningnetwork/lnsim/routing/route"
)

// Config packages the collaborators an Orchestrator drives.
type Config struct {
	// Graph is the populated, seeded dual graph all payments run
	// against.
	Graph *graph.Graph

	// Params carries the simulation knobs loaded from the parameters
	// file.
	Params *Parameters

	// SwitchConfig is the base HTLC state-machine configuration. The
	// Implementation field is overridden per test-plan entry so each
	// implementation tag settles with its own default triple.
	SwitchConfig htlcswitch.Config

	// Connectors optionally maps an implementation tag to a live node
	// connector. When present for a tag, its QueryRoute result is
	// exercised alongside the local engine's, mirroring the plan-driven
	// connector branch of the original driver.
	Connectors map[string]connectors.LNConnector

	// Clock returns the wall-clock time used to stamp the results
	// header. Defaults to time.Now.
	Clock func() time.Time
}

// Orchestrator executes test plans against a dual graph.
type Orchestrator struct {
	cfg Config

	// switches caches one Switch per implementation tag so repeated
	// plan entries reuse the same randomness stream.
	switches map[htlcswitch.ImplementationTag]*htlcswitch.Switch
}

// New returns an Orchestrator over cfg.
func New(cfg Config) *Orchestrator {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Params == nil {
		cfg.Params = &Parameters{NumK: 1}
	}
	return &Orchestrator{
		cfg:      cfg,
		switches: make(map[htlcswitch.ImplementationTag]*htlcswitch.Switch),
	}
}

// blockedPayment pairs a blocked Payment with the switch that blocked it,
// so the settle phase resolves it under the same implementation defaults.
type blockedPayment struct {
	payment *route.Payment
	sw      *htlcswitch.Switch
}

// Run executes every flagged entry of plan and returns the accumulated
// Results: slot "0" carries "<timestamp>---<description>", slots "1".."n"
// the serialized payments in execution order.
//
// Per the plan semantics, each route request is queried through the local
// Yen engine in both directions (origin->destiny and destiny->origin),
// preceded by a live-connector query when one is wired for the tag. All
// payments are blocked as they are produced; the settle phase then runs
// over the full batch, re-checking the capacity invariants after every
// resolution. An invariant violation aborts the run.
func (o *Orchestrator) Run(plan TestPlan, description string) (Results, error) {
	results := NewResults(o.cfg.Clock(), description)
	index := NewCounter(0)

	var blocked []blockedPayment

	for _, tag := range sortedTags(plan) {
		entry := plan[tag]
		if !entry.Flag {
			continue
		}

		log.Infof("Running %d route requests for implementation %s",
			len(entry.Routes), tag)

		sw := o.switchFor(htlcswitch.ImplementationTag(tag))

		for _, req := range entry.Routes {
			if conn, ok := o.cfg.Connectors[tag]; ok {
				p, err := conn.QueryRoute(req.Origin, req.Destiny,
					req.Amount)
				if err != nil {
					log.Errorf("NODE CONNECTION ERROR: %v", err)
				} else {
					routing.CompleteRouteTotals(p)
					blocked = append(blocked, o.block(sw, p))
				}
			}

			for _, pair := range [][2]string{
				{req.Origin, req.Destiny},
				{req.Destiny, req.Origin},
			} {
				p := routing.QueryRouteYen(o.cfg.Graph, pair[0],
					pair[1], req.Amount, o.cfg.Params.NumK)
				blocked = append(blocked, o.block(sw, p))
			}
		}
	}

	for _, bp := range blocked {
		if !bp.payment.Failed() {
			if err := bp.sw.Settle(o.cfg.Graph, bp.payment); err != nil {
				log.Errorf("ERROR ON PAYMENT: %v", err)
			}
		}

		if err := CheckCorrectness(o.cfg.Graph); err != nil {
			log.Errorf("invariant violation after payment %s -> %s: %v\n%s",
				bp.payment.PubKeyOrigin, bp.payment.PubKeyDestiny,
				err, spew.Sdump(bp.payment))
			return nil, errors.Wrap(err, 0)
		}

		results.Add(strconv.Itoa(index.PreIncrement()),
			NewPaymentRecord(o.cfg.Graph, bp.payment))
	}

	return results, nil
}

// block pushes a freshly queried payment through Block, tolerating
// payments that already failed routing (those flow into the results with
// their error preserved).
func (o *Orchestrator) block(sw *htlcswitch.Switch, p *route.Payment) blockedPayment {
	if err := sw.Block(o.cfg.Graph, p); err != nil {
		if errors.Is(err, htlcswitch.ErrPaymentFailed) {
			log.Warnf("UNABLE TO FIND A PATH: %s -> %s: %s",
				p.PubKeyOrigin, p.PubKeyDestiny, p.Error)
		} else {
			log.Errorf("ERROR ON PAYMENT: %v", err)
		}
	}
	return blockedPayment{payment: p, sw: sw}
}

// switchFor returns the cached Switch for an implementation tag, creating
// it from the base SwitchConfig on first use.
func (o *Orchestrator) switchFor(tag htlcswitch.ImplementationTag) *htlcswitch.Switch {
	if sw, ok := o.switches[tag]; ok {
		return sw
	}
	cfg := o.cfg.SwitchConfig
	cfg.Implementation = tag
	sw := htlcswitch.NewSwitch(cfg)
	o.switches[tag] = sw
	return sw
}

// sortedTags returns the plan's implementation tags in deterministic
// order, so repeated runs of the same plan execute identically.
func sortedTags(plan TestPlan) []string {
	tags := make([]string, 0, len(plan))
	for tag := range plan {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
