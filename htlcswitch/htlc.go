package htlcswitch

import (
	"time"

	"github.com/lightningnetwork/lnsim/graph"
	"github.com/lightningnetwork/lnsim/routing/route"
	"golang.org/x/exp/rand"
)

// Config configures a Switch's block/settle/reverse behavior.
type Config struct {
	// Implementation selects the default fee/timelock triple used when
	// UseNodePolicy is false.
	Implementation ImplementationTag

	// UseNodePolicy, when true, draws HTLC parameters from the
	// channel's own destination-side policy instead of the
	// implementation defaults table.
	UseNodePolicy bool

	// SleepMaxMs bounds the simulated propagation delay sampled at the
	// start of Settle.
	SleepMaxMs int64

	// MinDiffNs, MaxDiffNs, StepDiffNs parametrize the randomized
	// timeout threshold sampled once per settle attempt.
	MinDiffNs  int64
	MaxDiffNs  int64
	StepDiffNs int64

	// Src is the randomness source for sleep/timeout sampling; a fresh
	// one is created if nil.
	Src rand.Source

	// Clock returns the current time in nanoseconds; defaults to
	// time.Now().UnixNano(). Overridable for deterministic tests.
	Clock func() int64

	// Sleep is the blocking delay primitive; defaults to time.Sleep.
	// Overridable so tests don't actually block.
	Sleep func(time.Duration)
}

// Switch is the HTLC state machine: Block, Settle, Reverse act on a
// Payment's first route against a dual graph.
type Switch struct {
	cfg Config
	rng *rand.Rand
}

// NewSwitch builds a Switch from cfg, filling in defaults for any
// unconfigured Src/Clock/Sleep.
func NewSwitch(cfg Config) *Switch {
	if cfg.Src == nil {
		cfg.Src = rand.NewSource(1)
	}
	if cfg.Clock == nil {
		cfg.Clock = func() int64 { return time.Now().UnixNano() }
	}
	if cfg.Sleep == nil {
		cfg.Sleep = time.Sleep
	}
	return &Switch{cfg: cfg, rng: rand.New(cfg.Src)}
}

// Block performs the forward reservation walk: generates and stamps a
// payment hash, then walks payment.Routes[0].Hops in
// origin-to-destination order, allocating a fresh HTLC on each traversed
// directed edge and debiting its balance and capacity.
func (s *Switch) Block(g *graph.Graph, payment *route.Payment) error {
	if payment.Failed() || payment.Error != "" {
		return ErrPaymentFailed
	}

	preimage, hash, err := generatePreimage()
	if err != nil {
		return err
	}
	payment.PaymentHash = hash
	payment.HasHash = true
	payment.CreationTimeNs = s.cfg.Clock()

	r := payment.Routes[0]
	log.Debugf("Blocking payment %x: %d hops, %d sat",
		hash[:8], len(r.Hops), payment.PaymentAmount)
	for _, h := range r.Hops {
		d, err := g.DirectedChannel(h.ChannelID + "-" + h.SrcPubKey)
		if err != nil {
			return err
		}

		c, err := g.Channel(h.ChannelID)
		if err != nil {
			return err
		}

		tld, feeBase, feeRate := s.htlcParams(c)

		idx := d.NextHTLCIndex
		d.NextHTLCIndex++

		d.HTLCs[idx] = &graph.HTLC{
			Preimage:         preimage,
			PaymentHash:      hash,
			Status:           graph.HTLCStatusInFlight,
			FailureReason:    graph.FailureReasonNone,
			TimeLockDelta:    tld,
			FeeBaseMSat:      feeBase,
			FeeRateMilliMSat: feeRate,
			HTLCPayment: graph.HTLCPayment{
				Status:        graph.HTLCStatusInFlight,
				HopChannelID:  h.ChannelID,
				HopPubKey:     h.PubKey,
				AttemptTimeNs: payment.CreationTimeNs,
			},
		}

		// The lock amount reserves both the forward debit and the
		// anticipated reverse credit.
		reserveAmt := int64(h.AmtToForwardMSat) + 2*int64(h.FeeMSat)
		d.ValPendingHTLC[idx] = graph.PendingHTLC{
			Incoming:         false,
			Amount:           uint64(reserveAmt),
			HashLock:         hash,
			ExpirationHeight: uint32(h.Expiry),
		}

		debit := int64(h.AmtToForwardMSat) + int64(h.FeeMSat)
		d.PendingHTLC[idx] = graph.PendingEntry{Amount: debit, Direction: 0}

		d.Balance -= debit
		d.Capacity -= debit
	}

	return nil
}

// htlcParams resolves the {time_lock_delta, fee_base_msat,
// fee_rate_milli_msat} triple for a newly blocked HTLC: from the
// channel's destination policy when UseNodePolicy, else from the
// implementation defaults table.
func (s *Switch) htlcParams(c *graph.ChannelEdge) (uint16, uint64, uint64) {
	if s.cfg.UseNodePolicy {
		p := c.PolicyDest
		return p.TimeLockDelta, p.FeeBaseMSat, p.FeeRateMilliMSat
	}
	d := Defaults(s.cfg.Implementation)
	return d.TimeLockDelta, d.FeeBaseMSat, d.FeeRateMilliMSat
}

// Settle performs the reverse-commit walk: sleeps to simulate
// propagation latency, checks the randomized timeout, and on
// success walks hops in destination-to-origin order, marking each
// matching HTLC SUCCEEDED and crediting the opposite directed edge.
func (s *Switch) Settle(g *graph.Graph, payment *route.Payment) error {
	s.cfg.Sleep(s.sampleSleep())

	now := s.cfg.Clock()
	diff := now - payment.CreationTimeNs
	timeout := s.sampleTimeout()
	if diff >= timeout {
		log.Warnf("Payment %x exceeded timeout (%d >= %d ns), reversing",
			payment.PaymentHash[:8], diff, timeout)
		return s.Reverse(g, payment)
	}

	r := payment.Routes[0]
	for i := len(r.Hops) - 1; i >= 0; i-- {
		h := r.Hops[i]

		d, err := g.DirectedChannel(h.ChannelID + "-" + h.SrcPubKey)
		if err != nil {
			return err
		}

		_, htlcRec, found := findHTLCByHash(d, payment.PaymentHash)
		if !found {
			continue
		}
		if !verifyPreimage(htlcRec.Preimage, htlcRec.PaymentHash) {
			return ErrPreimageMismatch
		}

		htlcRec.FailureReason = graph.FailureReasonNone
		htlcRec.Status = graph.HTLCStatusSucceeded
		htlcRec.HTLCPayment.Status = graph.HTLCStatusSucceeded
		htlcRec.HTLCPayment.ResolveTimeNs = now

		other, err := g.DirectedChannel(h.ChannelID + "-" + h.PubKey)
		if err != nil {
			return err
		}

		newIdx := other.NextHTLCIndex
		other.NextHTLCIndex++

		creditAmt := int64(h.AmtToForwardMSat) + int64(h.FeeMSat)
		other.PendingHTLC[newIdx] = graph.PendingEntry{
			Amount:    -creditAmt,
			Direction: 1,
		}
		other.Balance += creditAmt

		var capInc int64
		if h.FeeMSat == 0 {
			capInc = int64(h.AmtToForwardMSat)
		} else {
			capInc = int64(h.FeeMSat)
		}
		other.Capacity += capInc
	}

	return nil
}

// Reverse performs the timeout-path walk: walks hops in
// origin-to-destination order, fails each matching HTLC with
// FAILURE_REASON_TIMEOUT, and credits back the same directed edge it
// was reserved on. No payment is delivered.
func (s *Switch) Reverse(g *graph.Graph, payment *route.Payment) error {
	r := payment.Routes[0]
	for _, h := range r.Hops {
		d, err := g.DirectedChannel(h.ChannelID + "-" + h.SrcPubKey)
		if err != nil {
			return err
		}

		idx, htlcRec, found := findHTLCByHash(d, payment.PaymentHash)
		if !found {
			continue
		}

		now := s.cfg.Clock()
		htlcRec.FailureReason = graph.FailureReasonTimeout
		htlcRec.Status = graph.HTLCStatusFailed
		htlcRec.HTLCPayment.Status = graph.HTLCStatusFailed
		htlcRec.HTLCPayment.ResolveTimeNs = now

		d.PendingHTLC[idx] = graph.PendingEntry{Amount: 0, Direction: 0}

		amt := int64(h.AmtToForwardMSat) + int64(h.FeeMSat)
		d.Balance += amt
		d.Capacity += amt
	}

	return nil
}

// findHTLCByHash locates the in-flight HTLC on d whose PaymentHash
// matches hash.
func findHTLCByHash(d *graph.DirectedChannel, hash [32]byte) (uint64, *graph.HTLC, bool) {
	for idx, h := range d.HTLCs {
		if h.PaymentHash == hash && h.Status == graph.HTLCStatusInFlight {
			return idx, h, true
		}
	}
	return 0, nil, false
}

func (s *Switch) sampleSleep() time.Duration {
	if s.cfg.SleepMaxMs <= 0 {
		return 0
	}
	u := s.rng.Int63n(s.cfg.SleepMaxMs + 1)
	return time.Duration(u) * time.Millisecond
}

// sampleTimeout draws a value uniformly from [MinDiffNs, MaxDiffNs] in
// increments of StepDiffNs.
func (s *Switch) sampleTimeout() int64 {
	if s.cfg.StepDiffNs <= 0 || s.cfg.MaxDiffNs <= s.cfg.MinDiffNs {
		return s.cfg.MaxDiffNs
	}
	steps := (s.cfg.MaxDiffNs - s.cfg.MinDiffNs) / s.cfg.StepDiffNs
	n := s.rng.Int63n(steps + 1)
	return s.cfg.MinDiffNs + n*s.cfg.StepDiffNs
}
