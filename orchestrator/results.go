package orchestrator

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"time"

	"github.com/lightningnetwork/lnsim/graph"
	"github.com/lightningnetwork/lnsim/routing/route"
)

// Results is the results-file document: slot "0" holds the
// "<timestamp>---<description>" header, slots "1".."n" the serialized
// payment records in execution order.
type Results map[string]interface{}

// NewResults creates a Results document with its header slot populated.
func NewResults(now time.Time, description string) Results {
	return Results{
		"0": now.Format("01/02/2006, 15:04:05") + "---" + description,
	}
}

// Add inserts a payment record under the given slot key.
func (r Results) Add(key string, rec *PaymentRecord) {
	r[key] = rec
}

// Save writes the document as indented JSON to path.
func (r Results) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// PaymentRecord is the JSON presentation of a resolved Payment. Amounts
// cross the presentation boundary here: internal millisatoshi integers
// become satoshi floats, matching the results-file schema of the original
// driver.
type PaymentRecord struct {
	PubKeyOrigin  string `json:"pubkey_origin"`
	PubKeyDestiny string `json:"pubkey_destiny"`
	PaymentAmount int64  `json:"payment_amount"`
	CreationTime  int64  `json:"creation_time_ns"`
	PaymentHash   string `json:"payment_hash,omitempty"`
	Error         string `json:"error,omitempty"`

	Routes []RouteRecord `json:"routes,omitempty"`
}

// RouteRecord mirrors route.Route for serialization.
type RouteRecord struct {
	TotalAmt      float64     `json:"total_amt"`
	TotalAmtMSat  uint64      `json:"total_amt_msat"`
	TotalFees     float64     `json:"total_fees"`
	TotalFeesMSat uint64      `json:"total_fees_msat"`
	TotalTimeLock uint32      `json:"total_time_lock"`
	SuccessProb   float64     `json:"success_prob"`
	Hops          []HopRecord `json:"hops"`
}

// HopRecord mirrors route.Hop plus the resolved state of the HTLC the hop
// left behind on its directed edge.
type HopRecord struct {
	ChannelID       string  `json:"channel_id"`
	ChannelCapacity int64   `json:"channel_capacity"`
	PubKey          string  `json:"pub_key"`
	AmtToForward    float64 `json:"amt_2_fwrd"`
	AmtToFwdMSat    uint64  `json:"amt_2_fwrd_msat"`
	Fee             float64 `json:"fee"`
	FeeMSat         uint64  `json:"fee_msat"`
	Expiry          uint16  `json:"expiry"`

	HTLCStatus    string `json:"htlc_status,omitempty"`
	FailureReason string `json:"payment_failure_reason,omitempty"`
	ResolveTimeNs int64  `json:"resolve_time_ns,omitempty"`
}

// NewPaymentRecord converts a Payment into its serializable form, pulling
// each hop's resolved HTLC state back out of the graph so the results
// file captures the full audit trail.
func NewPaymentRecord(g *graph.Graph, p *route.Payment) *PaymentRecord {
	rec := &PaymentRecord{
		PubKeyOrigin:  p.PubKeyOrigin,
		PubKeyDestiny: p.PubKeyDestiny,
		PaymentAmount: p.PaymentAmount,
		CreationTime:  p.CreationTimeNs,
		Error:         p.Error,
	}
	if p.HasHash {
		rec.PaymentHash = hex.EncodeToString(p.PaymentHash[:])
	}

	for _, r := range p.Routes {
		rr := RouteRecord{
			TotalAmt:      float64(r.TotalAmtMSat) / 1000,
			TotalAmtMSat:  uint64(r.TotalAmtMSat),
			TotalFees:     float64(r.TotalFeesMSat) / 1000,
			TotalFeesMSat: uint64(r.TotalFeesMSat),
			TotalTimeLock: r.TotalTimeLock,
			SuccessProb:   r.SuccessProb,
		}

		for _, h := range r.Hops {
			hr := HopRecord{
				ChannelID:       h.ChannelID,
				ChannelCapacity: h.ChannelCapacity,
				PubKey:          h.PubKey,
				AmtToForward:    float64(h.AmtToForwardMSat) / 1000,
				AmtToFwdMSat:    uint64(h.AmtToForwardMSat),
				Fee:             float64(h.FeeMSat) / 1000,
				FeeMSat:         uint64(h.FeeMSat),
				Expiry:          h.Expiry,
			}

			if p.HasHash {
				if htlc := findHopHTLC(g, h, p.PaymentHash); htlc != nil {
					hr.HTLCStatus = htlc.Status.String()
					hr.FailureReason = htlc.FailureReason.String()
					hr.ResolveTimeNs = htlc.HTLCPayment.ResolveTimeNs
				}
			}

			rr.Hops = append(rr.Hops, hr)
		}

		rec.Routes = append(rec.Routes, rr)
	}

	return rec
}

// findHopHTLC locates the HTLC a hop's block left on its directed edge,
// regardless of terminal status.
func findHopHTLC(g *graph.Graph, h *route.Hop, hash [32]byte) *graph.HTLC {
	d, err := g.DirectedChannel(h.ChannelID + "-" + h.SrcPubKey)
	if err != nil {
		return nil
	}
	for _, rec := range d.HTLCs {
		if rec.PaymentHash == hash {
			return rec
		}
	}
	return nil
}
