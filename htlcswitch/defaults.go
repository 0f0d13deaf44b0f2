package htlcswitch

// ImplementationTag names one of the external implementations whose
// default forwarding policy the simulator can mimic when node policies
// are not applied.
type ImplementationTag string

const (
	ImplCLightning ImplementationTag = "c-lightning"
	ImplLND        ImplementationTag = "lnd"
	ImplLND06      ImplementationTag = "lnd_0.6"
	ImplEclair     ImplementationTag = "eclair"
)

// ImplementationDefaults is the {time_lock_delta, fee_base_msat,
// fee_rate_milli_msat} triple used for an HTLC built without node
// policies.
type ImplementationDefaults struct {
	TimeLockDelta    uint16
	FeeBaseMSat      uint64
	FeeRateMilliMSat uint64
}

// defaultsByImplementation mirrors ln-payment.py's IMPLEMENTATION_PARAMS
// table.
var defaultsByImplementation = map[ImplementationTag]ImplementationDefaults{
	ImplCLightning: {TimeLockDelta: 14, FeeBaseMSat: 1000, FeeRateMilliMSat: 10},
	ImplLND:        {TimeLockDelta: 144, FeeBaseMSat: 1000, FeeRateMilliMSat: 1},
	ImplLND06:      {TimeLockDelta: 40, FeeBaseMSat: 1000, FeeRateMilliMSat: 1},
	ImplEclair:     {TimeLockDelta: 144, FeeBaseMSat: 1000, FeeRateMilliMSat: 100},
}

// Defaults looks up the implementation default triple, falling back to
// the LND defaults for an unrecognized tag.
func Defaults(tag ImplementationTag) ImplementationDefaults {
	if d, ok := defaultsByImplementation[tag]; ok {
		return d
	}
	return defaultsByImplementation[ImplLND]
}
