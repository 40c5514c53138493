package types

type EventKind uint8

const (
	EventUnknown EventKind = iota
	EventPoolCreated
	EventSwap
)

func (k EventKind) String() string {
	switch k {
	case EventPoolCreated:
		return "PoolCreated"
	case EventSwap:
		return "Swap"
	default:
		return "Unknown"
	}
}

// UnknownBalance marks a pool side whose post balance entry was absent from
// the transaction metadata.
const UnknownBalance = "unknown"

type PoolSide struct {
	Mint    string `json:"mint"`
	Vault   string `json:"vault"`
	Balance string `json:"balance"`
}

type PoolCreatedEvent struct {
	Signature  string   `json:"signature"`
	AmmAddress string   `json:"ammAddress"`
	TokenA     PoolSide `json:"tokenA"`
	TokenB     PoolSide `json:"tokenB"`

	// Payload details from the initialize2 instruction data. Zero when the
	// raw data was absent or did not decode.
	Nonce          uint8  `json:"nonce,omitempty"`
	OpenTime       uint64 `json:"openTime,omitempty"`
	InitCoinAmount uint64 `json:"initCoinAmount,omitempty"`
	InitPcAmount   uint64 `json:"initPcAmount,omitempty"`
}

// SwapTransactionEvent reports one swap from the pool's perspective:
// InboundAccount is the vault tokens flowed into (user paid the pool),
// OutboundAccount the vault they left (pool paid the user). Empty fields
// mean the leg could not be matched, not that zero tokens moved.
type SwapTransactionEvent struct {
	Signature       string `json:"signature"`
	EventIndex      int    `json:"eventIndex"`
	Sender          string `json:"sender"`
	InboundAccount  string `json:"inboundAccount"`
	InboundAmount   string `json:"inboundAmount"`
	OutboundAccount string `json:"outboundAccount"`
	OutboundAmount  string `json:"outboundAmount"`
}
