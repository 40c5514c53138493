package coder

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/mr-tron/base58"
)

// Instruction tags of the AMM program operations we decode or encode.
const (
	Initialize2Tag uint8 = 1
	SwapBaseInTag  uint8 = 9
)

// TokenTransfer is the jsonParsed shape of an SPL token transfer.
type TokenTransfer struct {
	Info struct {
		Amount      string `json:"amount"`
		Authority   string `json:"authority"`
		Destination string `json:"destination"`
		Source      string `json:"source"`
	} `json:"info"`
	InstructionType string `json:"type"`
}

// TokenTransferChecked carries its amount nested under tokenAmount.
type TokenTransferChecked struct {
	Info struct {
		TokenAmount struct {
			Amount   string `json:"amount"`
			Decimals uint8  `json:"decimals"`
		} `json:"tokenAmount"`
		Authority   string `json:"authority"`
		Destination string `json:"destination"`
		Mint        string `json:"mint"`
		Source      string `json:"source"`
	} `json:"info"`
	InstructionType string `json:"type"`
}

// Initialize2 is the borsh payload behind the pool initialization
// instruction, after the one-byte tag.
type Initialize2 struct {
	Nonce          uint8
	OpenTime       uint64
	InitPcAmount   uint64
	InitCoinAmount uint64
}

// DecodeInitialize2 decodes the base58 instruction data of an initialize2
// call. The tag byte is checked and stripped before borsh decoding.
func DecodeInitialize2(data string) (*Initialize2, error) {
	raw, err := base58.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding instruction data: %w", err)
	}
	if len(raw) < 26 {
		return nil, fmt.Errorf("initialize2 data too short: %d bytes", len(raw))
	}
	if raw[0] != Initialize2Tag {
		return nil, fmt.Errorf("unexpected instruction tag %d", raw[0])
	}
	init := &Initialize2{}
	if err := bin.NewBorshDecoder(raw[1:]).Decode(init); err != nil {
		return nil, fmt.Errorf("decoding initialize2 payload: %w", err)
	}
	return init, nil
}
