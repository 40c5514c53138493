package raydium

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Instruction tags of the liquidity pool program.
const (
	Initialize2Tag uint8 = 1
	SwapBaseInTag  uint8 = 9
)

// SwapInstructionBaseIn is the swap_base_in instruction: one tag byte followed
// by two little-endian u64 fields, 17 bytes total.
type SwapInstructionBaseIn struct {
	bin.BaseVariant
	Tag                     uint8
	AmountIn                uint64
	MinimumAmountOut        uint64
	solana.AccountMetaSlice `bin:"-" borsh_skip:"true"`
}

func (inst *SwapInstructionBaseIn) ProgramID() solana.PublicKey {
	return solana.MustPublicKeyFromBase58(LiquidityPoolV4Program)
}

func (inst *SwapInstructionBaseIn) Accounts() (out []*solana.AccountMeta) {
	return inst.Impl.(solana.AccountsGettable).GetAccounts()
}

func (inst *SwapInstructionBaseIn) Data() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := bin.NewBorshEncoder(buf).Encode(inst); err != nil {
		return nil, fmt.Errorf("unable to encode instruction: %w", err)
	}
	return buf.Bytes(), nil
}

func (inst *SwapInstructionBaseIn) MarshalWithEncoder(encoder *bin.Encoder) (err error) {
	err = encoder.WriteBytes([]byte{inst.Tag}, false)
	if err != nil {
		return err
	}
	err = encoder.WriteUint64(inst.AmountIn, binary.LittleEndian)
	if err != nil {
		return err
	}
	err = encoder.WriteUint64(inst.MinimumAmountOut, binary.LittleEndian)
	if err != nil {
		return err
	}
	return nil
}
