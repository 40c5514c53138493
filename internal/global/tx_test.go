package global

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
)

func buildHash(seed byte) solana.Hash {
	var h solana.Hash
	for i := range h {
		h[i] = seed
	}
	return h
}

func pingInstruction() solana.Instruction {
	return solana.NewInstruction(solana.SystemProgramID, solana.AccountMetaSlice{}, []byte{1})
}

func TestTxBuilderBuildsWithPayerAndBlockhash(t *testing.T) {
	payer := solana.NewWallet().PublicKey()
	b := NewTxBuilder(payer, buildHash(1))
	b.AddInstruction(pingInstruction())

	tx, err := b.BuildTx()
	assert.NoError(t, err)
	assert.Equal(t, buildHash(1), tx.Message.RecentBlockhash)
	if assert.NotEmpty(t, tx.Message.AccountKeys) {
		assert.Equal(t, payer, tx.Message.AccountKeys[0])
	}
	assert.Len(t, tx.Message.Instructions, 1)
}

// SetBlockhash swaps only the hash: the accumulated instruction set builds
// again unchanged.
func TestTxBuilderSetBlockhashRebuilds(t *testing.T) {
	b := NewTxBuilder(solana.NewWallet().PublicKey(), buildHash(1))
	b.AddInstruction(pingInstruction(), pingInstruction())

	first, err := b.BuildTx()
	assert.NoError(t, err)

	b.SetBlockhash(buildHash(2))
	second, err := b.BuildTx()
	assert.NoError(t, err)

	assert.Equal(t, buildHash(2), second.Message.RecentBlockhash)
	assert.Equal(t, first.Message.Instructions, second.Message.Instructions)
	assert.Equal(t, first.Message.AccountKeys, second.Message.AccountKeys)
}
