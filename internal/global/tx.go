package global

import "github.com/gagliardetto/solana-go"

// TxBuilder accumulates instructions and assembles legacy transactions.
// The blockhash is settable so a caller can rebuild the same instruction set
// against a fresher hash right before signing.
type TxBuilder struct {
	payer        solana.PublicKey
	blockhash    solana.Hash
	instructions []solana.Instruction
}

func NewTxBuilder(payer solana.PublicKey, blockhash solana.Hash) *TxBuilder {
	return &TxBuilder{
		payer:        payer,
		blockhash:    blockhash,
		instructions: make([]solana.Instruction, 0),
	}
}

func (b *TxBuilder) AddInstruction(instrs ...solana.Instruction) {
	b.instructions = append(b.instructions, instrs...)
}

func (b *TxBuilder) SetBlockhash(blockhash solana.Hash) {
	b.blockhash = blockhash
}

func (b *TxBuilder) BuildTx() (*solana.Transaction, error) {
	return solana.NewTransaction(
		b.instructions,
		b.blockhash,
		solana.TransactionPayer(b.payer),
	)
}
