package parser

import (
	"errors"

	"github.com/gagliardetto/solana-go/rpc"
)

func validateTransaction(tx *rpc.GetParsedTransactionResult) error {
	if tx == nil || tx.Transaction == nil {
		return errors.New("parsedTransaction is nil")
	}
	if len(tx.Transaction.Message.AccountKeys) == 0 {
		return errors.New("no account keys found")
	}
	if len(tx.Transaction.Signatures) == 0 {
		return errors.New("no signatures found")
	}
	return nil
}
