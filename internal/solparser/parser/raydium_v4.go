package parser

import (
	"fmt"

	"raydium-bot/internal/solparser/parser/coder"
	"raydium-bot/internal/solparser/types"

	"github.com/gagliardetto/solana-go/rpc"
)

// Positional account layout of the AMM program's instructions. The wire data
// carries no field names; these offsets are the program's interface contract.
const (
	initPoolAccountIndex = 4
	initCoinMintIndex    = 8
	initPcMintIndex      = 9
	initCoinVaultIndex   = 10
	initPcVaultIndex     = 11
	initMinAccounts      = 12

	swapVaultAIndex = 5
	swapVaultBIndex = 6
	swapMinAccounts = 7
)

// ParseRaydiumPoolCreatedEvent extracts the pool address, the two mints and
// vaults from an initialize2 instruction, and joins postTokenBalances by mint
// for the initial reserves. A side without a balance entry is reported as
// unknown rather than failing the event.
func (s *SolParser) ParseRaydiumPoolCreatedEvent(tx *rpc.GetParsedTransactionResult, ix *rpc.ParsedInstruction) (*types.PoolCreatedEvent, error) {
	if len(ix.Accounts) < initMinAccounts {
		return nil, fmt.Errorf("initialize2 instruction has %d accounts, want at least %d", len(ix.Accounts), initMinAccounts)
	}

	event := &types.PoolCreatedEvent{
		Signature:  tx.Transaction.Signatures[0].String(),
		AmmAddress: ix.Accounts[initPoolAccountIndex].String(),
		TokenA: types.PoolSide{
			Mint:    ix.Accounts[initCoinMintIndex].String(),
			Vault:   ix.Accounts[initCoinVaultIndex].String(),
			Balance: types.UnknownBalance,
		},
		TokenB: types.PoolSide{
			Mint:    ix.Accounts[initPcMintIndex].String(),
			Vault:   ix.Accounts[initPcVaultIndex].String(),
			Balance: types.UnknownBalance,
		},
	}

	if tx.Meta != nil {
		for _, bal := range tx.Meta.PostTokenBalances {
			if bal.UiTokenAmount == nil {
				continue
			}
			mint := bal.Mint.String()
			if mint == event.TokenA.Mint && event.TokenA.Balance == types.UnknownBalance {
				event.TokenA.Balance = bal.UiTokenAmount.Amount
			}
			if mint == event.TokenB.Mint && event.TokenB.Balance == types.UnknownBalance {
				event.TokenB.Balance = bal.UiTokenAmount.Amount
			}
		}
	}

	if len(ix.Data) > 0 {
		if init, err := coder.DecodeInitialize2(ix.Data.String()); err == nil {
			event.Nonce = init.Nonce
			event.OpenTime = init.OpenTime
			event.InitCoinAmount = init.InitCoinAmount
			event.InitPcAmount = init.InitPcAmount
		}
	}

	return event, nil
}

// ParseRaydiumAmmSwapEvent attributes a swap's legs by scanning the
// transaction's inner token transfers against the two vault accounts of the
// swap instruction. Naming follows the pool's perspective: a transfer INTO a
// vault fills the inbound leg, a transfer OUT of a vault the outbound leg.
// Transfers without an amount are skipped; a transaction without inner
// instructions yields an event with both legs unknown.
func (s *SolParser) ParseRaydiumAmmSwapEvent(tx *rpc.GetParsedTransactionResult, ix *rpc.ParsedInstruction, idx int) (*types.SwapTransactionEvent, error) {
	if len(ix.Accounts) < swapMinAccounts {
		return nil, fmt.Errorf("swap instruction has %d accounts, want at least %d", len(ix.Accounts), swapMinAccounts)
	}
	vaultA := ix.Accounts[swapVaultAIndex].String()
	vaultB := ix.Accounts[swapVaultBIndex].String()

	event := &types.SwapTransactionEvent{
		Signature:  tx.Transaction.Signatures[0].String(),
		EventIndex: idx + 1,
		Sender:     tx.Transaction.Message.AccountKeys[0].PublicKey.String(),
	}

	if tx.Meta == nil || len(tx.Meta.InnerInstructions) == 0 {
		return event, nil
	}

	for _, group := range tx.Meta.InnerInstructions {
		for _, inner := range group.Instructions {
			transfer, err := s.ParseTokenTransfer(inner)
			if err != nil {
				continue
			}
			if transfer.Info.Amount == "" {
				continue
			}
			// Source checks take priority over destination checks so a
			// single transfer never claims both legs.
			switch {
			case transfer.Info.Source == vaultA:
				event.OutboundAccount = vaultA
				event.OutboundAmount = transfer.Info.Amount
			case transfer.Info.Source == vaultB:
				event.OutboundAccount = vaultB
				event.OutboundAmount = transfer.Info.Amount
			case transfer.Info.Destination == vaultA:
				event.InboundAccount = vaultA
				event.InboundAmount = transfer.Info.Amount
			case transfer.Info.Destination == vaultB:
				event.InboundAccount = vaultB
				event.InboundAmount = transfer.Info.Amount
			}
		}
	}

	return event, nil
}
