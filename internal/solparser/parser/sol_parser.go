package parser

import (
	"context"
	"fmt"

	"raydium-bot/internal/client"
	"raydium-bot/internal/solparser/consts"
	"raydium-bot/internal/solparser/types"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/zeromicro/go-zero/core/logx"
)

// InstructionContext pairs a top-level instruction with its position in the
// message, which numbers the events extracted from one transaction.
type InstructionContext struct {
	instruction *rpc.ParsedInstruction
	index       int
}

// SolParser turns parsed transactions into pool and swap events. The RPC
// client is only used to backfill vault balances missing from
// postTokenBalances; swap extraction never touches the network.
type SolParser struct {
	cli *rpc.Client
}

func NewSolParser(cli *rpc.Client) *SolParser {
	return &SolParser{cli: cli}
}

// getProgramInstructions returns the top-level instructions owned by the AMM
// program. Inner instructions are only consulted later, for transfer
// attribution; the program's own invocations never appear there on the
// transactions this bot watches.
func (s *SolParser) getProgramInstructions(tx *rpc.GetParsedTransactionResult, programId string) []InstructionContext {
	var contexts []InstructionContext
	for idx, inst := range tx.Transaction.Message.Instructions {
		if inst.ProgramId.String() == programId {
			contexts = append(contexts, InstructionContext{
				instruction: inst,
				index:       idx,
			})
		}
	}
	return contexts
}

// ParsePoolCreatedEvents extracts one event per pool-initialization
// instruction in the transaction. A vault balance missing from
// postTokenBalances is fetched over RPC; failures there leave the balance
// unknown instead of dropping the event.
func (s *SolParser) ParsePoolCreatedEvents(ctx context.Context, parsedTransaction *rpc.GetParsedTransactionResult) ([]*types.PoolCreatedEvent, error) {
	if err := validateTransaction(parsedTransaction); err != nil {
		return nil, fmt.Errorf("invalid transaction: %w", err)
	}

	events := []*types.PoolCreatedEvent{}
	for _, ic := range s.getProgramInstructions(parsedTransaction, consts.RAYDIUM_V4_PROGRAM_ID) {
		event, err := s.ParseRaydiumPoolCreatedEvent(parsedTransaction, ic.instruction)
		if err != nil {
			logx.Errorf("error parsing pool created event %s: %v", parsedTransaction.Transaction.Signatures[0], err)
			continue
		}
		s.fillVaultBalances(ctx, event)
		events = append(events, event)
	}
	return events, nil
}

// fillVaultBalances queries each vault whose balance had no postTokenBalances
// entry. Right after pool creation the entries are normally present; this
// covers transactions whose metadata omits them.
func (s *SolParser) fillVaultBalances(ctx context.Context, event *types.PoolCreatedEvent) {
	if s.cli == nil {
		return
	}
	for _, side := range []*types.PoolSide{&event.TokenA, &event.TokenB} {
		if side.Balance != types.UnknownBalance {
			continue
		}
		vault, err := solana.PublicKeyFromBase58(side.Vault)
		if err != nil {
			continue
		}
		amount, err := client.GetTokenAccountBalance(ctx, s.cli, vault)
		if err != nil {
			logx.Errorf("error getting balance of vault %s: %v", side.Vault, err)
			continue
		}
		side.Balance = amount
	}
}

// ParseSwapEvents extracts one event per swap instruction. It works purely on
// the already-fetched transaction and performs no network calls.
func (s *SolParser) ParseSwapEvents(parsedTransaction *rpc.GetParsedTransactionResult) ([]*types.SwapTransactionEvent, error) {
	if err := validateTransaction(parsedTransaction); err != nil {
		return nil, fmt.Errorf("invalid transaction: %w", err)
	}

	events := []*types.SwapTransactionEvent{}
	for _, ic := range s.getProgramInstructions(parsedTransaction, consts.RAYDIUM_V4_PROGRAM_ID) {
		event, err := s.ParseRaydiumAmmSwapEvent(parsedTransaction, ic.instruction, ic.index)
		if err != nil {
			logx.Errorf("error parsing swap event %s: %v", parsedTransaction.Transaction.Signatures[0], err)
			continue
		}
		events = append(events, event)
	}
	return events, nil
}
