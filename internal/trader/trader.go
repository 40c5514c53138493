package trader

import (
	"context"
	"fmt"
	"time"

	"raydium-bot/internal/client"
	"raydium-bot/internal/global"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"github.com/zeromicro/go-zero/core/logx"
)

// Ledger is the slice of chain access the executor needs. ChainLedger backs
// it in production; tests substitute a fake.
type Ledger interface {
	LatestBlockhash(ctx context.Context) (solana.Hash, error)
	Simulate(ctx context.Context, tx *solana.Transaction) error
	SendAndConfirm(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
}

// ChainLedger implements Ledger over real RPC and websocket clients.
type ChainLedger struct {
	Rpc            *rpc.Client
	Ws             *ws.Client
	ConfirmTimeout time.Duration
}

func (l *ChainLedger) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	recent, err := l.Rpc.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return solana.Hash{}, fmt.Errorf("get latest blockhash: %w", err)
	}
	return recent.Value.Blockhash, nil
}

func (l *ChainLedger) Simulate(ctx context.Context, tx *solana.Transaction) error {
	_, err := client.SimulateTransaction(ctx, l.Rpc, tx)
	return err
}

func (l *ChainLedger) SendAndConfirm(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	timeout := l.ConfirmTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return client.SendAndConfirmTransaction(ctx, l.Rpc, l.Ws, tx, timeout)
}

// Trader runs one trade attempt through sign, simulate and submit.
type Trader struct {
	ledger       Ledger
	wallet       *solana.Wallet
	simulateOnly bool
}

func New(ledger Ledger, wallet *solana.Wallet, simulateOnly bool) *Trader {
	return &Trader{
		ledger:       ledger,
		wallet:       wallet,
		simulateOnly: simulateOnly,
	}
}

// Execute drives the given instructions to a terminal outcome: fetch a
// blockhash, sign, simulate, then re-sign against a fresh hash and submit,
// blocking until the ledger reports the result or the confirm timeout hits.
// A rejected simulation is terminal and nothing is submitted. Submission
// failures are reported as-is; re-invoking Execute is the only retry.
func (t *Trader) Execute(ctx context.Context, instructions []solana.Instruction) (solana.Signature, error) {
	if len(instructions) == 0 {
		return solana.Signature{}, fmt.Errorf("no instructions to execute")
	}

	builder := global.NewTxBuilder(t.wallet.PublicKey(), solana.Hash{})
	builder.AddInstruction(instructions...)

	tx, err := t.signedAgainstFreshHash(ctx, builder)
	if err != nil {
		return solana.Signature{}, err
	}

	if err := t.ledger.Simulate(ctx, tx); err != nil {
		return solana.Signature{}, fmt.Errorf("simulation rejected: %w", err)
	}
	logx.Infof("[%s] simulation passed", t.wallet.PublicKey())

	if t.simulateOnly {
		return solana.Signature{}, nil
	}

	// The hash used for simulation may have aged; submit against a fresh one.
	tx, err = t.signedAgainstFreshHash(ctx, builder)
	if err != nil {
		return solana.Signature{}, err
	}

	sig, err := t.ledger.SendAndConfirm(ctx, tx)
	if err != nil {
		return sig, fmt.Errorf("send and confirm: %w", err)
	}
	logx.Infof("[%s] trade confirmed: %s%s", t.wallet.PublicKey(), global.ChainExplorerTxLink, sig)
	return sig, nil
}

func (t *Trader) signedAgainstFreshHash(ctx context.Context, builder *global.TxBuilder) (*solana.Transaction, error) {
	hash, err := t.ledger.LatestBlockhash(ctx)
	if err != nil {
		return nil, err
	}
	builder.SetBlockhash(hash)
	tx, err := builder.BuildTx()
	if err != nil {
		return nil, fmt.Errorf("build transaction: %w", err)
	}
	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if t.wallet.PublicKey().Equals(key) {
			return &t.wallet.PrivateKey
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	return tx, nil
}
