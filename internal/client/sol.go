package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"github.com/zeromicro/go-zero/core/logx"
)

// NewRPC builds a JSON-RPC client for the given HTTP endpoint.
func NewRPC(endpoint string) *rpc.Client {
	return rpc.New(endpoint)
}

// GetParsedTransactionByHash fetches a transaction in jsonParsed encoding.
// Freshly confirmed signatures are often not indexed yet when the log
// notification arrives, so the call is retried with backoff.
func GetParsedTransactionByHash(ctx context.Context, client *rpc.Client, signature solana.Signature) (*rpc.GetParsedTransactionResult, error) {
	maxSupportedTransactionVersion := uint64(0)
	opts := &rpc.GetParsedTransactionOpts{
		Commitment:                     rpc.CommitmentConfirmed,
		MaxSupportedTransactionVersion: &maxSupportedTransactionVersion,
	}

	var txResp *rpc.GetParsedTransactionResult
	err := retry.Do(
		func() error {
			var err error
			txResp, err = client.GetParsedTransaction(ctx, signature, opts)
			if err != nil {
				return err
			}
			if txResp == nil || txResp.Transaction == nil {
				return fmt.Errorf("transaction not found: %s", signature)
			}
			return nil
		},
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("get parsed transaction %s: %w", signature, err)
	}
	return txResp, nil
}

// GetTokenAccountBalance returns the raw (non-UI) amount held by a token
// account, as the ledger reports it.
func GetTokenAccountBalance(ctx context.Context, client *rpc.Client, account solana.PublicKey) (string, error) {
	var amount string
	err := retry.Do(
		func() error {
			out, err := client.GetTokenAccountBalance(ctx, account, rpc.CommitmentConfirmed)
			if err != nil {
				return err
			}
			if out == nil || out.Value == nil {
				return fmt.Errorf("empty balance response for %s", account)
			}
			amount = out.Value.Amount
			return nil
		},
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", err
	}
	return amount, nil
}

// SimulateTransaction runs the transaction against current bank state without
// submitting it. A non-nil on-chain error is returned as a Go error carrying
// the program logs.
func SimulateTransaction(ctx context.Context, client *rpc.Client, transaction *solana.Transaction) (*rpc.SimulateTransactionResponse, error) {
	sopts := &rpc.SimulateTransactionOpts{
		ReplaceRecentBlockhash: true,
		Commitment:             rpc.CommitmentProcessed,
	}
	out, err := client.SimulateTransactionWithOpts(ctx, transaction, sopts)
	if err != nil {
		return nil, fmt.Errorf("simulate transaction: %w", err)
	}
	if out.Value.Err != nil {
		return out, fmt.Errorf("simulation failed: %v; logs: %s", out.Value.Err, strings.Join(out.Value.Logs, " | "))
	}
	return out, nil
}

// SendTransaction submits a signed transaction. Preflight is skipped because
// callers simulate explicitly before submitting.
func SendTransaction(ctx context.Context, client *rpc.Client, transaction *solana.Transaction) (solana.Signature, error) {
	signature, err := client.SendTransactionWithOpts(ctx, transaction, rpc.TransactionOpts{
		SkipPreflight:       true,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("send transaction: %w", err)
	}
	return signature, nil
}

// WaitForTransaction blocks until the signature reaches confirmed commitment,
// the timeout elapses, or ctx is cancelled. The websocket subscription usually
// wins the race; the status poll covers dropped notifications.
func WaitForTransaction(ctx context.Context, client *rpc.Client, wsClient *ws.Client, signature solana.Signature, timeout time.Duration) error {
	isSuccess := make(chan *bool)
	if wsClient != nil {
		go SubForTransaction(wsClient, signature, isSuccess)
	}

	deadline := time.After(timeout)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return fmt.Errorf("transaction %s not confirmed after %s", signature, timeout)
		case verdict, ok := <-isSuccess:
			if !ok || verdict == nil {
				// Subscription dropped without a verdict; fall back to polling.
				isSuccess = nil
				continue
			}
			if *verdict {
				return nil
			}
			return fmt.Errorf("transaction %s failed on chain", signature)
		case <-ticker.C:
			statuses, err := client.GetSignatureStatuses(ctx, false, signature)
			if err != nil || statuses == nil || len(statuses.Value) == 0 || statuses.Value[0] == nil {
				continue
			}
			status := statuses.Value[0]
			if status.Err != nil {
				return fmt.Errorf("transaction %s failed on chain: %v", signature, status.Err)
			}
			if status.ConfirmationStatus == rpc.ConfirmationStatusConfirmed ||
				status.ConfirmationStatus == rpc.ConfirmationStatusFinalized {
				return nil
			}
		}
	}
}

// SubForTransaction watches a signature over the websocket and pushes a single
// verdict into isSuccess: true for confirmed, false for on-chain failure. The
// channel is closed without a verdict if the subscription itself fails.
func SubForTransaction(wsClient *ws.Client, signature solana.Signature, isSuccess chan *bool) {
	defer close(isSuccess)

	sub, err := wsClient.SignatureSubscribe(signature, rpc.CommitmentConfirmed)
	if err != nil {
		logx.Errorf("[%s] signature subscribe failed: %v", signature, err)
		return
	}
	defer sub.Unsubscribe()

	got, err := sub.RecvWithTimeout(80 * time.Second)
	if err != nil {
		logx.Errorf("[%s] signature notification failed: %v", signature, err)
		return
	}
	success := got.Value.Err == nil
	if !success {
		logx.Errorf("[%s] transaction failed: %v", signature, got.Value.Err)
	}
	isSuccess <- &success
}

// SendAndConfirmTransaction submits the transaction and waits for confirmed
// commitment.
func SendAndConfirmTransaction(ctx context.Context, client *rpc.Client, wsClient *ws.Client, transaction *solana.Transaction, timeout time.Duration) (solana.Signature, error) {
	signature, err := SendTransaction(ctx, client, transaction)
	if err != nil {
		return solana.Signature{}, err
	}
	if err := WaitForTransaction(ctx, client, wsClient, signature, timeout); err != nil {
		return signature, err
	}
	return signature, nil
}
