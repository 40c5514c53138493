package client

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"github.com/zeromicro/go-zero/core/logx"
)

// ErrStreamClosed reports that the server closed a log subscription.
var ErrStreamClosed = errors.New("log stream closed")

// ConnectWS dials the websocket endpoint of a node.
func ConnectWS(ctx context.Context, endpoint string) (*ws.Client, error) {
	wsClient, err := ws.Connect(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("connect websocket %s: %w", endpoint, err)
	}
	return wsClient, nil
}

// SubForLogs subscribes to log notifications for transactions mentioning
// programID and pushes them into msg until the stream drops or ctx is
// cancelled. The caller owns reconnection; a returned error means the
// subscription is dead.
func SubForLogs(ctx context.Context, wsClient *ws.Client, programID solana.PublicKey, msg chan<- *ws.LogResult) error {
	sub, err := wsClient.LogsSubscribeMentions(programID, rpc.CommitmentConfirmed)
	if err != nil {
		return fmt.Errorf("subscribe logs mentioning %s: %w", programID, err)
	}
	defer sub.Unsubscribe()

	logx.Infof("subscribed to logs mentioning %s", programID)

	for {
		got, err := sub.Recv(ctx)
		if err == io.EOF {
			return ErrStreamClosed
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("receive log notification: %w", err)
		}
		if got == nil {
			continue
		}
		select {
		case msg <- got:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
