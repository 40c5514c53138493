package global

import (
	"context"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/zeromicro/go-zero/core/logx"
)

var (
	blockMutex = &sync.RWMutex{}
	block      = &CurrentBlock{}
)

type CurrentBlock struct {
	PrevBlockHash solana.Hash
	Slot          uint64
	LastTime      int64
}

// RefreshBlockhash keeps the cached blockhash warm until ctx is done.
// The trade path still fetches its own hash right before signing; the cache
// only serves display and non-critical callers.
func RefreshBlockhash(ctx context.Context, rpcClient *rpc.Client, interval time.Duration) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		updateBlock(rpcClient)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func updateBlock(rpcClient *rpc.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	recent, err := rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		logx.Errorf("failed grabbing new block hash: %v", err)
		return
	}
	UpdateBlockData(recent.Context.Slot, recent.Value.Blockhash)
}

func UpdateBlockData(slot uint64, prevBlockHash solana.Hash) {
	blockMutex.Lock()
	if slot >= block.Slot {
		block.Slot = slot
		block.PrevBlockHash = prevBlockHash
		block.LastTime = time.Now().Unix()
	}
	blockMutex.Unlock()
}

func GetBlockHash() solana.Hash {
	blockMutex.RLock()
	defer blockMutex.RUnlock()
	return block.PrevBlockHash
}

func GetSlot() uint64 {
	blockMutex.RLock()
	defer blockMutex.RUnlock()
	return block.Slot
}
