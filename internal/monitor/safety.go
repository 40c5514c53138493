package monitor

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/zeromicro/go-zero/core/logx"
)

// ErrMintRisky marks a definitive safety rejection, as opposed to a transient
// failure of the screen itself.
var ErrMintRisky = errors.New("mint failed safety screen")

const mintAccountSize = 82

// COption<Pubkey> tag in SPL account layouts.
var optionSome = []byte{1, 0, 0, 0}

type mintAccount struct {
	MintAuthority   *solana.PublicKey
	Supply          uint64
	Decimals        uint8
	Initialized     bool
	FreezeAuthority *solana.PublicKey
}

// decodeMintAccount reads the raw SPL mint layout: COption mint authority,
// u64 supply, u8 decimals, bool initialized, COption freeze authority.
func decodeMintAccount(data []byte) (*mintAccount, error) {
	if len(data) != mintAccountSize {
		return nil, fmt.Errorf("mint account data is %d bytes, want %d", len(data), mintAccountSize)
	}

	acc := &mintAccount{
		Supply:      binary.LittleEndian.Uint64(data[36:44]),
		Decimals:    data[44],
		Initialized: data[45] == 1,
	}
	if bytes.Equal(data[:4], optionSome) {
		key := solana.PublicKeyFromBytes(data[4:36])
		acc.MintAuthority = &key
	}
	if bytes.Equal(data[46:50], optionSome) {
		key := solana.PublicKeyFromBytes(data[50:82])
		acc.FreezeAuthority = &key
	}
	return acc, nil
}

// safetyCheck screens a mint before the snipe spends anything. The on-chain
// check rejects mints that can still be inflated or frozen; the rugcheck
// report is consulted only when enabled and never blocks on its own failure.
func (p *RaydiumMonitor) safetyCheck(ctx context.Context, mint solana.PublicKey) error {
	if !p.svcCtx.Config.Trade.SkipMintCheck {
		info, err := p.svcCtx.RpcClient.GetAccountInfo(ctx, mint)
		if err != nil {
			return fmt.Errorf("fetch mint account: %w", err)
		}
		if info == nil || info.Value == nil {
			return fmt.Errorf("mint account %s not found", mint)
		}
		acc, err := decodeMintAccount(info.Value.Data.GetBinary())
		if err != nil {
			return fmt.Errorf("decode mint account: %w", err)
		}
		if !acc.Initialized {
			return fmt.Errorf("%w: mint not initialized", ErrMintRisky)
		}
		if acc.MintAuthority != nil {
			return fmt.Errorf("%w: mint authority still set (%s)", ErrMintRisky, acc.MintAuthority)
		}
		if acc.FreezeAuthority != nil {
			return fmt.Errorf("%w: freeze authority still set (%s)", ErrMintRisky, acc.FreezeAuthority)
		}
	}

	if p.svcCtx.Config.Trade.RugCheck && p.svcCtx.RugCheck != nil {
		report, err := p.svcCtx.RugCheck.FetchTokenReport(mint.String())
		if err != nil {
			logx.Infof("[%s] rugcheck unavailable, continuing without it: %v", mint, err)
		} else if reason, bad := report.Risky(); bad {
			return fmt.Errorf("%w: %s", ErrMintRisky, reason)
		}
	}
	return nil
}
