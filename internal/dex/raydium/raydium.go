package raydium

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
	"github.com/gagliardetto/solana-go/programs/system"
	token_program "github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"

	"raydium-bot/internal/client"
)

// AmmKeys is the full account set of one liquidity pool. Nonce is always 0
// here: the pool-keys API does not expose it and nothing downstream derives
// authority from it.
type AmmKeys struct {
	AmmPool       solana.PublicKey
	AmmCoinMint   solana.PublicKey
	AmmPcMint     solana.PublicKey
	AmmAuthority  solana.PublicKey
	AmmTarget     solana.PublicKey
	AmmCoinVault  solana.PublicKey
	AmmPcVault    solana.PublicKey
	AmmLpMint     solana.PublicKey
	AmmOpenOrder  solana.PublicKey
	MarketProgram solana.PublicKey
	Market        solana.PublicKey
	Nonce         uint8
}

// MarketKeys is the account set of the serum market backing a pool.
type MarketKeys struct {
	EventQueue     solana.PublicKey
	Bids           solana.PublicKey
	Asks           solana.PublicKey
	CoinVault      solana.PublicKey
	PcVault        solana.PublicKey
	VaultSignerKey solana.PublicKey
}

// SwapOrder describes one swap to build. Zero-valued token accounts are
// derived from the owner's associated token addresses.
type SwapOrder struct {
	InputMint          solana.PublicKey
	OutputMint         solana.PublicKey
	InputTokenAccount  solana.PublicKey
	OutputTokenAccount solana.PublicKey
	AmountIn           uint64
	MinimumAmountOut   uint64
	Owner              solana.PublicKey
}

// KeysFromPool converts one pools/key/ids API entry into the account sets the
// swap instruction needs. Every field must be a valid base58 address.
func KeysFromPool(pool *client.PoolKeys) (*AmmKeys, *MarketKeys, error) {
	var err error
	parse := func(name, value string) solana.PublicKey {
		if err != nil {
			return solana.PublicKey{}
		}
		pk, e := solana.PublicKeyFromBase58(value)
		if e != nil {
			err = fmt.Errorf("pool key %s %q: %w", name, value, e)
		}
		return pk
	}

	amm := &AmmKeys{
		AmmPool:       parse("id", pool.ID),
		AmmCoinMint:   parse("mintA", pool.MintA.Address),
		AmmPcMint:     parse("mintB", pool.MintB.Address),
		AmmAuthority:  parse("authority", pool.Authority),
		AmmTarget:     parse("targetOrders", pool.TargetOrders),
		AmmCoinVault:  parse("vault.A", pool.Vault.A),
		AmmPcVault:    parse("vault.B", pool.Vault.B),
		AmmLpMint:     parse("mintLp", pool.MintLp.Address),
		AmmOpenOrder:  parse("openOrders", pool.OpenOrders),
		MarketProgram: parse("marketProgramId", pool.MarketProgramID),
		Market:        parse("marketId", pool.MarketID),
		Nonce:         0,
	}
	market := &MarketKeys{
		EventQueue:     parse("marketEventQueue", pool.MarketEventQueue),
		Bids:           parse("marketBids", pool.MarketBids),
		Asks:           parse("marketAsks", pool.MarketAsks),
		CoinVault:      parse("marketBaseVault", pool.MarketBaseVault),
		PcVault:        parse("marketQuoteVault", pool.MarketQuoteVault),
		VaultSignerKey: parse("marketAuthority", pool.MarketAuthority),
	}
	if err != nil {
		return nil, nil, err
	}
	return amm, market, nil
}

// FetchKeysByMints resolves the deepest standard pool for the mint pair and
// loads its full key set.
func FetchKeysByMints(api *client.RaydiumAPI, mint1, mint2 string) (*AmmKeys, *MarketKeys, error) {
	poolID, err := api.FetchPoolID(mint1, mint2)
	if err != nil {
		return nil, nil, err
	}
	return FetchKeysByPoolID(api, poolID)
}

// FetchKeysByPoolID loads the full key set of a known pool id.
func FetchKeysByPoolID(api *client.RaydiumAPI, poolID string) (*AmmKeys, *MarketKeys, error) {
	pools, err := api.FetchPoolKeys(poolID)
	if err != nil {
		return nil, nil, err
	}
	return KeysFromPool(&pools[0])
}

// BuildSwapInstructions assembles the priority fee prefix, any token-account
// creation the order needs, and the swap itself. No blockhash is attached;
// the executor supplies a fresh one right before signing.
func BuildSwapInstructions(
	ctx context.Context,
	rpcClient *rpc.Client,
	order *SwapOrder,
	amm *AmmKeys,
	market *MarketKeys,
	unitPriceMicroLamports uint64,
) ([]solana.Instruction, error) {
	instrs := []solana.Instruction{}

	if unitPriceMicroLamports > 0 {
		instrs = append(instrs, computebudget.NewSetComputeUnitPriceInstruction(unitPriceMicroLamports).Build())
	}

	userIn := order.InputTokenAccount
	if userIn.IsZero() {
		derived, err := ensureTokenAccount(ctx, rpcClient, &instrs, order.Owner, order.InputMint, order.AmountIn)
		if err != nil {
			return nil, err
		}
		userIn = derived
	}
	userOut := order.OutputTokenAccount
	if userOut.IsZero() {
		derived, err := ensureTokenAccount(ctx, rpcClient, &instrs, order.Owner, order.OutputMint, 0)
		if err != nil {
			return nil, err
		}
		userOut = derived
	}

	instrs = append(instrs, NewSwapBaseInInstruction(
		amm,
		market,
		userIn,
		userOut,
		order.Owner,
		order.AmountIn,
		order.MinimumAmountOut,
	))
	return instrs, nil
}

// ensureTokenAccount derives the owner's associated token account for mint
// and appends a create instruction when the account does not exist yet. For
// the native mint the lamports to swap are wrapped on the fly via transfer +
// sync.
func ensureTokenAccount(
	ctx context.Context,
	rpcClient *rpc.Client,
	instrs *[]solana.Instruction,
	owner solana.PublicKey,
	mint solana.PublicKey,
	wrapLamports uint64,
) (solana.PublicKey, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("derive token account for %s: %w", mint, err)
	}

	exists := false
	if rpcClient != nil {
		info, _ := rpcClient.GetAccountInfo(ctx, ata)
		exists = info != nil && info.Value != nil
	}
	if !exists {
		*instrs = append(*instrs, associatedtokenaccount.NewCreateInstruction(owner, owner, mint).Build())
	}

	if mint.Equals(solana.WrappedSol) && wrapLamports > 0 {
		*instrs = append(*instrs, system.NewTransferInstruction(wrapLamports, owner, ata).Build())
		*instrs = append(*instrs, token_program.NewSyncNativeInstruction(ata).Build())
	}
	return ata, nil
}
