package raydium

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// NewSwapBaseInInstruction builds the AMM swap with the program's fixed
// account layout. The order of the metas is the program's wire contract and
// must not change.
func NewSwapBaseInInstruction(
	amm *AmmKeys,
	market *MarketKeys,
	userInTokenAccount solana.PublicKey,
	userOutTokenAccount solana.PublicKey,
	owner solana.PublicKey,
	amountIn uint64,
	minimumAmountOut uint64,
) solana.Instruction {
	inst := &SwapInstructionBaseIn{
		Tag:              SwapBaseInTag,
		AmountIn:         amountIn,
		MinimumAmountOut: minimumAmountOut,
		AccountMetaSlice: make(solana.AccountMetaSlice, 17),
	}
	inst.BaseVariant = bin.BaseVariant{
		Impl: inst,
	}

	// 1. spl token program
	inst.AccountMetaSlice[0] = solana.Meta(solana.MustPublicKeyFromBase58(TokenProgram))
	// 2. amm pool
	inst.AccountMetaSlice[1] = solana.Meta(amm.AmmPool).WRITE()
	// 3. amm authority
	inst.AccountMetaSlice[2] = solana.Meta(amm.AmmAuthority)
	// 4. amm open orders
	inst.AccountMetaSlice[3] = solana.Meta(amm.AmmOpenOrder).WRITE()
	// 5. amm coin vault
	inst.AccountMetaSlice[4] = solana.Meta(amm.AmmCoinVault).WRITE()
	// 6. amm pc vault
	inst.AccountMetaSlice[5] = solana.Meta(amm.AmmPcVault).WRITE()
	// 7. serum market program
	inst.AccountMetaSlice[6] = solana.Meta(amm.MarketProgram)
	// 8. serum market
	inst.AccountMetaSlice[7] = solana.Meta(amm.Market).WRITE()
	// 9. market bids
	inst.AccountMetaSlice[8] = solana.Meta(market.Bids).WRITE()
	// 10. market asks
	inst.AccountMetaSlice[9] = solana.Meta(market.Asks).WRITE()
	// 11. market event queue
	inst.AccountMetaSlice[10] = solana.Meta(market.EventQueue).WRITE()
	// 12. market coin vault
	inst.AccountMetaSlice[11] = solana.Meta(market.CoinVault).WRITE()
	// 13. market pc vault
	inst.AccountMetaSlice[12] = solana.Meta(market.PcVault).WRITE()
	// 14. market vault signer
	inst.AccountMetaSlice[13] = solana.Meta(market.VaultSignerKey)
	// 15. user source token account
	inst.AccountMetaSlice[14] = solana.Meta(userInTokenAccount).WRITE()
	// 16. user destination token account
	inst.AccountMetaSlice[15] = solana.Meta(userOutTokenAccount).WRITE()
	// 17. user owner
	inst.AccountMetaSlice[16] = solana.Meta(owner).SIGNER()

	return inst
}
