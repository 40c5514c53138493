package raydium

import (
	"math/big"
)

const (
	// Program IDs
	LiquidityPoolV4Program = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
	SerumMarketProgram     = "srmqPvymJeFKQ4zGQed1GFppgkRHL9kaELCbyksJtPX"

	// Other Program IDs
	TokenProgram = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"

	// Token addresses
	NativeMint     = "So11111111111111111111111111111111111111112"
	LamportsPerSol = 1000000000 // 1 SOL = 10^9 lamports
)

// EstimateAmountOut quotes a constant-product buy on raw reserves:
// out = outReserve * amountIn / (inReserve + amountIn), reduced by slippage.
// Slippage is a fraction, 0.05 for 5%. Reserves and result are raw base
// units, no decimal scaling.
func EstimateAmountOut(
	amountIn uint64,
	inReserve *big.Float,
	outReserve *big.Float,
	slippage float64,
) uint64 {
	if amountIn == 0 || inReserve == nil || outReserve == nil {
		return 0
	}
	if inReserve.Cmp(big.NewFloat(0)) <= 0 || outReserve.Cmp(big.NewFloat(0)) <= 0 {
		return 0
	}

	amountInF := new(big.Float).SetUint64(amountIn)
	denom := new(big.Float).Add(inReserve, amountInF)
	numer := new(big.Float).Mul(outReserve, amountInF)
	out := new(big.Float).Quo(numer, denom)

	if slippage > 0 {
		out.Mul(out, big.NewFloat(1-slippage))
	}

	outUint, _ := out.Uint64()
	return outUint
}

// GetPrice returns the quote/base spot price implied by the reserves.
func GetPrice(baseReserve *big.Float, quoteReserve *big.Float) *big.Float {
	return new(big.Float).Quo(quoteReserve, baseReserve)
}
