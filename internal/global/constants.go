package global

// Program and token identifiers the watcher and trader resolve at startup.
// Defaults target mainnet; the config layer may point the watcher at another
// program id without touching this file.

import (
	"github.com/gagliardetto/solana-go"
)

const (
	// Program IDs
	RaydiumLiquidityPoolV4 = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
	TokenProgram           = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	SerumProgram           = "srmqPvymJeFKQ4zGQed1GFppgkRHL9kaELCbyksJtPX"

	// Token addresses
	NativeMint     = "So11111111111111111111111111111111111111112"
	LamportsPerSol = 1000000000 // 1 SOL = 10^9 lamports

	// Chain explorer tx checking page
	ChainExplorerTxLink = "https://solscan.io/tx/"
)

var (
	RaydiumV4ProgramID = solana.MustPublicKeyFromBase58(RaydiumLiquidityPoolV4)
	TokenProgramID     = solana.MustPublicKeyFromBase58(TokenProgram)
	SerumProgramID     = solana.MustPublicKeyFromBase58(SerumProgram)
	WSolMint           = solana.MustPublicKeyFromBase58(NativeMint)
	ZeroAddr           = solana.PublicKey{}
)

// Version is overridden at build time:
//
//	go build -ldflags "-X raydium-bot/internal/global.Version=v1.2.3"
var Version = "dev"
