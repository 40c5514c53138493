package consts

const (
	RAYDIUM_V4_PROGRAM_ID = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
	TOKEN_PROGRAM_ID      = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	SERUM_PROGRAM_ID      = "srmqPvymJeFKQ4zGQed1GFppgkRHL9kaELCbyksJtPX"
	SOL_TOKEN_PROGRAM_ID  = "So11111111111111111111111111111111111111112"
)

// Log line markers for the entry points the watcher reacts to. Matching is
// case-insensitive; the swap marker matches on line suffix, initialize2
// anywhere in the line.
const (
	PoolCreatedLogMarker = "initialize2"
	SwapLogSuffix        = "swap"
	SwapRouter2Suffix    = "swap2"
	MultiSwapSuffix      = "multiswap"
)
