package config

import (
	"raydium-bot/internal/global"

	"github.com/zeromicro/go-zero/core/logx"
)

var C Config

type Config struct {
	Log    LogConf
	Banner BannerConf
	Rpc    RpcConf
	Api    ApiConf
	Watch  WatchConf
	Trade  TradeConf
}

type LogConf struct {
	logx.LogConf
}

type BannerConf struct {
	Text     string `json:",default=RAYDIUM-BOT"`
	Color    string `json:",default=green"`
	FontName string `json:",default=standard,options=big|larry3d|starwars|standard"`
}

type RpcConf struct {
	HttpUrl string `json:",default=https://api.mainnet-beta.solana.com"`
	WsUrl   string `json:",default=wss://api.mainnet-beta.solana.com"`
}

type ApiConf struct {
	// Raydium v3 API hosts. BaseHost serves pool metadata and the auto-fee
	// estimate, SwapHost serves quotes and prebuilt swap transactions.
	BaseHost string `json:",default=https://api-v3.raydium.io"`
	SwapHost string `json:",default=https://transaction-v1.raydium.io"`
}

type WatchConf struct {
	Program      string  `json:",default=675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"`
	RulesFile    string  `json:",default=config/watch.yaml"`
	StatusAddr   string  `json:",optional"`
	DedupeSize   uint    `json:",default=100000"`
	DedupeFpRate float64 `json:",default=0.01"`
}

type TradeConf struct {
	UnitPriceMicroLamports uint64 `json:",default=3000000"`
	SlippageBps            uint64 `json:",default=500"`
	ConfirmTimeoutSec      int    `json:",default=30"`
	BlockhashRefreshMs     int    `json:",default=2000"`
	// Lamports spent when the watcher snipes a target mint's new pool.
	// Zero disables auto-sniping.
	SnipeLamports uint64 `json:",default=0"`
	// SimulateOnly stops every snipe after a passing simulation.
	SimulateOnly bool `json:",optional"`
	// The safety screen runs before a snipe spends anything. The mint check
	// reads the mint account and rejects mints whose mint or freeze authority
	// is still set. The rugcheck report is an extra opt-in signal.
	SkipMintCheck bool   `json:",optional"`
	RugCheck      bool   `json:",optional"`
	RugCheckHost  string `json:",default=https://api.rugcheck.xyz"`
}

// WatchProgramID returns the watched program id, falling back to the
// Raydium Liquidity Pool V4 id when the config value does not parse.
func (c Config) WatchProgramID() string {
	if c.Watch.Program == "" {
		return global.RaydiumLiquidityPoolV4
	}
	return c.Watch.Program
}
