/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"time"

	"raydium-bot/internal/client"
	"raydium-bot/internal/dex/raydium"
	"raydium-bot/internal/global"
	"raydium-bot/internal/svc"
	"raydium-bot/internal/trader"
	"raydium-bot/internal/wallet"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"github.com/spf13/cobra"
	"github.com/zeromicro/go-zero/core/logx"
)

// buyCmd represents the buy command
var buyCmd = &cobra.Command{
	Use:   "buy",
	Short: "Buy a token through its Raydium V4 pool",
	Long: `Builds the swap instruction locally from the pool's account set,
simulates it, and submits it. The pool is resolved from the mint pair
unless --pool names it directly.`,
	Run: func(cmd *cobra.Command, args []string) {
		runBuy(cmd)
	},
}

func init() {
	rootCmd.AddCommand(buyCmd)

	buyCmd.Flags().StringP("mint", "m", "", "mint address to buy")
	buyCmd.Flags().Uint64P("amount", "a", 0, "lamports of wrapped SOL to spend")
	buyCmd.Flags().Uint64("min-out", 0, "minimum acceptable fill in token base units")
	buyCmd.Flags().String("pool", "", "pool id; resolved from the mint pair when empty")
	buyCmd.Flags().String("key-file", "", "solana keygen file; falls back to PRIVATE_KEY")
	buyCmd.Flags().Bool("simulate-only", false, "stop after a successful simulation")
	buyCmd.MarkFlagRequired("mint")
	buyCmd.MarkFlagRequired("amount")
}

func runBuy(cmd *cobra.Command) {
	c := loadConfig()

	mint, _ := cmd.Flags().GetString("mint")
	amount, _ := cmd.Flags().GetUint64("amount")
	minOut, _ := cmd.Flags().GetUint64("min-out")
	pool, _ := cmd.Flags().GetString("pool")
	keyFile, _ := cmd.Flags().GetString("key-file")
	simulateOnly, _ := cmd.Flags().GetBool("simulate-only")

	signer, err := wallet.Load(keyFile)
	if err != nil {
		logx.Must(err)
	}

	outputMint, err := solana.PublicKeyFromBase58(mint)
	if err != nil {
		logx.Must(err)
	}

	svcCtx := svc.NewServiceContext(c)
	ctx := context.Background()

	var amm *raydium.AmmKeys
	var market *raydium.MarketKeys
	if pool != "" {
		amm, market, err = raydium.FetchKeysByPoolID(svcCtx.Raydium, pool)
	} else {
		amm, market, err = raydium.FetchKeysByMints(svcCtx.Raydium, global.NativeMint, mint)
	}
	if err != nil {
		logx.Must(err)
	}

	order := &raydium.SwapOrder{
		InputMint:        solana.WrappedSol,
		OutputMint:       outputMint,
		AmountIn:         amount,
		MinimumAmountOut: minOut,
		Owner:            signer.PublicKey(),
	}
	instrs, err := raydium.BuildSwapInstructions(ctx, svcCtx.RpcClient, order, amm, market, c.Trade.UnitPriceMicroLamports)
	if err != nil {
		logx.Must(err)
	}

	var wsClient *ws.Client
	if !simulateOnly {
		wsClient, err = client.ConnectWS(ctx, c.Rpc.WsUrl)
		if err != nil {
			logx.Must(err)
		}
		defer wsClient.Close()
	}

	ledger := &trader.ChainLedger{
		Rpc:            svcCtx.RpcClient,
		Ws:             wsClient,
		ConfirmTimeout: time.Duration(c.Trade.ConfirmTimeoutSec) * time.Second,
	}
	sig, err := trader.New(ledger, signer, simulateOnly).Execute(ctx, instrs)
	if err != nil {
		logx.Must(err)
	}
	if simulateOnly {
		logx.Info("simulation passed, nothing submitted")
		return
	}
	logx.Infof("bought %s: %s%s", mint, global.ChainExplorerTxLink, sig)
}
