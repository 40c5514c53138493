/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"

	"raydium-bot/internal/client"
	"raydium-bot/internal/global"
	"raydium-bot/internal/svc"
	"raydium-bot/internal/wallet"

	"github.com/gagliardetto/solana-go/rpc/ws"
	"github.com/spf13/cobra"
	"github.com/zeromicro/go-zero/core/logx"
)

// quoteCmd represents the quote command
var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Quote a swap through the Raydium trade API",
	Long: `Fetches a swap-base-in quote from the Raydium trade API. With --swap
the API's prebuilt transaction is signed and submitted instead of building
the instruction locally.`,
	Run: func(cmd *cobra.Command, args []string) {
		runQuote(cmd)
	},
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().String("input-mint", global.NativeMint, "mint to sell")
	quoteCmd.Flags().String("output-mint", "", "mint to buy")
	quoteCmd.Flags().Uint64P("amount", "a", 0, "amount in input base units")
	quoteCmd.Flags().Bool("swap", false, "execute the quoted swap via the API transaction")
	quoteCmd.Flags().Bool("simulate-only", false, "with --swap, stop after a successful simulation")
	quoteCmd.Flags().String("key-file", "", "solana keygen file; falls back to PRIVATE_KEY")
	quoteCmd.MarkFlagRequired("output-mint")
	quoteCmd.MarkFlagRequired("amount")
}

func runQuote(cmd *cobra.Command) {
	c := loadConfig()

	inputMint, _ := cmd.Flags().GetString("input-mint")
	outputMint, _ := cmd.Flags().GetString("output-mint")
	amount, _ := cmd.Flags().GetUint64("amount")
	swap, _ := cmd.Flags().GetBool("swap")
	simulateOnly, _ := cmd.Flags().GetBool("simulate-only")
	keyFile, _ := cmd.Flags().GetString("key-file")

	svcCtx := svc.NewServiceContext(c)

	quote, _, err := svcCtx.Raydium.FetchSwapQuote(inputMint, outputMint, amount, c.Trade.SlippageBps)
	if err != nil {
		logx.Must(err)
	}
	logx.Infof("quote: %d %s -> %d %s, price impact %.4f%%",
		amount, inputMint, quote.OutputAmount(), outputMint, quote.PriceImpact())

	if !swap {
		return
	}

	signer, err := wallet.Load(keyFile)
	if err != nil {
		logx.Must(err)
	}

	ctx := context.Background()
	var wsClient *ws.Client
	if !simulateOnly {
		wsClient, err = client.ConnectWS(ctx, c.Rpc.WsUrl)
		if err != nil {
			logx.Must(err)
		}
		defer wsClient.Close()
	}

	sigs, err := svcCtx.Raydium.SwapByApi(ctx, svcCtx.RpcClient, wsClient, signer,
		inputMint, outputMint, amount, c.Trade.SlippageBps,
		int64(c.Trade.UnitPriceMicroLamports), simulateOnly)
	if err != nil {
		logx.Must(err)
	}
	if simulateOnly {
		logx.Info("simulation passed, nothing submitted")
		return
	}
	for _, sig := range sigs {
		logx.Infof("swapped: %s%s", global.ChainExplorerTxLink, sig)
	}
}
