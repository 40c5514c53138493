/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"raydium-bot/internal/config"
	"raydium-bot/internal/monitor"
	"raydium-bot/internal/svc"
	"raydium-bot/internal/wallet"

	"github.com/spf13/cobra"
	"github.com/zeromicro/go-zero/core/logx"
)

// snipeCmd represents the snipe command
var snipeCmd = &cobra.Command{
	Use:   "snipe",
	Short: "Buy a target mint the instant its pool is created",
	Long: `Watches the AMM program and buys the given mint(s) with wrapped SOL
as soon as a pool pairing them appears. The process keeps running until
interrupted, sniping each target at most once.`,
	Run: func(cmd *cobra.Command, args []string) {
		runSnipe(cmd)
	},
}

func init() {
	rootCmd.AddCommand(snipeCmd)

	snipeCmd.Flags().StringSliceP("target", "t", nil, "mint address(es) to snipe")
	snipeCmd.Flags().Uint64P("amount", "a", 0, "lamports to spend per snipe")
	snipeCmd.Flags().String("key-file", "", "solana keygen file; falls back to PRIVATE_KEY")
	snipeCmd.Flags().Bool("simulate-only", false, "stop each snipe after a successful simulation")
	snipeCmd.MarkFlagRequired("target")
	snipeCmd.MarkFlagRequired("amount")
}

func runSnipe(cmd *cobra.Command) {
	c := loadConfig()

	targets, _ := cmd.Flags().GetStringSlice("target")
	amount, _ := cmd.Flags().GetUint64("amount")
	keyFile, _ := cmd.Flags().GetString("key-file")
	simulateOnly, _ := cmd.Flags().GetBool("simulate-only")

	signer, err := wallet.Load(keyFile)
	if err != nil {
		logx.Must(err)
	}
	logx.Infof("sniping %v with %d lamports each as %s", targets, amount, signer.PublicKey())

	c.Trade.SnipeLamports = amount
	c.Trade.SimulateOnly = simulateOnly
	config.SetWatchRules(config.WatchRules{Targets: targets})

	m, err := monitor.NewRaydiumMonitor(svc.NewServiceContext(c), signer)
	if err != nil {
		logx.Must(err)
	}
	monitor.Monitor = m
	m.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logx.Info("shutting down")
	m.Stop()
}
