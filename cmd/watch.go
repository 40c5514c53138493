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

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"github.com/zeromicro/go-zero/core/logx"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the AMM program for new pools and swaps",
	Long: `Subscribes to logs mentioning the watched AMM program, classifies
every transaction and reports pool creations and swaps. With watch rules and
a snipe amount configured it also buys target mints on sight.`,
	Run: func(cmd *cobra.Command, args []string) {
		runWatch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().String("key-file", "", "solana keygen file; falls back to PRIVATE_KEY")
	watchCmd.Flags().Bool("watch-only", false, "never trade, only report events")
}

func runWatch(cmd *cobra.Command) {
	c := loadConfig()

	watchOnly, _ := cmd.Flags().GetBool("watch-only")
	keyFile, _ := cmd.Flags().GetString("key-file")

	var signer *solana.Wallet
	if !watchOnly {
		loaded, err := wallet.Load(keyFile)
		if err != nil {
			logx.Infof("no wallet loaded (%v), running watch-only", err)
		} else {
			signer = loaded
			logx.Infof("trading as %s", signer.PublicKey())
		}
	}

	if err := config.ReloadWatchRules(c.Watch.RulesFile); err != nil {
		logx.Errorf("loading watch rules: %v", err)
	}
	go config.WatchRulesChanges(c.Watch.RulesFile)

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
