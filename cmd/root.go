/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"raydium-bot/internal/config"
	"raydium-bot/internal/global"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "raydium-bot",
	Version: global.Version,
	Short:   "Raydium V4 pool watcher and swap bot",
	Long: `raydium-bot watches the Raydium Liquidity Pool V4 program for new
pools and swaps, and can build, simulate and submit swap transactions
either locally or through the Raydium trade API.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "f", "etc/raydium-bot.yaml", "config file")
}

// loadConfig reads .env and the yaml config, then wires logging and prints
// the banner. Every subcommand calls it first.
func loadConfig() config.Config {
	godotenv.Load()

	var c config.Config
	conf.MustLoad(cfgFile, &c)
	config.C = c

	logx.MustSetup(c.Log.LogConf)

	figure.NewColorFigure(c.Banner.Text, c.Banner.FontName, c.Banner.Color, false).Print()

	return c
}
