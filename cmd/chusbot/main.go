// Package main contains the entrypoint for the chusbot Telegram relay.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// version is reported in the session bot info; set with -ldflags "-X main.version=...".
var version = "1.0.0"

var (
	configPath string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:   "chusbot",
	Short: "Telegram bot that relays messages to a local Ollama model",
	Long: `chusbot answers Telegram messages with a local language model served by
Ollama, using a selectable persona, and records every exchange in rotated
JSON Lines log files.

Running without a subcommand starts the bot.`,
	Version:       version,
	SilenceUsage:  true,
	RunE:          runBot,
	Args:          cobra.NoArgs,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file (default ./config.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a .env file loaded before reading the environment")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
