// Command hwbot watches the review status of the latest homework submission
// and reports changes to a Telegram chat.
//
// Usage:
//
//	hwbot                      # run the notifier (same as "hwbot run")
//	hwbot check -c hwbot.yaml  # validate config and credentials, then exit
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hwbot/internal/app"
)

var (
	cfgPath string
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "hwbot",
	Short: "Homework review status notifier",
	Long: `hwbot polls the homework status API on a fixed interval and sends a
Telegram message whenever the status of the latest submission changes.

Credentials come from the environment (or a .env file):
  PRACTICUM_TOKEN   homework API OAuth token
  TELEGRAM_TOKEN    bot token
  TELEGRAM_CHAT_ID  chat to notify`,
	SilenceUsage: true,
	RunE:         runNotifier,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the notifier until interrupted",
	RunE:  runNotifier,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "./hwbot.yaml", "path to config file (yaml or json, optional)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.AddCommand(runCmd)
}

func runNotifier(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(app.Options{ConfigPath: cfgPath, EnvFile: envFile})
	if errors.Is(err, app.ErrMissingCredentials) {
		// Already logged per credential; nothing to run.
		return nil
	}
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Run(ctx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
