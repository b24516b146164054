package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"hwbot/internal/config"
	"hwbot/internal/homework"
	"hwbot/internal/poller"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate config and credentials without polling",
	Long: `Load the config file and environment exactly like "run" does, report
missing credentials and show when the next cycle would start.

Exit codes:
  0 - ready to run
  1 - config invalid or credentials missing`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}
	cfg, err := config.NewManager(cfgPath).Parse()
	if err != nil {
		return err
	}
	sched, err := poller.ParseRetryPeriod(cfg.Poller.RetryPeriod)
	if err != nil {
		return fmt.Errorf("poller.retry_period: %w", err)
	}

	out := cmd.OutOrStdout()
	now := time.Now()
	fmt.Fprintf(out, "config:        %s\n", cfgPath)
	fmt.Fprintf(out, "retry period:  %q (next cycle after one now: %s)\n", cfg.Poller.RetryPeriod, sched.Next(now).Sub(now).Round(time.Second))
	fmt.Fprintf(out, "known statuses: %s\n", strings.Join(homework.Statuses(), ", "))

	creds := cfg.Credentials()
	if missing := creds.Missing(); len(missing) > 0 {
		return fmt.Errorf("missing credentials: %s", strings.Join(missing, ", "))
	}
	fmt.Fprintln(out, "credentials:   ok")
	return nil
}
