package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rubiane-edu/finedu-web/internal/smoke"
	"github.com/rubiane-edu/finedu-web/pkg/logger"
)

var smokeCmd = &cobra.Command{
	Use:   "smoke-copilot",
	Short: "Run the AI copilot smoke test against a live backend",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := smoke.DefaultConfig()
		cfg.BaseURL = viper.GetString("api_base_url")
		cfg.Email = viper.GetString("smoke_email")
		cfg.Password = viper.GetString("smoke_password")

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log := logger.NewWithWriter("finedu-ops", os.Stderr)
		results := smoke.New(cfg, cmd.OutOrStdout(), log).Run(ctx)
		stop()
		os.Exit(results.ExitCode())
	},
}

func init() {
	RootCmd.AddCommand(smokeCmd)
}
