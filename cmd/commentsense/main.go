package main

import (
	"fmt"
	"os"

	"github.com/spacesedan/commentsense/config"
	"github.com/spacesedan/commentsense/internal/logging"
	"github.com/spf13/cobra"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	cfg := config.Load(env)
	logging.InitLogger(cfg.LogLevel)

	if err := rootCmd(cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd(cfg config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "commentsense",
		Short:         "YouTube comment sentiment analysis with age-banded recommendations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(analyzeCmd(cfg))
	root.AddCommand(registerCmd(cfg))
	root.AddCommand(loginCmd(cfg))
	root.AddCommand(logoutCmd(cfg))
	root.AddCommand(whoamiCmd(cfg))
	root.AddCommand(healthCmd(cfg))

	return root
}
