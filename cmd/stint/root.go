package main

import (
	"github.com/spf13/cobra"

	"github.com/TrailHuang/stint/internal/config"
	"github.com/TrailHuang/stint/pkg/log"
)

// app 各子命令共享的状态
type app struct {
	configPath string
	envFile    string
	debug      bool

	cfg   *config.Config
	flush func()
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "stint",
		Short:         "Streaming single-character command interpreter",
		Long:          `stint feeds input byte by byte into a fixed-size line buffer and dispatches completed lines to a static command table.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath, a.envFile)
			if err != nil {
				return err
			}
			a.cfg = cfg

			ctx, flush := log.NewContextWithLogger(cmd.Context(), a.debug || cfg.Debug)
			a.flush = flush
			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.flush != nil {
				a.flush()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "TOML config file")
	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file with STINT_ variables")
	rootCmd.PersistentFlags().BoolVarP(&a.debug, "debug", "d", false, "enable debug logging")

	rootCmd.AddCommand(
		newServeCmd(a),
		newConsoleCmd(a),
		newFeedCmd(a),
	)
	return rootCmd
}
