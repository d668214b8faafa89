package main

import (
	"github.com/spf13/cobra"

	"github.com/TrailHuang/stint/internal/cmdline"
	"github.com/TrailHuang/stint/pkg/log"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo command table over telnet",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := log.FromCtx(ctx)

			if cmd.Flags().Changed("host") {
				a.cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				a.cfg.Port = port
			}
			rt, err := a.cfg.Types()
			if err != nil {
				return err
			}

			cl := cmdline.NewCmdLine(rt, demoTable)
			if err := cl.Start(ctx); err != nil {
				return err
			}
			logger.Info().Msgf("connect with: telnet %s", cl.Addr())

			<-ctx.Done()
			logger.Info().Msg("shutting down")
			return cl.Stop()
		},
	}

	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "listen host")
	cmd.Flags().IntVarP(&port, "port", "p", 2323, "listen port")
	return cmd
}
