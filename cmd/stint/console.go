package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/TrailHuang/stint/internal/session"
)

type stdio struct {
	io.Reader
	io.Writer
}

func newConsoleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Run an interactive session on this terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			fd := int(os.Stdin.Fd())
			if !term.IsTerminal(fd) {
				return errors.New("console needs a terminal on stdin, use feed for pipes")
			}

			rt, err := a.cfg.Types()
			if err != nil {
				return err
			}
			// 终端没有空闲超时
			rt.IdleTimeout = 0

			state, err := term.MakeRaw(fd)
			if err != nil {
				return fmt.Errorf("failed to enter raw mode: %w", err)
			}
			defer term.Restore(fd, state)

			s, err := session.NewSession(stdio{Reader: os.Stdin, Writer: os.Stdout}, rt, demoTable)
			if err != nil {
				return err
			}
			err = s.Handle(cmd.Context())
			fmt.Fprint(os.Stdout, "\r\n")
			return err
		},
	}
}
