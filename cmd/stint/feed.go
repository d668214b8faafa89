package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/TrailHuang/stint/internal/interp"
	"github.com/TrailHuang/stint/internal/session"
	"github.com/TrailHuang/stint/pkg/log"
	"github.com/TrailHuang/stint/pkg/types"
)

func newFeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "feed [file]",
		Short: "Stream a file (or stdin) through the interpreter byte by byte",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			rt, err := a.cfg.Types()
			if err != nil {
				return err
			}

			n, err := feed(cmd, rt, r)
			if err != nil {
				return err
			}
			if n > 0 {
				return fmt.Errorf("%d line(s) failed", n)
			}
			return nil
		},
	}
}

// feed 逐字节输入并报告失败的行，返回失败行数
//
// 超长的行在缓冲区满时被整行丢弃，而不是截断后执行。
func feed(cmd *cobra.Command, rt *types.Config, r io.Reader) (int, error) {
	logger := log.FromCtx(cmd.Context())
	errOut := cmd.ErrOrStderr()

	in, err := interp.New(demoTable(cmd.OutOrStdout()), make([]byte, rt.BufferSize), session.InterpOptions(rt)...)
	if err != nil {
		return 0, err
	}

	br := bufio.NewReader(r)
	line, failed := 1, 0
	discarding := false
	for {
		c, err := br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return failed, err
		}

		switch {
		case discarding:
			discarding = !in.IsLineEnd(c)
		default:
			switch res := in.Ingest(c); res {
			case types.NoMatch:
				failed++
				fmt.Fprintf(errOut, "line %d: %s\n", line, res)
			case types.BufferFull:
				failed++
				fmt.Fprintf(errOut, "line %d: %s\n", line, res)
				in.ClearBuffer()
				discarding = true
			}
		}
		if endsLine(in, c) {
			line++
		}
	}

	if in.FillLevel() > 0 {
		logger.Debug().Int("pending", in.FillLevel()).Msg("flushing unterminated last line")
		end := byte('\n')
		if in.LineEnding() == types.LineEndingFixed {
			end = in.Delimiter()
		}
		if res := in.Ingest(end); res == types.NoMatch {
			failed++
			fmt.Fprintf(errOut, "line %d: %s\n", line, res)
		}
	}
	return failed, nil
}

// endsLine 判断 c 是否推进输入的行号：固定模式按分隔符计数，否则按 '\n' 计数
func endsLine(in *interp.Interpreter, c byte) bool {
	if in.LineEnding() == types.LineEndingFixed {
		return c == in.Delimiter()
	}
	return c == '\n'
}
