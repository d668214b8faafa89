package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/TrailHuang/stint/pkg/types"
)

// demoTable 演示用的命令表
func demoTable(w io.Writer) []types.Command {
	out := func(format string, a ...any) {
		fmt.Fprintf(w, format, a...)
	}

	return []types.Command{
		{Name: "echo", Help: "Echo arguments", Handler: func(arg []byte, n int) {
			out("%s\r\n", types.Arg(arg))
		}},
		{Name: "time", Help: "Show current time", Handler: func(arg []byte, n int) {
			out("%s\r\n", time.Now().Format(time.DateTime))
		}},
		{Name: "show", Help: "Show system information", Handler: func(arg []byte, n int) {
			switch strings.TrimSpace(types.Arg(arg)) {
			case "version":
				out("stint interpreter\r\n")
			case "buffer":
				out("argument length including terminator: %d\r\n", n)
			default:
				out("Usage: show (version|buffer)\r\n")
			}
		}},
		{Name: "ping", Help: "Send echo messages", Handler: func(arg []byte, n int) {
			target := types.Arg(arg)
			if target == "" {
				target = "127.0.0.1"
			}
			out("PING %s: 64 data bytes\r\n"+
				"64 bytes from %s: icmp_seq=0 ttl=64 time=0.1 ms\r\n"+
				"--- %s ping statistics ---\r\n"+
				"1 packets transmitted, 1 packets received, 0%% packet loss\r\n", target, target, target)
		}},
		{Name: "clear", Help: "Clear the screen", Handler: func(arg []byte, n int) {
			out("\x1b[2J\x1b[H")
		}},
	}
}
