package session

import (
	"fmt"

	"github.com/TrailHuang/stint/pkg/types"
)

// builtinCommands 每个会话都有的内置命令，排在用户命令之后
func (s *Session) builtinCommands() []types.Command {
	return []types.Command{
		{Name: "help", Handler: s.helpHandler, Help: "Show available commands"},
		{Name: "?", Handler: s.helpHandler, Help: "Show available commands"},
		{Name: "history", Handler: s.historyHandler, Help: "Show command history"},
		{Name: "exit", Handler: s.exitHandler, Help: "Exit the session"},
		{Name: "quit", Handler: s.exitHandler, Help: "Exit the session"},
	}
}

func (s *Session) helpHandler(arg []byte, n int) {
	s.writeString("Available commands:\r\n")
	for _, cmd := range s.interp.Commands() {
		if cmd.Handler == nil || cmd.Name == "" {
			continue
		}
		s.writeString(fmt.Sprintf("  %-10s - %s\r\n", cmd.Name, cmd.Help))
	}
}

func (s *Session) historyHandler(arg []byte, n int) {
	for i, e := range s.history.All() {
		s.writeString(fmt.Sprintf("%d: %s\r\n", i+1, e.Line()))
	}
}

func (s *Session) exitHandler(arg []byte, n int) {
	s.writeString("Goodbye!\r\n")
	s.closing = true
}
