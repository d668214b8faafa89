// Package session 在一个连接（或终端）上逐字节驱动命令解释器
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/TrailHuang/stint/internal/history"
	"github.com/TrailHuang/stint/internal/interp"
	"github.com/TrailHuang/stint/pkg/log"
	"github.com/TrailHuang/stint/pkg/types"
)

const (
	ctrlC  byte = 0x03
	ctrlD  byte = 0x04
	bell   byte = 0x07
	tab    byte = 0x09
	escape byte = 0x1B
	del    byte = 0x7F
)

// escape 序列解析状态
const (
	escNone = iota
	escStart
	escCSI
)

type deadliner interface {
	SetReadDeadline(t time.Time) error
}

// Session 一个命令行会话，每个会话拥有独立的行缓冲区和解释器
type Session struct {
	rw        io.ReadWriter
	config    *types.Config
	interp    *interp.Interpreter
	history   *history.CommandHistory
	completer *CommandCompleter
	logger    *zerolog.Logger

	telnet   bool
	filter   telnetFilter
	escState int
	histIdx  int

	mu         sync.RWMutex
	lastActive time.Time
	isClosed   bool
	closing    bool
}

// Option 会话配置项
type Option func(*Session)

// WithTelnet 启用 telnet 字符模式协商并过滤 telnet 命令序列
func WithTelnet() Option {
	return func(s *Session) { s.telnet = true }
}

// NewSession 创建会话
//
// table 生成的用户命令排在内置命令之前，同名时用户命令优先。
func NewSession(rw io.ReadWriter, config *types.Config, table types.CommandTable, opts ...Option) (*Session, error) {
	nop := zerolog.Nop()
	s := &Session{
		rw:         rw,
		config:     config,
		history:    history.NewCommandHistory(config.MaxHistory),
		logger:     &nop,
		histIdx:    -1,
		lastActive: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}

	var commands []types.Command
	if table != nil {
		commands = append(commands, table(s)...)
	}
	commands = append(commands, s.builtinCommands()...)
	for i := range commands {
		commands[i] = s.recordHistory(commands[i])
	}

	in, err := interp.New(commands, make([]byte, config.BufferSize), InterpOptions(config)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.interp = in
	s.completer = NewCommandCompleter(commands)
	return s, nil
}

// InterpOptions 将运行时配置转换为解释器配置项
func InterpOptions(config *types.Config) []interp.Option {
	opts := []interp.Option{interp.WithAutoBackspace(config.AutoBackspace)}
	if config.LineEnding == types.LineEndingFixed {
		opts = append(opts, interp.WithLineDelimiter(config.Delimiter))
	}
	return opts
}

func (s *Session) recordHistory(cmd types.Command) types.Command {
	handler := cmd.Handler
	if handler == nil {
		return cmd
	}
	name := cmd.Name
	cmd.Handler = func(arg []byte, n int) {
		s.history.Add(name, types.Arg(arg))
		s.logger.Debug().Str("command", name).Int("arg_len", n).Msg("dispatching command")
		handler(arg, n)
	}
	return cmd
}

// Handle 处理会话直到客户端退出、连接断开或 ctx 取消
func (s *Session) Handle(ctx context.Context) error {
	s.logger = log.FromCtx(ctx)

	if s.telnet {
		s.writeBytes(characterMode)
	}
	s.writeString(s.config.WelcomeMsg)
	s.showPrompt()

	data := make([]byte, 1024)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if d, ok := s.rw.(deadliner); ok && s.config.IdleTimeout > 0 {
			_ = d.SetReadDeadline(time.Now().Add(s.config.IdleTimeout))
		}

		n, err := s.rw.Read(data)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			var netErr net.Error
			if errors.Is(err, os.ErrDeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
				s.writeString("\r\nSession timed out\r\n")
				return nil
			}
			return err
		}

		s.mu.Lock()
		s.lastActive = time.Now()
		s.mu.Unlock()

		for i := 0; i < n; i++ {
			if s.telnet && !s.filter.filter(data[i]) {
				continue
			}
			if done := s.handleByte(data[i]); done {
				return nil
			}
		}
	}
}

// handleByte 处理一个数据字节，返回会话是否结束
func (s *Session) handleByte(b byte) bool {
	if s.escState != escNone {
		s.handleEscape(b)
		return false
	}

	switch b {
	case ctrlC, ctrlD:
		return true
	case escape:
		s.escState = escStart
		return false
	case tab:
		s.complete()
		return false
	case del:
		if s.interp.AutoBackspace() {
			b = interp.Backspace
		}
	}

	if b == interp.Backspace && s.interp.AutoBackspace() {
		if s.interp.FillLevel() > 0 {
			s.writeString("\b \b")
		}
		s.interp.Ingest(b)
		return false
	}

	if s.interp.IsLineEnd(b) {
		return s.endLine(b)
	}

	if s.interp.Ingest(b) == types.BufferFull {
		s.writeBytes([]byte{bell})
		return false
	}
	if b >= 0x20 && b <= 0x7E {
		s.writeBytes([]byte{b})
	}
	return false
}

func (s *Session) endLine(b byte) bool {
	pending := s.interp.FillLevel() > 0
	var word string
	if pending {
		word, _, _ = strings.Cut(string(s.interp.Line()), " ")
		s.writeString("\r\n")
	}

	switch s.interp.Ingest(b) {
	case types.NoMatch:
		s.writeString(fmt.Sprintf("Unknown command: %s\r\n", word))
		s.writeString("Type 'help' for available commands\r\n")
	case types.BufferEmpty:
		s.writeString("\r\n")
	case types.Success:
		if !pending {
			// 同一串行结束符中的后续字节
			return false
		}
	}

	s.histIdx = -1
	if s.closing {
		return true
	}
	s.showPrompt()
	return false
}

// handleEscape 处理 ESC [ A / ESC [ B 历史翻页，其它序列丢弃
func (s *Session) handleEscape(b byte) {
	switch s.escState {
	case escStart:
		if b == '[' {
			s.escState = escCSI
			return
		}
	case escCSI:
		switch b {
		case 'A':
			s.historyPrevious()
		case 'B':
			s.historyNext()
		}
	}
	s.escState = escNone
}

func (s *Session) historyPrevious() {
	n := s.history.Len()
	if n == 0 {
		return
	}
	if s.histIdx < 0 {
		s.histIdx = n - 1
	} else if s.histIdx > 0 {
		s.histIdx--
	}
	if e, ok := s.history.Get(s.histIdx); ok {
		s.replaceLine(e.Line())
	}
}

func (s *Session) historyNext() {
	if s.histIdx < 0 {
		return
	}
	if s.histIdx < s.history.Len()-1 {
		s.histIdx++
		if e, ok := s.history.Get(s.histIdx); ok {
			s.replaceLine(e.Line())
		}
		return
	}
	s.histIdx = -1
	s.replaceLine("")
}

// replaceLine 用 line 替换当前输入，超出缓冲区的部分被截断
func (s *Session) replaceLine(line string) {
	s.interp.ClearBuffer()
	for i := 0; i < len(line); i++ {
		if s.interp.Ingest(line[i]) != types.Success {
			break
		}
	}
	s.redrawLine()
}

func (s *Session) complete() {
	current := string(s.interp.Line())
	completions := s.completer.Complete(current)

	switch len(completions) {
	case 0:
		s.writeBytes([]byte{bell})
	case 1:
		rest := completions[0][len(current):]
		for i := 0; i < len(rest); i++ {
			if s.interp.Ingest(rest[i]) != types.Success {
				break
			}
		}
		s.redrawLine()
	default:
		s.writeString("\r\n")
		for _, c := range completions {
			s.writeString(c + "\r\n")
		}
		s.redrawLine()
	}
}

func (s *Session) redrawLine() {
	s.writeString("\r\x1b[K")
	s.writeString(s.config.Prompt)
	s.writeBytes(s.interp.Line())
}

func (s *Session) showPrompt() {
	s.writeString(s.config.Prompt)
}

// Write 实现 io.Writer，命令处理函数通过它输出
func (s *Session) Write(p []byte) (int, error) {
	return s.rw.Write(p)
}

func (s *Session) writeString(str string) {
	_, _ = io.WriteString(s.rw, str)
}

func (s *Session) writeBytes(p []byte) {
	_, _ = s.rw.Write(p)
}

// History 会话的命令历史
func (s *Session) History() *history.CommandHistory {
	return s.history
}

// LastActive 最近一次收到输入的时间
func (s *Session) LastActive() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActive
}

// Close 关闭底层连接（如果可以关闭）
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isClosed {
		return nil
	}
	s.isClosed = true
	if c, ok := s.rw.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
