// Package interp 实现逐字节输入的命令解释器
//
// 解释器借用调用者提供的命令表和行缓冲区，在整个生命周期内既不复制也不释放它们，
// 调用者必须保证两者的生命周期不短于解释器。构造之后 Ingest 不再分配内存。
// 解释器不是并发安全的，命令处理函数执行期间也不能重入。
package interp

import (
	"errors"
	"fmt"

	"github.com/TrailHuang/stint/internal/linebuf"
	"github.com/TrailHuang/stint/internal/matcher"
	"github.com/TrailHuang/stint/pkg/types"
)

const (
	// DefaultDelimiter 固定分隔符模式下的默认行结束符
	DefaultDelimiter byte = '\n'
	// Backspace 启用自动退格时被拦截的字节
	Backspace byte = 0x08
)

var (
	ErrNilCommands    = errors.New("command table is nil")
	ErrBufferTooSmall = errors.New("line buffer must hold at least 2 bytes")
)

// Interpreter 命令解释器
type Interpreter struct {
	commands []types.Command
	buf      *linebuf.Buffer

	ending        types.LineEnding
	delim         byte
	autoBackspace bool

	afterLineEnd bool // 上一个字节是行结束符，用于合并连续的结束符
	dispatching  bool
}

// Option 解释器配置项
type Option func(*Interpreter)

// WithLineDelimiter 使用固定的单字节分隔符
func WithLineDelimiter(c byte) Option {
	return func(in *Interpreter) { in.SetLineDelimiter(c) }
}

// WithNormalizedLineEndings 使用 '\r' '\n' 0 合并模式（默认）
func WithNormalizedLineEndings() Option {
	return func(in *Interpreter) { in.SetNormalizedLineEndings() }
}

// WithAutoBackspace 设置是否自动处理退格字节
func WithAutoBackspace(enabled bool) Option {
	return func(in *Interpreter) { in.SetAutoBackspace(enabled) }
}

// New 在调用者提供的命令表和缓冲区上创建解释器
//
// buf 的最后一个字节保留给终止符，可用容量为 len(buf)-1。
func New(commands []types.Command, buf []byte, opts ...Option) (*Interpreter, error) {
	if commands == nil {
		return nil, fmt.Errorf("new interpreter: %w", ErrNilCommands)
	}
	if len(buf) < 2 {
		return nil, fmt.Errorf("new interpreter: %w (got %d)", ErrBufferTooSmall, len(buf))
	}

	in := &Interpreter{
		commands: commands,
		buf:      linebuf.New(buf),
		ending:   types.LineEndingNormalize,
		delim:    DefaultDelimiter,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in, nil
}

// Ingest 处理一个输入字节
//
// 普通字节存入缓冲区；行结束时执行匹配的命令并清空缓冲区，无论是否匹配。
func (in *Interpreter) Ingest(c byte) types.Result {
	if in.dispatching {
		return types.Error
	}

	if in.autoBackspace && c == Backspace {
		in.buf.DeleteLast()
		return types.Success
	}

	if in.IsLineEnd(c) {
		if in.ending == types.LineEndingNormalize {
			if in.afterLineEnd {
				return types.Success
			}
			in.afterLineEnd = true
		}
		return in.completeLine()
	}

	in.afterLineEnd = false
	if !in.buf.Append(c) {
		return types.BufferFull
	}
	return types.Success
}

// IsLineEnd 按当前策略判断 c 是否为行结束符
func (in *Interpreter) IsLineEnd(c byte) bool {
	if in.ending == types.LineEndingFixed {
		return c == in.delim
	}
	return c == '\r' || c == '\n' || c == 0
}

func (in *Interpreter) completeLine() types.Result {
	if in.buf.Len() == 0 {
		return types.BufferEmpty
	}
	defer in.buf.Clear()

	if !in.dispatch(in.buf.Terminate()) {
		return types.NoMatch
	}
	return types.Success
}

func (in *Interpreter) dispatch(line []byte) bool {
	in.dispatching = true
	defer func() { in.dispatching = false }()
	return matcher.Dispatch(in.commands, line)
}

// DeleteLastChar 删除最后一个输入字节，缓冲区为空时什么也不做
func (in *Interpreter) DeleteLastChar() { in.buf.DeleteLast() }

// ClearBuffer 清空输入缓冲区
func (in *Interpreter) ClearBuffer() {
	in.buf.Clear()
	in.afterLineEnd = false
}

// FillLevel 缓冲区中的字节数
func (in *Interpreter) FillLevel() int { return in.buf.Len() }

// Line 当前尚未结束的一行，返回的切片在下一次 Ingest 前有效
func (in *Interpreter) Line() []byte { return in.buf.Bytes() }

// Commands 返回命令表（只读）
func (in *Interpreter) Commands() []types.Command { return in.commands }

// CommandCount 命令表中的命令数
func (in *Interpreter) CommandCount() int { return len(in.commands) }

// SetAutoBackspace 设置是否自动处理退格字节
func (in *Interpreter) SetAutoBackspace(enabled bool) { in.autoBackspace = enabled }

// AutoBackspace 是否自动处理退格字节
func (in *Interpreter) AutoBackspace() bool { return in.autoBackspace }

// SetLineDelimiter 切换到固定分隔符模式，只有 c 结束一行
func (in *Interpreter) SetLineDelimiter(c byte) {
	in.ending = types.LineEndingFixed
	in.delim = c
	in.afterLineEnd = false
}

// SetNormalizedLineEndings 切换到 '\r' '\n' 0 合并模式
func (in *Interpreter) SetNormalizedLineEndings() {
	in.ending = types.LineEndingNormalize
	in.afterLineEnd = false
}

// LineEnding 当前的行结束策略
func (in *Interpreter) LineEnding() types.LineEnding { return in.ending }

// Delimiter 固定分隔符模式下使用的分隔符
func (in *Interpreter) Delimiter() byte { return in.delim }
