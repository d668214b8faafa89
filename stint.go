// Package stint 提供一个逐字节输入的命令解释器，适用于内存受限的环境
//
// 解释器在调用者提供的定长缓冲区中累积输入，一行结束后按注册顺序匹配命令表，
// 并以行中剩余的内容作为参数调用命令处理函数。同时提供基于该解释器的 telnet 命令行服务。
package stint

import (
	"github.com/TrailHuang/stint/internal/cmdline"
	"github.com/TrailHuang/stint/internal/interp"
	"github.com/TrailHuang/stint/pkg/types"
)

// Command 命令表项
type Command = types.Command

// Handler 命令处理函数类型
type Handler = types.Handler

// CommandTable 为每个会话生成命令表
type CommandTable = types.CommandTable

// Result 单字节输入的处理结果
type Result = types.Result

// Config 命令行服务配置
type Config = types.Config

// Interpreter 命令解释器
type Interpreter = interp.Interpreter

// Option 解释器配置项
type Option = interp.Option

const (
	Success     = types.Success
	Error       = types.Error
	BufferFull  = types.BufferFull
	BufferEmpty = types.BufferEmpty
	NoMatch     = types.NoMatch

	LineEndingNormalize = types.LineEndingNormalize
	LineEndingFixed     = types.LineEndingFixed

	Backspace = interp.Backspace
)

var (
	WithLineDelimiter         = interp.WithLineDelimiter
	WithNormalizedLineEndings = interp.WithNormalizedLineEndings
	WithAutoBackspace         = interp.WithAutoBackspace

	ErrNilCommands    = interp.ErrNilCommands
	ErrBufferTooSmall = interp.ErrBufferTooSmall
)

// New 在调用者提供的命令表和缓冲区上创建解释器，两者由调用者持有
func New(commands []Command, buf []byte, opts ...Option) (*Interpreter, error) {
	return interp.New(commands, buf, opts...)
}

// Arg 返回去掉结尾终止符的参数字符串
func Arg(arg []byte) string {
	return types.Arg(arg)
}

// CmdLine 基于解释器的telnet命令行服务
type CmdLine struct {
	*cmdline.CmdLine
}

// NewCmdLine 创建新的命令行服务
func NewCmdLine(config *Config, table CommandTable) *CmdLine {
	return &CmdLine{
		CmdLine: cmdline.NewCmdLine(config, table),
	}
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return cmdline.DefaultConfig()
}
