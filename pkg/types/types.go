// Package types 定义 stint 库的公共类型
package types

import (
	"errors"
	"io"
	"time"
)

// Handler 命令处理函数类型
//
// arg 为命令名之后的剩余内容（含结尾的 0 终止符），n == len(arg)。
// arg 直接引用解释器的行缓冲区，只在本次调用期间有效。
type Handler func(arg []byte, n int)

// Command 命令表项
type Command struct {
	Name    string  // 命令名，按字面前缀匹配
	Handler Handler // 为 nil 时该项被跳过
	Help    string  // 帮助文本，解释器本身不使用
}

// CommandTable 为一个会话生成命令表，处理函数的输出写入 w
type CommandTable func(w io.Writer) []Command

// Result 单字节输入的处理结果
type Result int

const (
	NoMatch     Result = -4 // 行结束但没有匹配的命令
	BufferEmpty Result = -3 // 行结束时缓冲区为空
	BufferFull  Result = -2 // 缓冲区已满，字节被丢弃
	Error       Result = -1 // 不支持的调用（例如处理函数内重入）
	Success     Result = 0
)

var (
	ErrNoMatch     = errors.New("no matching command")
	ErrBufferEmpty = errors.New("input buffer empty")
	ErrBufferFull  = errors.New("input buffer full")
	ErrReentrant   = errors.New("interpreter re-entered from handler")
)

func (r Result) String() string {
	switch r {
	case Success:
		return "success"
	case Error:
		return "error"
	case BufferFull:
		return "buffer full"
	case BufferEmpty:
		return "buffer empty"
	case NoMatch:
		return "no match"
	default:
		return "unknown"
	}
}

// Err 将结果转换为对应的哨兵错误，Success 返回 nil
func (r Result) Err() error {
	switch r {
	case Success:
		return nil
	case NoMatch:
		return ErrNoMatch
	case BufferEmpty:
		return ErrBufferEmpty
	case BufferFull:
		return ErrBufferFull
	default:
		return ErrReentrant
	}
}

// LineEnding 行结束策略
type LineEnding int

const (
	LineEndingNormalize LineEnding = iota // '\r' '\n' 0 均结束一行，连续的结束符合并
	LineEndingFixed                       // 仅单个可配置的分隔符结束一行，不合并
)

func (l LineEnding) String() string {
	switch l {
	case LineEndingNormalize:
		return "normalize"
	case LineEndingFixed:
		return "fixed"
	default:
		return "unknown"
	}
}

// Config 命令行服务配置
type Config struct {
	Host          string
	Port          int
	Prompt        string
	WelcomeMsg    string
	BufferSize    int
	LineEnding    LineEnding
	Delimiter     byte
	AutoBackspace bool
	MaxHistory    int
	IdleTimeout   time.Duration
}

// Arg 返回去掉结尾终止符的参数字符串
func Arg(arg []byte) string {
	if n := len(arg); n > 0 && arg[n-1] == 0 {
		arg = arg[:n-1]
	}
	return string(arg)
}
