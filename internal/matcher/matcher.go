// Package matcher 在一行已终止的输入上查找并执行命令
package matcher

import (
	"github.com/TrailHuang/stint/internal/linebuf"
	"github.com/TrailHuang/stint/pkg/types"
)

// Separator 命令名与参数之间的分隔符
const Separator byte = ' '

// Match 按注册顺序查找第一个满足的命令
//
// line 必须以终止符结尾。匹配锚定在行首：候选命令在第一个不匹配的字节处即被放弃，
// 不会从行中间重新开始。返回命令下标和参数（含终止符），没有匹配时返回 -1。
func Match(commands []types.Command, line []byte) (int, []byte) {
	for idx := range commands {
		cmd := &commands[idx]
		if cmd.Handler == nil || cmd.Name == "" {
			continue
		}
		if arg, ok := matchName(cmd.Name, line); ok {
			return idx, arg
		}
	}
	return -1, nil
}

// Dispatch 查找匹配的命令并调用其处理函数，返回是否找到
func Dispatch(commands []types.Command, line []byte) bool {
	idx, arg := Match(commands, line)
	if idx < 0 {
		return false
	}
	commands[idx].Handler(arg, len(arg))
	return true
}

func matchName(name string, line []byte) ([]byte, bool) {
	matched := 0
	for i, c := range line {
		if matched < len(name) && c == name[matched] && c != linebuf.Terminator {
			matched++
			continue
		}
		if matched != len(name) {
			return nil, false
		}
		switch {
		case c == linebuf.Terminator && i == len(line)-1:
			// 命令后没有参数，只传递终止符
			return line[i:], true
		case c == linebuf.Terminator || c == Separator:
			return line[i+1:], true
		default:
			return nil, false
		}
	}
	return nil, false
}
