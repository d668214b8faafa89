package session

import (
	"sort"
	"strings"

	"github.com/TrailHuang/stint/pkg/types"
)

// CommandCompleter 按命令名前缀补全
type CommandCompleter struct {
	names []string
}

// NewCommandCompleter 从命令表创建补全器，跳过没有处理函数的项
func NewCommandCompleter(commands []types.Command) *CommandCompleter {
	seen := make(map[string]bool, len(commands))
	names := make([]string, 0, len(commands))
	for _, cmd := range commands {
		if cmd.Handler == nil || cmd.Name == "" || seen[cmd.Name] {
			continue
		}
		seen[cmd.Name] = true
		names = append(names, cmd.Name)
	}
	sort.Strings(names)
	return &CommandCompleter{names: names}
}

// Complete 返回以 input 为前缀的命令名；input 已包含参数时不补全
func (c *CommandCompleter) Complete(input string) []string {
	if strings.ContainsRune(input, ' ') {
		return nil
	}

	var matches []string
	for _, name := range c.names {
		if strings.HasPrefix(name, input) {
			matches = append(matches, name)
		}
	}
	return matches
}
