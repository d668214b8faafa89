// Package history 记录会话中已执行的命令
package history

import (
	"sync"
	"time"
)

// Entry 一条已执行的命令
type Entry struct {
	Command string
	Arg     string
	At      time.Time
}

// Line 还原为输入时的命令行
func (e Entry) Line() string {
	if e.Arg == "" {
		return e.Command
	}
	return e.Command + " " + e.Arg
}

// CommandHistory 定长命令历史，超过容量时丢弃最旧的记录
type CommandHistory struct {
	mu      sync.RWMutex
	entries []Entry
	maxSize int
	now     func() time.Time
}

// NewCommandHistory 创建命令历史，maxSize <= 0 时不记录
func NewCommandHistory(maxSize int) *CommandHistory {
	if maxSize < 0 {
		maxSize = 0
	}
	return &CommandHistory{
		entries: make([]Entry, 0, maxSize),
		maxSize: maxSize,
		now:     time.Now,
	}
}

// Add 记录一条命令，与上一条相同时忽略
func (h *CommandHistory) Add(command, arg string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.maxSize == 0 {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1].Command == command && h.entries[n-1].Arg == arg {
		return
	}

	if len(h.entries) >= h.maxSize {
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:len(h.entries)-1]
	}
	h.entries = append(h.entries, Entry{Command: command, Arg: arg, At: h.now()})
}

// Get 按下标取记录，越界时返回零值和 false
func (h *CommandHistory) Get(index int) (Entry, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if index < 0 || index >= len(h.entries) {
		return Entry{}, false
	}
	return h.entries[index], true
}

// All 返回全部记录的副本，按时间从旧到新
func (h *CommandHistory) All() []Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make([]Entry, len(h.entries))
	copy(result, h.entries)
	return result
}

// Len 记录数
func (h *CommandHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}
