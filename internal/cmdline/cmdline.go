package cmdline

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"

	"github.com/TrailHuang/stint/internal/config"
	"github.com/TrailHuang/stint/internal/server"
	"github.com/TrailHuang/stint/pkg/log"
	"github.com/TrailHuang/stint/pkg/types"
)

// CmdLine 命令行服务：配置、命令表和telnet服务器
type CmdLine struct {
	config    *types.Config
	table     types.CommandTable
	mu        sync.RWMutex
	server    *server.TelnetServer
	isRunning bool
}

// NewCmdLine 创建新的命令行服务，config 为 nil 时使用默认配置
func NewCmdLine(cfg *types.Config, table types.CommandTable) *CmdLine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &CmdLine{
		config: cfg,
		table:  table,
	}
}

// DefaultConfig 返回默认配置
func DefaultConfig() *types.Config {
	cfg, err := config.Default().Types()
	if err != nil {
		// 默认配置总是合法的
		panic(err)
	}
	return cfg
}

// SetConfig 在启动前修改配置项
func (c *CmdLine) SetConfig(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		return fmt.Errorf("cannot change %s while running", key)
	}

	switch key {
	case "prompt":
		c.config.Prompt = value
	case "welcome":
		c.config.WelcomeMsg = value
	case "host":
		c.config.Host = value
	case "port", "maxhistory", "buffersize":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, value, err)
		}
		switch key {
		case "port":
			c.config.Port = n
		case "maxhistory":
			c.config.MaxHistory = n
		case "buffersize":
			if n < 2 {
				return fmt.Errorf("buffersize must be at least 2, got %d", n)
			}
			c.config.BufferSize = n
		}
	case "autobackspace":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, value, err)
		}
		c.config.AutoBackspace = b
	case "lineending":
		le, err := config.ParseLineEnding(value)
		if err != nil {
			return err
		}
		c.config.LineEnding = le
	case "delimiter":
		d, err := config.ParseDelimiter(value)
		if err != nil {
			return err
		}
		c.config.Delimiter = d
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	return nil
}

// Config 返回当前配置
func (c *CmdLine) Config() types.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return *c.config
}

// Start 启动命令行服务
func (c *CmdLine) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		return fmt.Errorf("cmdline is already running")
	}

	logger := log.FromCtx(ctx)
	logger.Debug().
		Int("buffer_size", c.config.BufferSize).
		Stringer("line_ending", c.config.LineEnding).
		Bool("auto_backspace", c.config.AutoBackspace).
		Msg("starting command line")

	srv := server.NewTelnetServer(ctx, c.config, c.table)
	if err := srv.Start(); err != nil {
		return err
	}

	c.server = srv
	c.isRunning = true
	return nil
}

// Addr 服务监听地址，未运行时返回 nil
func (c *CmdLine) Addr() net.Addr {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.server == nil {
		return nil
	}
	return c.server.Addr()
}

// Stop 停止命令行服务
func (c *CmdLine) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		return fmt.Errorf("cmdline is not running")
	}

	c.server.Stop()
	c.server = nil
	c.isRunning = false
	return nil
}
