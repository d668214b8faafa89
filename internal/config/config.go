// Package config 加载命令行服务的配置
//
// 配置来源依次为：默认值、TOML 文件、.env 文件、STINT_ 前缀的环境变量，后者覆盖前者。
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/TrailHuang/stint/pkg/types"
)

// EnvPrefix 环境变量前缀
const EnvPrefix = "STINT_"

// Config 命令行服务配置（文件/环境变量形式）
type Config struct {
	Host          string        `toml:"host" env:"HOST"`
	Port          int           `toml:"port" env:"PORT"`
	Prompt        string        `toml:"prompt" env:"PROMPT"`
	Welcome       string        `toml:"welcome" env:"WELCOME"`
	BufferSize    int           `toml:"buffer_size" env:"BUFFER_SIZE"`
	LineEnding    string        `toml:"line_ending" env:"LINE_ENDING"`
	Delimiter     string        `toml:"delimiter" env:"DELIMITER"`
	AutoBackspace bool          `toml:"auto_backspace" env:"AUTO_BACKSPACE"`
	MaxHistory    int           `toml:"max_history" env:"MAX_HISTORY"`
	IdleTimeout   time.Duration `toml:"idle_timeout" env:"IDLE_TIMEOUT"`
	Debug         bool          `toml:"debug" env:"DEBUG"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Host:          "0.0.0.0",
		Port:          2323,
		Prompt:        "stint> ",
		Welcome:       "Welcome to stint!\r\nType 'help' for available commands.\r\n",
		BufferSize:    128,
		LineEnding:    types.LineEndingNormalize.String(),
		Delimiter:     `\n`,
		AutoBackspace: true,
		MaxHistory:    100,
		IdleTimeout:   10 * time.Minute,
	}
}

// Load 加载配置，path 和 envFile 为空时跳过对应的文件
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
		}
	}

	if envFile != "" {
		// godotenv 不覆盖已经存在的环境变量
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.BufferSize < 2 {
		return fmt.Errorf("buffer_size must be at least 2, got %d", c.BufferSize)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if _, err := ParseLineEnding(c.LineEnding); err != nil {
		return err
	}
	if _, err := ParseDelimiter(c.Delimiter); err != nil {
		return err
	}
	return nil
}

// Types 转换为运行时配置
func (c *Config) Types() (*types.Config, error) {
	ending, err := ParseLineEnding(c.LineEnding)
	if err != nil {
		return nil, err
	}
	delim, err := ParseDelimiter(c.Delimiter)
	if err != nil {
		return nil, err
	}

	return &types.Config{
		Host:          c.Host,
		Port:          c.Port,
		Prompt:        c.Prompt,
		WelcomeMsg:    c.Welcome,
		BufferSize:    c.BufferSize,
		LineEnding:    ending,
		Delimiter:     delim,
		AutoBackspace: c.AutoBackspace,
		MaxHistory:    c.MaxHistory,
		IdleTimeout:   c.IdleTimeout,
	}, nil
}

// ParseLineEnding 解析行结束策略名称
func ParseLineEnding(s string) (types.LineEnding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normalize":
		return types.LineEndingNormalize, nil
	case "fixed":
		return types.LineEndingFixed, nil
	default:
		return 0, fmt.Errorf("unknown line_ending %q (want normalize or fixed)", s)
	}
}

// ParseDelimiter 解析分隔符，支持转义形式（\n、\r、\x00）、0x 开头的十六进制和单个字符
func ParseDelimiter(s string) (byte, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 8)
		if err != nil {
			return 0, fmt.Errorf("invalid delimiter %q: %w", s, err)
		}
		return byte(v), nil
	}

	unquoted := s
	if strings.HasPrefix(s, `\`) {
		var err error
		unquoted, err = strconv.Unquote(`"` + s + `"`)
		if err != nil {
			return 0, fmt.Errorf("invalid delimiter %q: %w", s, err)
		}
	}
	if len(unquoted) != 1 {
		return 0, fmt.Errorf("delimiter must be a single byte, got %q", s)
	}
	return unquoted[0], nil
}
