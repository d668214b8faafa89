package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/TrailHuang/stint/internal/session"
	"github.com/TrailHuang/stint/pkg/log"
	"github.com/TrailHuang/stint/pkg/types"
)

// TelnetServer telnet服务器，每个连接一个会话和一个独立的解释器
type TelnetServer struct {
	config   *types.Config
	table    types.CommandTable
	listener net.Listener
	sessions map[net.Conn]*session.Session
	mu       sync.RWMutex
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewTelnetServer 创建新的telnet服务器，ctx 携带日志对象
func NewTelnetServer(ctx context.Context, config *types.Config, table types.CommandTable) *TelnetServer {
	ctx, cancel := context.WithCancel(ctx)

	return &TelnetServer{
		config:   config,
		table:    table,
		sessions: make(map[net.Conn]*session.Session),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start 启动telnet服务器
func (ts *TelnetServer) Start() error {
	logger := log.FromCtx(ts.ctx)

	addr := net.JoinHostPort(ts.config.Host, fmt.Sprint(ts.config.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	ts.listener = listener

	ts.wg.Add(1)
	go ts.acceptConnections()

	logger.Info().Str("addr", listener.Addr().String()).Msg("telnet server started")
	return nil
}

// Addr 监听地址，未启动时返回 nil
func (ts *TelnetServer) Addr() net.Addr {
	if ts.listener == nil {
		return nil
	}
	return ts.listener.Addr()
}

// Stop 停止telnet服务器并关闭所有会话
func (ts *TelnetServer) Stop() {
	if ts.cancel != nil {
		ts.cancel()
	}

	if ts.listener != nil {
		ts.listener.Close()
	}

	ts.mu.Lock()
	for conn, s := range ts.sessions {
		s.Close()
		delete(ts.sessions, conn)
	}
	ts.mu.Unlock()

	ts.wg.Wait()
}

// SessionCount 当前活动会话数
func (ts *TelnetServer) SessionCount() int {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return len(ts.sessions)
}

// acceptConnections 接受连接
func (ts *TelnetServer) acceptConnections() {
	defer ts.wg.Done()
	logger := log.FromCtx(ts.ctx)

	for {
		conn, err := ts.listener.Accept()
		if err != nil {
			if ts.ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			logger.Warn().Err(err).Msg("accept failed")
			continue
		}

		ts.wg.Add(1)
		go ts.handleConnection(conn)
	}
}

// handleConnection 处理连接
func (ts *TelnetServer) handleConnection(conn net.Conn) {
	defer ts.wg.Done()
	defer conn.Close()

	logger := log.FromCtx(ts.ctx).With().Str("remote", conn.RemoteAddr().String()).Logger()
	ctx := logger.WithContext(ts.ctx)

	s, err := session.NewSession(conn, ts.config, ts.table, session.WithTelnet())
	if err != nil {
		logger.Error().Err(err).Msg("failed to create session")
		return
	}

	ts.mu.Lock()
	if ts.ctx.Err() != nil {
		ts.mu.Unlock()
		return
	}
	ts.sessions[conn] = s
	ts.mu.Unlock()

	logger.Info().Msg("session opened")
	err = s.Handle(ctx)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, net.ErrClosed) {
		logger.Warn().Err(err).Msg("session error")
	}
	logger.Info().Int("commands", s.History().Len()).Msg("session closed")

	ts.mu.Lock()
	delete(ts.sessions, conn)
	ts.mu.Unlock()
}
