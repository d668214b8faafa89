package server

import (
	"bufio"
	"context"
	"io"
	"net"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TrailHuang/stint/pkg/types"
)

func startServer(t *testing.T, table types.CommandTable) *TelnetServer {
	t.Helper()
	cfg := &types.Config{
		Host:          "127.0.0.1",
		Port:          0,
		Prompt:        "> ",
		WelcomeMsg:    "welcome\r\n",
		BufferSize:    64,
		AutoBackspace: true,
		MaxHistory:    10,
		IdleTimeout:   5 * time.Second,
	}
	ts := NewTelnetServer(context.Background(), cfg, table)
	require.NoError(t, ts.Start())
	t.Cleanup(ts.Stop)
	return ts
}

// readUntil 读取直到出现 marker
func readUntil(t *testing.T, r *bufio.Reader, marker string) string {
	t.Helper()
	var sb strings.Builder
	for !strings.Contains(sb.String(), marker) {
		b, err := r.ReadByte()
		require.NoError(t, err, "waiting for %q, got %q", marker, sb.String())
		sb.WriteByte(b)
	}
	return sb.String()
}

func TestServerDispatchesPerConnection(t *testing.T) {
	var pings atomic.Int32
	ts := startServer(t, func(w io.Writer) []types.Command {
		return []types.Command{
			{Name: "ping", Handler: func(arg []byte, n int) {
				pings.Add(1)
				io.WriteString(w, "pong "+types.Arg(arg)+"\r\n")
			}},
		}
	})

	conn, err := net.Dial("tcp", ts.Addr().String())
	require.NoError(t, err)
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))
	r := bufio.NewReader(conn)

	readUntil(t, r, "welcome\r\n> ")

	_, err = conn.Write([]byte("ping 1\r\n"))
	require.NoError(t, err)
	readUntil(t, r, "pong 1\r\n> ")

	_, err = conn.Write([]byte("nope\r\n"))
	require.NoError(t, err)
	readUntil(t, r, "Unknown command: nope")

	assert.Equal(t, 1, ts.SessionCount())

	_, err = conn.Write([]byte("quit\r\n"))
	require.NoError(t, err)
	readUntil(t, r, "Goodbye!\r\n")

	_, err = r.ReadByte()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, int32(1), pings.Load())
}

func TestServerStopClosesSessions(t *testing.T) {
	ts := startServer(t, nil)

	conn, err := net.Dial("tcp", ts.Addr().String())
	require.NoError(t, err)
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))
	r := bufio.NewReader(conn)
	readUntil(t, r, "> ")

	ts.Stop()

	_, err = io.ReadAll(r)
	assert.NoError(t, err)
	assert.Equal(t, 0, ts.SessionCount())
}

func TestServerStartFailsOnBusyPort(t *testing.T) {
	ts := startServer(t, nil)
	_, port, err := net.SplitHostPort(ts.Addr().String())
	require.NoError(t, err)

	portNum, err := strconv.Atoi(port)
	require.NoError(t, err)

	cfg := &types.Config{Host: "127.0.0.1", Port: portNum, BufferSize: 8}
	other := NewTelnetServer(context.Background(), cfg, nil)
	assert.Error(t, other.Start())
}
