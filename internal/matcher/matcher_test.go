package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TrailHuang/stint/pkg/types"
)

func nop(arg []byte, n int) {}

func table() []types.Command {
	return []types.Command{
		{Name: "foo", Handler: nop, Help: "Prints \"bar\""},
		{Name: "foobar", Handler: nop},
		{Name: "check", Handler: nop},
		{Name: "barfoo", Handler: nop},
	}
}

func line(s string) []byte {
	return append([]byte(s), 0)
}

func TestMatch(t *testing.T) {
	tests := []struct {
		input   string
		wantIdx int
		wantArg string
	}{
		{"foo", 0, "\x00"},
		{"foobar", 1, "\x00"},
		{"barfoo", 3, "\x00"},
		{"check this", 2, "this\x00"},
		{"check  two spaces", 2, " two spaces\x00"},
		{"foo bar baz", 0, "bar baz\x00"},
		{"fo", -1, ""},
		{"fooba", -1, ""},
		{"xfoo", -1, ""},
		{"checkthis", -1, ""},
		{"", -1, ""},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			idx, arg := Match(table(), line(tc.input))
			assert.Equal(t, tc.wantIdx, idx)
			if tc.wantIdx >= 0 {
				assert.Equal(t, tc.wantArg, string(arg))
			} else {
				assert.Nil(t, arg)
			}
		})
	}
}

func TestMatchIsAnchored(t *testing.T) {
	cmds := []types.Command{{Name: "foo", Handler: nop}}
	idx, _ := Match(cmds, line("barfoo"))
	assert.Equal(t, -1, idx)

	idx, _ = Match(cmds, line("bar foo"))
	assert.Equal(t, -1, idx)
}

func TestMatchRegistrationOrderWins(t *testing.T) {
	cmds := []types.Command{
		{Name: "set", Handler: nop},
		{Name: "set", Handler: nop},
	}
	idx, arg := Match(cmds, line("set x"))
	assert.Equal(t, 0, idx)
	assert.Equal(t, "x\x00", string(arg))
}

func TestMatchSkipsInertEntries(t *testing.T) {
	cmds := []types.Command{
		{Name: "foo"},
		{Name: "", Handler: nop},
		{Name: "foo", Handler: nop},
	}
	idx, _ := Match(cmds, line("foo"))
	assert.Equal(t, 2, idx)
}

func TestMatchEmbeddedTerminator(t *testing.T) {
	idx, arg := Match(table(), []byte("foo\x00rest\x00"))
	assert.Equal(t, 0, idx)
	assert.Equal(t, "rest\x00", string(arg))
}

func TestDispatch(t *testing.T) {
	var got []byte
	var gotLen int
	cmds := []types.Command{
		{Name: "echo", Handler: func(arg []byte, n int) {
			got = append([]byte(nil), arg...)
			gotLen = n
		}},
	}

	require.True(t, Dispatch(cmds, line("echo hello world")))
	assert.Equal(t, "hello world\x00", string(got))
	assert.Equal(t, 12, gotLen)

	got = nil
	require.True(t, Dispatch(cmds, line("echo")))
	assert.Equal(t, []byte{0}, got)
	assert.Equal(t, 1, gotLen)

	assert.False(t, Dispatch(cmds, line("ech")))
}
